package e2e

import (
	"github.com/cucumber/godog"

	"vaxtrack/e2e/steps/child"
	"vaxtrack/e2e/steps/common"
	"vaxtrack/e2e/steps/stock"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (sessions, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	child.RegisterSteps(ctx, tc)
	stock.RegisterSteps(ctx, tc)
}

package stock

import (
	"context"
	"time"

	"github.com/cucumber/godog"
)

type TestContext interface {
	POST(path string, body interface{}) error
	PUT(path string, body interface{}) error
}

// RegisterSteps registers stock-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &stockSteps{tc: tc}

	ctx.Step(`^I receive (\d+) doses of "([^"]*)" in batch "([^"]*)"$`, steps.receive)
	ctx.Step(`^I record wastage of (\d+) doses of "([^"]*)"$`, steps.wastage)
	ctx.Step(`^I set the reorder level of "([^"]*)" to (\d+)$`, steps.setReorderLevel)
}

type stockSteps struct {
	tc TestContext
}

func (s *stockSteps) receive(ctx context.Context, quantity int, vaccine, batch string) error {
	return s.tc.POST("/stock/"+vaccine+"/receipts", map[string]interface{}{
		"batch_number": batch,
		"expiry_date":  time.Now().AddDate(1, 0, 0).Format(time.DateOnly),
		"quantity":     quantity,
	})
}

func (s *stockSteps) wastage(ctx context.Context, quantity int, vaccine string) error {
	return s.tc.POST("/stock/"+vaccine+"/wastage", map[string]interface{}{
		"quantity": quantity,
		"reason":   "vial broken",
	})
}

func (s *stockSteps) setReorderLevel(ctx context.Context, vaccine string, level int) error {
	return s.tc.PUT("/stock/"+vaccine+"/reorder-level", map[string]interface{}{
		"reorder_level": level,
	})
}

package common

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	AdminPOST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	StartSession(facility, role string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetResponseField(field string) (interface{}, error)
}

// RegisterSteps registers session, request and assertion steps shared by all features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^an active facility "([^"]*)" exists$`, steps.facilityExists)
	ctx.Step(`^I am signed in as a "([^"]*)" at "([^"]*)"$`, steps.signIn)
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be (\d+)$`, steps.fieldShouldBeNumber)
}

type commonSteps struct {
	tc TestContext
}

// facilityExists tolerates a conflict so scenarios can share a server.
func (s *commonSteps) facilityExists(ctx context.Context, code string) error {
	err := s.tc.AdminPOST("/admin/facilities", map[string]interface{}{
		"code":                  code,
		"name":                  code + " Health Centre",
		"district":              "Accra Metro",
		"region":                "Greater Accra",
		"default_reorder_level": 10,
	})
	if err != nil {
		return err
	}
	switch s.tc.GetLastResponseStatus() {
	case http.StatusCreated, http.StatusConflict:
		return nil
	default:
		return fmt.Errorf("create facility %s: status %d: %s", code, s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
}

func (s *commonSteps) signIn(ctx context.Context, role, facility string) error {
	return s.tc.StartSession(facility, role)
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(value) != expected {
		return fmt.Errorf("expected %s to be %q, got %v", field, expected, value)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeNumber(ctx context.Context, field string, expected int) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	// JSON numbers decode as float64
	n, ok := value.(float64)
	if !ok || int(n) != expected {
		return fmt.Errorf("expected %s to be %d, got %v", field, expected, value)
	}
	return nil
}

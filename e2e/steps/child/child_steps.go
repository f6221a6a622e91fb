package child

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	ChildID() string
	SetChildID(id string)
}

// RegisterSteps registers child registration and administration steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &childSteps{tc: tc}

	ctx.Step(`^I register a child born (\d+) days ago with guardian phone "([^"]*)"$`, steps.registerChild)
	ctx.Step(`^I save the child id$`, steps.saveChildID)
	ctx.Step(`^I administer "([^"]*)" to the child$`, steps.administer)
	ctx.Step(`^I mark "([^"]*)" as "([^"]*)" for the child$`, steps.closeEntry)
	ctx.Step(`^I fetch the child$`, steps.fetchChild)
	ctx.Step(`^the schedule entry "([^"]*)" should be "([^"]*)"$`, steps.entryShouldBe)
}

type childSteps struct {
	tc TestContext
}

func (s *childSteps) registerChild(ctx context.Context, daysAgo int, phone string) error {
	dob := time.Now().AddDate(0, 0, -daysAgo).Format(time.DateOnly)
	return s.tc.POST("/children", map[string]interface{}{
		"first_name":    "Ama",
		"last_name":     "Mensah",
		"date_of_birth": dob,
		"gender":        "female",
		"guardian": map[string]interface{}{
			"name":         "Akosua Mensah",
			"phone":        phone,
			"relationship": "mother",
		},
		"address": map[string]interface{}{
			"village":  "Osu",
			"district": "Accra Metro",
		},
	})
}

func (s *childSteps) saveChildID(ctx context.Context) error {
	id, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	childID, ok := id.(string)
	if !ok || childID == "" {
		return fmt.Errorf("response has no child id")
	}
	s.tc.SetChildID(childID)
	return nil
}

func (s *childSteps) administer(ctx context.Context, vaccine string) error {
	return s.tc.POST("/children/"+s.tc.ChildID()+"/administrations", map[string]interface{}{
		"vaccine_id":   vaccine,
		"batch_number": "BN2024001",
	})
}

func (s *childSteps) closeEntry(ctx context.Context, vaccine, status string) error {
	return s.tc.POST("/children/"+s.tc.ChildID()+"/schedule/"+vaccine+"/close", map[string]interface{}{
		"status": status,
		"notes":  "recorded by e2e",
	})
}

func (s *childSteps) fetchChild(ctx context.Context) error {
	return s.tc.GET("/children/"+s.tc.ChildID(), nil)
}

func (s *childSteps) entryShouldBe(ctx context.Context, vaccine, status string) error {
	raw, err := s.tc.GetResponseField("schedule")
	if err != nil {
		return err
	}
	entries, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("schedule is not a list")
	}
	for _, e := range entries {
		entry, ok := e.(map[string]interface{})
		if !ok || entry["vaccine_id"] != vaccine {
			continue
		}
		if entry["status"] != status {
			return fmt.Errorf("expected %s to be %q, got %v", vaccine, status, entry["status"])
		}
		return nil
	}
	return fmt.Errorf("schedule has no entry for %s", vaccine)
}

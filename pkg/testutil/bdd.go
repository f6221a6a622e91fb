package testutil

import "testing"

// Scenario groups Given/When/Then steps under one subtest. Steps run in
// order and later steps are skipped once one fails, since they depend on the
// state the earlier ones built.
type Scenario struct {
	t      *testing.T
	failed bool
}

func NewScenario(t *testing.T) *Scenario {
	t.Helper()
	return &Scenario{t: t}
}

func (s *Scenario) Given(desc string, fn func(t *testing.T)) *Scenario {
	return s.step("Given "+desc, fn)
}

func (s *Scenario) When(desc string, fn func(t *testing.T)) *Scenario {
	return s.step("When "+desc, fn)
}

func (s *Scenario) Then(desc string, fn func(t *testing.T)) *Scenario {
	return s.step("Then "+desc, fn)
}

func (s *Scenario) And(desc string, fn func(t *testing.T)) *Scenario {
	return s.step("And "+desc, fn)
}

func (s *Scenario) step(name string, fn func(t *testing.T)) *Scenario {
	s.t.Helper()
	if s.failed {
		s.t.Run(name, func(t *testing.T) { t.Skip("earlier step failed") })
		return s
	}
	if !s.t.Run(name, fn) {
		s.failed = true
	}
	return s
}

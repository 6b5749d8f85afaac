// Package bridgetest provides a test double and a conformance suite
// for bridge implementations.
package bridgetest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dball/federation/domain/entities"
	"github.com/dball/federation/domain/ports"
)

// Stub is a canned bridge for tests of code that consumes one. The
// zero value returns empty results; set the fields to shape responses.
// Calls are recorded for inspection. Not safe for concurrent use.
type Stub struct {
	SDL        string
	ComposeErr error
	PlanJSON   string
	PlanErr    error

	ComposeCalls []entities.ServiceList
	PlanCalls    []entities.OperationalContext
}

var _ ports.Bridge = (*Stub)(nil)

// Compose records the call and returns the canned SDL or error.
func (s *Stub) Compose(_ context.Context, services entities.ServiceList) (string, error) {
	s.ComposeCalls = append(s.ComposeCalls, services)
	if s.ComposeErr != nil {
		return "", s.ComposeErr
	}
	return s.SDL, nil
}

// Plan records the call and returns the canned plan JSON or error.
func (s *Stub) Plan(_ context.Context, opCtx entities.OperationalContext, _ entities.QueryPlanOptions) (string, error) {
	s.PlanCalls = append(s.PlanCalls, opCtx)
	if s.PlanErr != nil {
		return "", s.PlanErr
	}
	return s.PlanJSON, nil
}

// ComposeCase defines one composition case for a bridge.
type ComposeCase struct {
	Name     string
	Services entities.ServiceList
	Validate func(t *testing.T, sdl string, err error)
}

// RunComposeTests runs a suite of composition cases against a bridge.
// Any implementation of the bridge contract should pass the same
// suite.
func RunComposeTests(t *testing.T, bridge ports.Bridge, cases []ComposeCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			sdl, err := bridge.Compose(context.Background(), tc.Services)
			if tc.Validate != nil {
				tc.Validate(t, sdl, err)
			}
		})
	}
}

// PlanCase defines one planning case for a bridge.
type PlanCase struct {
	Name     string
	Context  entities.OperationalContext
	Options  entities.QueryPlanOptions
	Validate func(t *testing.T, plan string, err error)
}

// RunPlanTests runs a suite of planning cases against a bridge.
func RunPlanTests(t *testing.T, bridge ports.Bridge, cases []PlanCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			plan, err := bridge.Plan(context.Background(), tc.Context, tc.Options)
			if tc.Validate != nil {
				tc.Validate(t, plan, err)
			}
		})
	}
}

// AssertComposed asserts composition succeeded and the SDL contains
// each fragment.
func AssertComposed(t *testing.T, sdl string, err error, fragments ...string) {
	t.Helper()
	if err != nil {
		t.Errorf("expected composition to succeed, got %v", err)
		return
	}
	for _, fragment := range fragments {
		if !strings.Contains(sdl, fragment) {
			t.Errorf("composed SDL missing %q", fragment)
		}
	}
}

// AssertCompositionErrors asserts the error carries composition
// diagnostics and returns them.
func AssertCompositionErrors(t *testing.T, err error) entities.CompositionErrors {
	t.Helper()
	var compErrs entities.CompositionErrors
	if !errors.As(err, &compErrs) {
		t.Errorf("expected composition errors, got %v", err)
		return nil
	}
	if len(compErrs) == 0 {
		t.Error("expected at least one composition error")
	}
	return compErrs
}

// AssertPlanned asserts planning succeeded and the plan JSON contains
// each fragment.
func AssertPlanned(t *testing.T, plan string, err error, fragments ...string) {
	t.Helper()
	if err != nil {
		t.Errorf("expected planning to succeed, got %v", err)
		return
	}
	for _, fragment := range fragments {
		if !strings.Contains(plan, fragment) {
			t.Errorf("query plan missing %q", fragment)
		}
	}
}

// AssertPlanningErrors asserts the error carries planning diagnostics
// and returns them.
func AssertPlanningErrors(t *testing.T, err error) entities.PlanningErrors {
	t.Helper()
	var planErrs entities.PlanningErrors
	if !errors.As(err, &planErrs) {
		t.Errorf("expected planning errors, got %v", err)
		return nil
	}
	if len(planErrs) == 0 {
		t.Error("expected at least one planning error")
	}
	return planErrs
}

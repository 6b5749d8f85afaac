package ports

import (
	"context"

	"github.com/dball/federation/domain/entities"
)

// Bridge is the two-operation contract of the embedded module. The default
// implementation runs a scripted module through a ScriptEngine; alternative
// implementations may execute other builds of the same module.
//
// Both operations return the content-failure lists as their error value
// (entities.CompositionErrors / entities.PlanningErrors) when the module
// reports problems, and bridge failure types from domain/errors when the
// invocation itself breaks.
type Bridge interface {
	// Compose merges the subgraph schemas into one supergraph document.
	Compose(ctx context.Context, services entities.ServiceList) (string, error)

	// Plan builds a query plan for one operation against a composed schema.
	Plan(ctx context.Context, opctx entities.OperationalContext, opts entities.QueryPlanOptions) (string, error)
}

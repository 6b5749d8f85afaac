package federation

import (
	"context"

	"github.com/dball/federation/domain/entities"
	"github.com/dball/federation/host"
	"github.com/dball/federation/internal/bridgejs"
)

// Plan builds a query plan for executing opCtx.Query against the
// supergraph schema in opCtx.Schema, returned as the plan's JSON
// encoding.
//
// Unparseable schemas or queries, unknown operations and unplannable
// selections return entities.PlanningErrors; any other error is a
// bridge failure.
func (b *Bridge) Plan(ctx context.Context, opCtx entities.OperationalContext, options entities.QueryPlanOptions) (string, error) {
	call := host.Call{
		Name:      "plan",
		Bootstrap: host.Script{Name: bridgejs.BootstrapName, Source: bridgejs.Bootstrap},
		Module:    host.Script{Name: bridgejs.ModuleName, Source: bridgejs.Module},
		Globals: []host.Global{
			{Name: "context", Value: opCtx},
			{Name: "options", Value: options},
		},
		Driver: host.Script{Name: bridgejs.PlanDriverName, Source: bridgejs.PlanDriver},
	}

	data, contentErrs, err := host.Run[entities.PlanningError](ctx, b.engine, call, b.sessionOpts...)
	if err != nil {
		return "", err
	}
	if len(contentErrs) > 0 {
		return "", entities.PlanningErrors(contentErrs)
	}
	return data, nil
}

// Plan builds a query plan with a shared default Bridge.
func Plan(ctx context.Context, opCtx entities.OperationalContext, options entities.QueryPlanOptions) (string, error) {
	return defaultBridge().Plan(ctx, opCtx, options)
}

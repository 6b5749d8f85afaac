package federation

import (
	"context"

	"github.com/dball/federation/domain/entities"
	"github.com/dball/federation/host"
	"github.com/dball/federation/internal/bridgejs"
)

// Compose merges the schemas of the given services, in order, into a
// single supergraph schema and returns its SDL.
//
// Schemas that cannot be merged (syntax errors, conflicting or
// extension-without-base definitions, missing query root) return
// entities.CompositionErrors carrying the module's diagnostics; any
// other error is a bridge failure.
func (b *Bridge) Compose(ctx context.Context, services entities.ServiceList) (string, error) {
	if services == nil {
		services = entities.ServiceList{}
	}
	call := host.Call{
		Name:      "compose",
		Bootstrap: host.Script{Name: bridgejs.BootstrapName, Source: bridgejs.Bootstrap},
		Module:    host.Script{Name: bridgejs.ModuleName, Source: bridgejs.Module},
		Globals: []host.Global{
			{Name: "serviceList", Value: services},
		},
		Driver: host.Script{Name: bridgejs.ComposeDriverName, Source: bridgejs.ComposeDriver},
	}

	data, contentErrs, err := host.Run[entities.CompositionError](ctx, b.engine, call, b.sessionOpts...)
	if err != nil {
		return "", err
	}
	if len(contentErrs) > 0 {
		return "", entities.CompositionErrors(contentErrs)
	}
	return data, nil
}

// Compose merges service schemas with a shared default Bridge.
func Compose(ctx context.Context, services entities.ServiceList) (string, error) {
	return defaultBridge().Compose(ctx, services)
}

package gateway

import (
	"context"
	"fmt"

	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/HerbHall/wispgate/pkg/roles"
)

// RouterLookup is the consumer-side interface for router resolution.
// Defined where consumed (gateway) rather than where implemented
// (directory), following the consumer-side interface convention.
type RouterLookup interface {
	RouterByID(ctx context.Context, id string) (*models.Router, error)
}

// resolveRouterLookup attempts to find a plugin filling the
// "router_directory" role that also implements RouterLookup. Returns nil
// and an error if unavailable.
func resolveRouterLookup(resolver plugin.PluginResolver) (RouterLookup, error) {
	if resolver == nil {
		return nil, fmt.Errorf("plugin resolver not available")
	}

	plugins := resolver.ResolveByRole(roles.RoleRouterDirectory)
	if len(plugins) == 0 {
		return nil, fmt.Errorf("no plugin with role %q registered", roles.RoleRouterDirectory)
	}

	for _, p := range plugins {
		if rl, ok := p.(RouterLookup); ok {
			return rl, nil
		}
	}

	return nil, fmt.Errorf("directory plugin does not implement RouterLookup")
}

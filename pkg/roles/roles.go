// Package roles defines typed contracts for plugin roles.
// Plugins that fill a role (declared via PluginInfo.Roles) should implement
// the corresponding interface so callers can use type-safe access via
// PluginResolver.ResolveByRole followed by a type assertion.
//
// This package is Apache 2.0 licensed, part of the public plugin SDK.
package roles

import (
	"context"
	"errors"

	"github.com/HerbHall/wispgate/pkg/models"
)

// Role name constants match the strings used in PluginInfo.Roles.
const (
	RoleRouterDirectory = "router_directory"
	RoleCommandGateway  = "command_gateway"
	RoleBilling         = "billing"
	RoleNotification    = "notification"
)

// ErrRouterNotFound is returned by RouterProvider implementations when no
// router with the requested ID exists. Callers across plugin boundaries
// match it with errors.Is.
var ErrRouterNotFound = errors.New("router not found")

// RouterProvider is implemented by plugins that own the router inventory.
// Records come back with credentials unsealed, ready to dial.
type RouterProvider interface {
	// Routers returns all registered routers.
	Routers(ctx context.Context) ([]models.Router, error)

	// RouterByID returns a single router by its ID.
	RouterByID(ctx context.Context, id string) (*models.Router, error)
}

// Notifier is implemented by plugins that deliver notifications (MQTT,
// webhooks, etc.).
type Notifier interface {
	// Notify sends a notification with the given payload.
	Notify(ctx context.Context, notification Notification) error
}

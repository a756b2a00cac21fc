// Package billing enforces subscriber billing state on managed routers.
// A lease apply converges three device resources in one call: a
// self-removing deactivation job on the scheduler, the subscriber's
// bandwidth queue and the lease payload anchored on the authorized
// address-list entry. The module also toggles WAN failover by flipping
// every gateway-probed route at once.
//
// Billing keeps no local state. The router is the datastore; every
// operation reads the device and converges it, so a reapplied lease is
// idempotent.
package billing

import (
	"context"
	"fmt"

	"github.com/HerbHall/wispgate/internal/routeros"
	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/HerbHall/wispgate/pkg/roles"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin        = (*Module)(nil)
	_ plugin.HTTPProvider  = (*Module)(nil)
	_ plugin.HealthChecker = (*Module)(nil)
)

// ClientFactory dials protocol clients for router records. The concrete
// implementation is routeros.Factory; the interface exists so tests can
// install a fake.
type ClientFactory interface {
	Dial(ctx context.Context, r *models.Router) (routeros.Client, error)
	Forget(routerID string)
}

// Module implements the Billing plugin.
type Module struct {
	logger  *zap.Logger
	config  plugin.Config
	cfg     BillingConfig
	engine  *Engine
	factory ClientFactory
	routers RouterLookup
	plugins plugin.PluginResolver
	bus     plugin.EventBus
}

// New creates a new Billing plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "billing",
		Version:     "0.1.0",
		Description: "Subscriber lease enforcement and WAN failover control",
		Roles:       []string{roles.RoleBilling},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	m.config = deps.Config
	m.logger = deps.Logger
	m.bus = deps.Bus
	m.plugins = deps.Plugins

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return fmt.Errorf("unmarshal billing config: %w", err)
		}
	}

	if m.factory == nil {
		m.factory = routeros.NewFactory(m.logger.Named("routeros"))
	}
	m.engine = NewEngine(m.cfg, m.logger)

	m.logger.Info("billing module initialized",
		zap.String("authorized_list", m.cfg.AuthorizedList),
		zap.String("pending_list", m.cfg.PendingList))
	return nil
}

func (m *Module) Start(_ context.Context) error {
	if m.routers == nil {
		rl, err := resolveRouterLookup(m.plugins)
		if err != nil {
			m.logger.Warn("router lookup unavailable; lease operations will fail until a directory plugin registers", zap.Error(err))
		} else {
			m.routers = rl
		}
	}

	m.logger.Info("billing module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("billing module stopped")
	return nil
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(_ context.Context) plugin.HealthStatus {
	if m.routers == nil {
		return plugin.HealthStatus{Status: "degraded", Message: "router directory not resolved"}
	}
	return plugin.HealthStatus{
		Status:  "healthy",
		Details: map[string]string{"authorized_list": m.cfg.AuthorizedList},
	}
}

// Package gateway exposes the raw command surface for managed routers.
// Any HTTP method sent under /routers/{id}/{path...} is translated into
// the router's native API dialect, executed, normalized and audited.
package gateway

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/HerbHall/wispgate/internal/directory"
	"github.com/HerbHall/wispgate/internal/routeros"
	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin          = (*Module)(nil)
	_ plugin.HTTPProvider    = (*Module)(nil)
	_ plugin.HealthChecker   = (*Module)(nil)
	_ plugin.EventSubscriber = (*Module)(nil)
)

// ClientFactory dials protocol clients for router records. The concrete
// implementation is routeros.Factory; the interface exists so tests can
// install a fake.
type ClientFactory interface {
	Dial(ctx context.Context, r *models.Router) (routeros.Client, error)
	Forget(routerID string)
}

// Module implements the Gateway command passthrough plugin.
type Module struct {
	logger  *zap.Logger
	config  plugin.Config
	cfg     GatewayConfig
	store   *GatewayStore
	factory ClientFactory
	routers RouterLookup
	plugins plugin.PluginResolver
	bus     plugin.EventBus

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Gateway plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "gateway",
		Version:     "0.1.0",
		Description: "Raw command passthrough to router APIs",
		Roles:       []string{"command_gateway"},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.config = deps.Config
	m.logger = deps.Logger
	m.bus = deps.Bus
	m.plugins = deps.Plugins

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return fmt.Errorf("unmarshal gateway config: %w", err)
		}
	}

	if deps.Store != nil {
		if err := deps.Store.Migrate(ctx, "gateway", migrations()); err != nil {
			return fmt.Errorf("gateway migrations: %w", err)
		}
		m.store = NewGatewayStore(deps.Store.DB())
	}

	if m.factory == nil {
		m.factory = routeros.NewFactory(m.logger.Named("routeros"))
	}

	m.logger.Info("gateway module initialized")
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.ctx, m.cancel = context.WithCancel(context.Background())

	if m.routers == nil {
		rl, err := resolveRouterLookup(m.plugins)
		if err != nil {
			m.logger.Warn("router lookup unavailable; commands will fail until a directory plugin registers", zap.Error(err))
		} else {
			m.routers = rl
		}
	}

	if m.store != nil && m.cfg.MaintenanceInterval > 0 {
		m.startMaintenance()
	}

	m.logger.Info("gateway module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.logger.Info("gateway module stopped")
	return nil
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	if m.store == nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: "store not available"}
	}
	if m.routers == nil {
		return plugin.HealthStatus{Status: "degraded", Message: "router directory not resolved"}
	}
	count, err := m.store.CommandCount(ctx)
	if err != nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: err.Error()}
	}
	return plugin.HealthStatus{
		Status:  "healthy",
		Details: map[string]string{"audited_commands": strconv.FormatInt(count, 10)},
	}
}

// Subscriptions implements plugin.EventSubscriber. A deleted router
// invalidates any cached client for it.
func (m *Module) Subscriptions() []plugin.Subscription {
	return []plugin.Subscription{
		{Topic: directory.TopicRouterDeleted, Handler: m.onRouterDeleted},
	}
}

func (m *Module) onRouterDeleted(_ context.Context, event plugin.Event) {
	payload, ok := event.Payload.(map[string]string)
	if !ok {
		return
	}
	if id := payload["router_id"]; id != "" && m.factory != nil {
		m.factory.Forget(id)
	}
}

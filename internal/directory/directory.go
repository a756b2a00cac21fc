// Package directory is the system of record for managed routers. It owns
// the router CRUD surface, seals device credentials at rest, and answers
// record lookups for the gateway and billing modules.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin        = (*Module)(nil)
	_ plugin.HTTPProvider  = (*Module)(nil)
	_ plugin.HealthChecker = (*Module)(nil)
)

// Module implements the Directory router inventory plugin.
type Module struct {
	logger *zap.Logger
	config plugin.Config
	cfg    DirectoryConfig
	store  *RouterStore
	sealer *Sealer
	prober *Prober
	bus    plugin.EventBus
}

// New creates a new Directory plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "directory",
		Version:     "0.1.0",
		Description: "Router inventory with sealed credentials",
		Roles:       []string{"router_directory"},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.config = deps.Config
	m.logger = deps.Logger
	m.bus = deps.Bus

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return fmt.Errorf("unmarshal directory config: %w", err)
		}
	}

	if deps.Store != nil {
		if err := deps.Store.Migrate(ctx, "directory", migrations()); err != nil {
			return fmt.Errorf("directory migrations: %w", err)
		}
		m.store = NewRouterStore(deps.Store.DB())

		if err := m.initSealer(ctx); err != nil {
			return err
		}
	}

	m.prober = NewProber(m.cfg, m.logger.Named("probe"))

	m.logger.Info("directory module initialized",
		zap.Duration("probe_timeout", m.cfg.ProbeTimeout),
		zap.Int("probe_count", m.cfg.ProbeCount),
	)
	return nil
}

// initSealer derives the sealing key and verifies it against the stored
// verification blob, bootstrapping both on first run.
func (m *Module) initSealer(ctx context.Context) error {
	if m.cfg.Passphrase == "" {
		m.logger.Warn("directory passphrase is empty; sealed credentials are only as strong as the empty passphrase")
	}

	meta, err := m.store.GetMeta(ctx)
	if err != nil {
		return fmt.Errorf("load sealing metadata: %w", err)
	}

	if meta == nil {
		salt, err := GenerateSalt()
		if err != nil {
			return err
		}
		m.sealer = NewSealer(m.cfg.Passphrase, salt)
		blob, err := m.sealer.VerificationBlob()
		if err != nil {
			return err
		}
		if err := m.store.UpsertMeta(ctx, salt, blob); err != nil {
			return err
		}
		m.logger.Info("sealing key established")
		return nil
	}

	m.sealer = NewSealer(m.cfg.Passphrase, meta.Salt)
	if !m.sealer.Verify(meta.Verification) {
		return errors.New("directory passphrase does not match sealed credentials")
	}
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("directory module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	if m.sealer != nil {
		m.sealer.Destroy()
	}
	m.logger.Info("directory module stopped")
	return nil
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	if m.store == nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: "store not available"}
	}
	count, err := m.store.RouterCount(ctx)
	if err != nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: err.Error()}
	}
	return plugin.HealthStatus{
		Status:  "healthy",
		Details: map[string]string{"routers": strconv.Itoa(count)},
	}
}

// RouterByID returns the record with its credential unsealed, ready to
// dial. This is the lookup the gateway and billing modules resolve
// through the registry.
func (m *Module) RouterByID(ctx context.Context, id string) (*models.Router, error) {
	if m.store == nil {
		return nil, errors.New("directory store not available")
	}
	rec, err := m.store.GetRouter(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("router %s: %w", id, ErrNotFound)
	}
	return m.unsealRecord(rec)
}

// Routers returns all records with credentials unsealed.
func (m *Module) Routers(ctx context.Context) ([]models.Router, error) {
	if m.store == nil {
		return nil, errors.New("directory store not available")
	}
	recs, err := m.store.ListRouters(ctx)
	if err != nil {
		return nil, err
	}
	routers := make([]models.Router, 0, len(recs))
	for i := range recs {
		r, err := m.unsealRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		routers = append(routers, *r)
	}
	return routers, nil
}

func (m *Module) unsealRecord(rec *RouterRecord) (*models.Router, error) {
	password, err := m.sealer.Unseal(rec.SealedPassword)
	if err != nil {
		return nil, fmt.Errorf("unseal credential for router %s: %w", rec.ID, err)
	}
	r := rec.Public()
	r.Password = password
	return &r, nil
}

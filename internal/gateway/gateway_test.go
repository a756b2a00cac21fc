package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/HerbHall/wispgate/internal/directory"
	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/HerbHall/wispgate/pkg/plugin/plugintest"
	"github.com/HerbHall/wispgate/pkg/roles"
)

func TestContract(t *testing.T) {
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() })
}

func TestModuleInfo(t *testing.T) {
	m := New()
	info := m.Info()

	if info.Name != "gateway" {
		t.Errorf("Name = %q, want %q", info.Name, "gateway")
	}
	if len(info.Roles) != 1 || info.Roles[0] != roles.RoleCommandGateway {
		t.Errorf("Roles = %v, want [%s]", info.Roles, roles.RoleCommandGateway)
	}
}

func TestModule_StartResolvesLookup(t *testing.T) {
	m, _, _ := newTestModule(t)
	m.routers = nil
	m.plugins = &mockPluginResolver{
		byRole: map[string][]plugin.Plugin{
			roles.RoleRouterDirectory: {&mockDirectoryPlugin{
				routers: map[string]*models.Router{"r-1": {ID: "r-1"}},
			}},
		},
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		if err := m.Stop(context.Background()); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
	}()

	if m.routers == nil {
		t.Error("Start() did not resolve the router lookup")
	}
}

func TestModule_StartWithoutDirectory(t *testing.T) {
	m, _, _ := newTestModule(t)
	m.routers = nil
	m.plugins = &mockPluginResolver{byRole: map[string][]plugin.Plugin{}}

	// Missing directory downgrades the module, it does not fail startup.
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	health := m.Health(context.Background())
	if health.Status != "degraded" {
		t.Errorf("Health().Status = %q, want degraded", health.Status)
	}
}

func TestModule_Subscriptions(t *testing.T) {
	m, _, _ := newTestModule(t)

	subs := m.Subscriptions()
	if len(subs) != 1 {
		t.Fatalf("len = %d, want 1", len(subs))
	}
	if subs[0].Topic != directory.TopicRouterDeleted {
		t.Errorf("Topic = %q, want %q", subs[0].Topic, directory.TopicRouterDeleted)
	}
}

func TestModule_Health(t *testing.T) {
	m, _, _ := newTestModule(t)

	health := m.Health(context.Background())
	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
	if health.Details["audited_commands"] != "0" {
		t.Errorf("Details = %v, want zero audited commands", health.Details)
	}
}

func TestRunMaintenance_PurgesOldRows(t *testing.T) {
	m, _, _ := newTestModule(t)
	m.ctx = context.Background()
	m.cfg.AuditRetentionDays = 90

	ctx := context.Background()
	now := time.Now().UTC()
	if err := m.store.InsertCommand(ctx, testCommand("r-1", now.AddDate(0, 0, -100))); err != nil {
		t.Fatalf("InsertCommand() error = %v", err)
	}
	if err := m.store.InsertCommand(ctx, testCommand("r-1", now)); err != nil {
		t.Fatalf("InsertCommand() error = %v", err)
	}

	m.runMaintenance()

	count, err := m.store.CommandCount(ctx)
	if err != nil {
		t.Fatalf("CommandCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want old row purged", count)
	}
}

func TestRunMaintenance_DisabledRetention(t *testing.T) {
	m, _, _ := newTestModule(t)
	m.ctx = context.Background()
	m.cfg.AuditRetentionDays = 0

	ctx := context.Background()
	if err := m.store.InsertCommand(ctx, testCommand("r-1", time.Now().UTC().AddDate(0, 0, -365))); err != nil {
		t.Fatalf("InsertCommand() error = %v", err)
	}

	m.runMaintenance()

	count, err := m.store.CommandCount(ctx)
	if err != nil {
		t.Fatalf("CommandCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want rows kept when retention disabled", count)
	}
}

package billing

import (
	"context"
	"testing"

	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/HerbHall/wispgate/pkg/plugin/plugintest"
	"github.com/HerbHall/wispgate/pkg/roles"
	"go.uber.org/zap"
)

func TestContract(t *testing.T) {
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() })
}

// mockPluginResolver implements plugin.PluginResolver for testing.
type mockPluginResolver struct {
	byName map[string]plugin.Plugin
	byRole map[string][]plugin.Plugin
}

func (r *mockPluginResolver) Resolve(name string) (plugin.Plugin, bool) {
	p, ok := r.byName[name]
	return p, ok
}

func (r *mockPluginResolver) ResolveByRole(role string) []plugin.Plugin {
	return r.byRole[role]
}

// mockDirectoryPlugin implements plugin.Plugin and RouterLookup.
type mockDirectoryPlugin struct {
	plugin.Plugin
	routers map[string]*models.Router
}

func (p *mockDirectoryPlugin) RouterByID(_ context.Context, id string) (*models.Router, error) {
	r, ok := p.routers[id]
	if !ok {
		return nil, roles.ErrRouterNotFound
	}
	return r, nil
}

// mockNonLookupPlugin implements plugin.Plugin but NOT RouterLookup.
type mockNonLookupPlugin struct {
	plugin.Plugin
}

func TestModuleInfo(t *testing.T) {
	m := New()
	info := m.Info()

	if info.Name != "billing" {
		t.Errorf("Name = %q, want billing", info.Name)
	}
	if len(info.Roles) != 1 || info.Roles[0] != roles.RoleBilling {
		t.Errorf("Roles = %v, want [%s]", info.Roles, roles.RoleBilling)
	}
}

func TestModule_StartResolvesLookup(t *testing.T) {
	dir := &mockDirectoryPlugin{
		routers: map[string]*models.Router{"r-1": {ID: "r-1", Host: "10.0.0.1"}},
	}
	m := &Module{
		logger: zap.NewNop(),
		plugins: &mockPluginResolver{
			byRole: map[string][]plugin.Plugin{roles.RoleRouterDirectory: {dir}},
		},
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop(context.Background())

	if m.routers == nil {
		t.Fatal("Start() did not resolve the router lookup")
	}
	router, err := m.routers.RouterByID(context.Background(), "r-1")
	if err != nil {
		t.Fatalf("RouterByID() error = %v", err)
	}
	if router.Host != "10.0.0.1" {
		t.Errorf("Host = %q", router.Host)
	}
}

func TestModule_StartWithoutDirectory(t *testing.T) {
	// Missing directory downgrades the module, it does not fail startup.
	m := &Module{
		logger:  zap.NewNop(),
		plugins: &mockPluginResolver{byRole: map[string][]plugin.Plugin{}},
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop(context.Background())

	health := m.Health(context.Background())
	if health.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", health.Status)
	}
}

func TestModule_StartSkipsNonLookupPlugins(t *testing.T) {
	m := &Module{
		logger: zap.NewNop(),
		plugins: &mockPluginResolver{
			byRole: map[string][]plugin.Plugin{roles.RoleRouterDirectory: {&mockNonLookupPlugin{}}},
		},
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop(context.Background())

	if m.routers != nil {
		t.Error("resolved a plugin that does not implement RouterLookup")
	}
}

func TestModule_Health(t *testing.T) {
	m, _, _ := newTestModule(t)

	health := m.Health(context.Background())
	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
	if health.Details["authorized_list"] != "authorized" {
		t.Errorf("Details = %v", health.Details)
	}
}

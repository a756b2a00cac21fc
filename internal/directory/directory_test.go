package directory

import (
	"context"
	"testing"

	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/HerbHall/wispgate/pkg/plugin/plugintest"
	"github.com/HerbHall/wispgate/pkg/roles"
	"go.uber.org/zap"
)

func TestContract(t *testing.T) {
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() })
}

func TestModuleInfo(t *testing.T) {
	m := New()
	info := m.Info()

	if info.Name != "directory" {
		t.Errorf("Name = %q, want directory", info.Name)
	}
	if len(info.Roles) != 1 || info.Roles[0] != roles.RoleRouterDirectory {
		t.Errorf("Roles = %v, want [%s]", info.Roles, roles.RoleRouterDirectory)
	}
}

func TestModule_HealthWithoutStore(t *testing.T) {
	m := &Module{logger: zap.NewNop()}

	health := m.Health(context.Background())
	if health.Status != "unhealthy" {
		t.Errorf("Status = %q, want unhealthy", health.Status)
	}
}

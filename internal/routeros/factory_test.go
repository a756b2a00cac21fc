package routeros

import (
	"context"
	"testing"

	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFactoryDial_RejectsInvalidRecordsBeforeIO(t *testing.T) {
	f := NewFactory(zap.NewNop())

	tests := []struct {
		name   string
		router models.Router
	}{
		{
			name:   "missing host",
			router: models.Router{ID: "r1", User: "api", Port: 8728, APIType: models.APITypeLegacy},
		},
		{
			name:   "missing user",
			router: models.Router{ID: "r1", Host: "10.0.0.1", Port: 8728, APIType: models.APITypeLegacy},
		},
		{
			name:   "unknown api type",
			router: models.Router{ID: "r1", Host: "10.0.0.1", User: "api", Port: 8728, APIType: "soap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Dial(context.Background(), &tt.router)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestFactory_CachesRESTClientPerRouter(t *testing.T) {
	f := NewFactory(zap.NewNop())
	r := &models.Router{
		ID:       "r1",
		Host:     "192.0.2.10",
		Port:     443,
		User:     "api",
		Password: "pw",
		APIType:  models.APITypeREST,
	}

	c1, err := f.Dial(context.Background(), r)
	require.NoError(t, err)
	c2, err := f.Dial(context.Background(), r)
	require.NoError(t, err)
	assert.Same(t, c1, c2)
}

func TestFactory_CredentialChangeInvalidatesCache(t *testing.T) {
	f := NewFactory(zap.NewNop())
	r := &models.Router{
		ID:       "r1",
		Host:     "192.0.2.10",
		Port:     443,
		User:     "api",
		Password: "pw",
		APIType:  models.APITypeREST,
	}

	c1, err := f.Dial(context.Background(), r)
	require.NoError(t, err)

	rotated := *r
	rotated.Password = "rotated"
	c2, err := f.Dial(context.Background(), &rotated)
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)

	// The rotated client is now the cached one.
	c3, err := f.Dial(context.Background(), &rotated)
	require.NoError(t, err)
	assert.Same(t, c2, c3)
}

func TestFactory_ForgetDropsCachedClient(t *testing.T) {
	f := NewFactory(zap.NewNop())
	r := &models.Router{
		ID:       "r1",
		Host:     "192.0.2.10",
		Port:     443,
		User:     "api",
		Password: "pw",
		APIType:  models.APITypeREST,
	}

	c1, err := f.Dial(context.Background(), r)
	require.NoError(t, err)

	f.Forget(r.ID)

	c2, err := f.Dial(context.Background(), r)
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
}

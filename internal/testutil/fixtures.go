package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/wispgate/pkg/models"
)

// NewRouter returns a Router with sensible defaults, suitable for test fixtures.
// Override individual fields after creation as needed.
func NewRouter(opts ...func(*models.Router)) models.Router {
	r := models.Router{
		ID:        uuid.New().String(),
		Name:      "test-router",
		Host:      "10.0.0.1",
		User:      "api-svc",
		Password:  "secret",
		Port:      models.DefaultLegacyPort,
		APIType:   models.APITypeLegacy,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithID sets the router ID, replacing the generated UUID.
func WithID(id string) func(*models.Router) {
	return func(r *models.Router) { r.ID = id }
}

// WithName sets the router name.
func WithName(name string) func(*models.Router) {
	return func(r *models.Router) { r.Name = name }
}

// WithHost sets the router management host.
func WithHost(host string) func(*models.Router) {
	return func(r *models.Router) { r.Host = host }
}

// WithCredentials sets the router API user and password.
func WithCredentials(user, password string) func(*models.Router) {
	return func(r *models.Router) {
		r.User = user
		r.Password = password
	}
}

// WithPort sets the router management port.
func WithPort(port int) func(*models.Router) {
	return func(r *models.Router) { r.Port = port }
}

// WithAPIType sets the management protocol variant.
func WithAPIType(t models.APIType) func(*models.Router) {
	return func(r *models.Router) { r.APIType = t }
}

// WithREST switches the fixture to the REST variant on its default port.
func WithREST() func(*models.Router) {
	return func(r *models.Router) {
		r.APIType = models.APITypeREST
		r.Port = models.DefaultRESTPort
	}
}

// WithNotes sets the router notes field.
func WithNotes(notes string) func(*models.Router) {
	return func(r *models.Router) { r.Notes = notes }
}

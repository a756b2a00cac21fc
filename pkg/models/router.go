package models

import "time"

// APIType selects which management protocol a router speaks.
type APIType string

const (
	// APITypeLegacy is the length-prefixed binary sentence API spoken on
	// the native management port (TLS on 8729, plaintext elsewhere).
	APITypeLegacy APIType = "legacy"

	// APITypeREST is the JSON API rooted at /rest on the device web server.
	APITypeREST APIType = "rest"
)

// Valid reports whether t names a known protocol variant.
func (t APIType) Valid() bool {
	return t == APITypeLegacy || t == APITypeREST
}

// Router is a managed device record in the directory. The gateway and
// billing modules read these records to reach the device; they never
// mutate them.
type Router struct {
	ID       string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name     string  `json:"name" example:"core-gw-01"`
	Host     string  `json:"host" example:"10.0.0.1"`
	User     string  `json:"user" example:"api-svc"`
	Password string  `json:"-"` // Sealed at rest; never serialized in API responses
	Port     int     `json:"port" example:"8729"`
	APIType  APIType `json:"api_type" example:"legacy"`
	Notes    string  `json:"notes,omitempty" example:"Tower B core"`

	CreatedAt time.Time `json:"created_at" example:"2026-01-10T08:00:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2026-01-15T10:30:00Z"`
}

// Default management ports per protocol variant, applied when a record
// is created without an explicit port.
const (
	DefaultLegacyPort = 8728
	DefaultRESTPort   = 443
)

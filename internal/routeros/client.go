// Package routeros speaks both management protocols of the routers WispGate
// fronts: the legacy length-prefixed binary sentence API and the REST/JSON
// API. Callers obtain a protocol-neutral Client from the Factory and never
// branch on the variant themselves.
package routeros

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/HerbHall/wispgate/pkg/models"
	"go.uber.org/zap"
)

// connectTimeout bounds session establishment and per-call transport time.
const connectTimeout = 15 * time.Second

// legacyTLSPort is the device's TLS-wrapped binary API port. Any other
// port dials plaintext.
const legacyTLSPort = 8729

// Request is a protocol-neutral device command.
type Request struct {
	// Path is the resource path without a leading slash, in the device's
	// own vocabulary: "ip/firewall/address-list/print", "system/scheduler".
	Path string

	// Method carries HTTP verb semantics. The legacy variant only
	// distinguishes reads (GET, HEAD) from writes.
	Method string

	// Body holds attribute key/value pairs for write commands.
	Body map[string]string

	// Query holds read filters, combined additively by the device.
	Query map[string]string
}

// Reply is a normalized device response.
type Reply struct {
	// Status is the upstream HTTP status for the REST variant; the legacy
	// variant reports 200 for any successful command.
	Status int

	// Entities holds the normalized result rows of a read, in device order.
	Entities []Entity

	// Attrs holds write-result attributes, such as the "ret" identifier
	// the legacy API returns for add commands.
	Attrs map[string]string

	// Single is set when the upstream returned one bare object rather
	// than a list, so callers can preserve the response shape.
	Single bool
}

// IsRead reports whether the request has read semantics.
func (r Request) IsRead() bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// Client executes commands against one router. Implementations exist for
// exactly two variants, selected at construction; business logic upstream
// is written once against this interface.
type Client interface {
	// Do executes a raw command shaped by the gateway passthrough.
	Do(ctx context.Context, req Request) (*Reply, error)

	// List reads all rows of a resource, filtered by query. An empty
	// result is a nil-safe empty slice, never an error.
	List(ctx context.Context, path string, query map[string]string) ([]Entity, error)

	// Add creates a row and returns it with its assigned identifier.
	Add(ctx context.Context, path string, attrs map[string]string) (Entity, error)

	// Set updates fields of the row with the given identifier.
	Set(ctx context.Context, path, id string, attrs map[string]string) error

	// Remove deletes the row with the given identifier.
	Remove(ctx context.Context, path, id string) error

	// Close releases the session. Legacy sessions hold a live connection
	// and must be closed on every exit path; REST clients are stateless
	// and Close is a no-op.
	Close() error
}

// Factory produces protocol clients from router records. Legacy clients are
// dialed fresh per call; REST clients are stateless and cached per router,
// invalidated when the record's endpoint or credentials change.
type Factory struct {
	mu     sync.Mutex
	cached map[string]*restEntry
	logger *zap.Logger
}

type restEntry struct {
	key    string
	client *restClient
}

// NewFactory creates a client factory.
func NewFactory(logger *zap.Logger) *Factory {
	return &Factory{
		cached: make(map[string]*restEntry),
		logger: logger,
	}
}

// Dial validates the record and returns a client for its protocol variant.
// Validation failures surface before any network I/O.
func (f *Factory) Dial(ctx context.Context, r *models.Router) (Client, error) {
	if r.Host == "" {
		return nil, fmt.Errorf("router %s has no host: %w", r.ID, ErrInvalidRecord)
	}
	if r.User == "" {
		return nil, fmt.Errorf("router %s has no user: %w", r.ID, ErrInvalidRecord)
	}

	switch r.APIType {
	case models.APITypeLegacy:
		return dialLegacy(ctx, r, f.logger)
	case models.APITypeREST:
		return f.restFor(r), nil
	default:
		return nil, fmt.Errorf("router %s has unknown api_type %q: %w", r.ID, r.APIType, ErrInvalidRecord)
	}
}

// restFor returns the cached REST client for the record, building a fresh
// one when the endpoint or credentials changed since it was cached.
func (f *Factory) restFor(r *models.Router) *restClient {
	key := fmt.Sprintf("%s|%d|%s|%s", r.Host, r.Port, r.User, r.Password)

	f.mu.Lock()
	defer f.mu.Unlock()

	if e, ok := f.cached[r.ID]; ok && e.key == key {
		return e.client
	}

	c := newRESTClient(r, f.logger)
	f.cached[r.ID] = &restEntry{key: key, client: c}
	return c
}

// Forget drops the cached client for a router, if any. Called when the
// directory deletes a record.
func (f *Factory) Forget(routerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cached, routerID)
}

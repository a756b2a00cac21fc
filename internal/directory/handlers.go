package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/routers", Handler: m.handleListRouters},
		{Method: "POST", Path: "/routers", Handler: m.handleCreateRouter},
		{Method: "GET", Path: "/routers/{id}", Handler: m.handleGetRouter},
		{Method: "PUT", Path: "/routers/{id}", Handler: m.handleUpdateRouter},
		{Method: "DELETE", Path: "/routers/{id}", Handler: m.handleDeleteRouter},
		{Method: "GET", Path: "/routers/{id}/health", Handler: m.handleRouterHealth},
	}
}

// routerRequest is the JSON body for creating and updating routers.
type routerRequest struct {
	Name     string `json:"name,omitempty"`
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	APIType  string `json:"api_type,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// handleListRouters returns all directory records without credentials.
//
//	@Summary		List routers
//	@Description	Returns all registered routers. Credentials are never included.
//	@Tags			directory
//	@Produce		json
//	@Success		200	{array}	models.Router
//	@Router			/directory/routers [get]
func (m *Module) handleListRouters(w http.ResponseWriter, r *http.Request) {
	if m.store == nil {
		directoryWriteError(w, http.StatusServiceUnavailable, "directory store not available")
		return
	}

	recs, err := m.store.ListRouters(r.Context())
	if err != nil {
		m.logger.Warn("failed to list routers", zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to list routers")
		return
	}

	routers := make([]any, 0, len(recs))
	for i := range recs {
		routers = append(routers, recs[i].Public())
	}
	directoryWriteJSON(w, http.StatusOK, routers)
}

// handleGetRouter returns a single directory record by ID.
//
//	@Summary		Get router
//	@Description	Returns a single router by ID. Credentials are never included.
//	@Tags			directory
//	@Produce		json
//	@Param			id	path		string	true	"Router ID"
//	@Success		200	{object}	models.Router
//	@Failure		404	{object}	models.APIProblem
//	@Router			/directory/routers/{id} [get]
func (m *Module) handleGetRouter(w http.ResponseWriter, r *http.Request) {
	if m.store == nil {
		directoryWriteError(w, http.StatusServiceUnavailable, "directory store not available")
		return
	}

	id := r.PathValue("id")
	rec, err := m.store.GetRouter(r.Context(), id)
	if err != nil {
		m.logger.Warn("failed to get router", zap.String("id", id), zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to get router")
		return
	}
	if rec == nil {
		directoryWriteError(w, http.StatusNotFound, "router not found")
		return
	}
	directoryWriteJSON(w, http.StatusOK, rec.Public())
}

// handleCreateRouter registers a router and seals its credential.
//
//	@Summary		Register router
//	@Description	Registers a router. The password is sealed at rest and never returned.
//	@Tags			directory
//	@Accept			json
//	@Produce		json
//	@Param			body	body		routerRequest	true	"Router record"
//	@Success		201		{object}	models.Router
//	@Failure		400		{object}	models.APIProblem
//	@Router			/directory/routers [post]
func (m *Module) handleCreateRouter(w http.ResponseWriter, r *http.Request) {
	if m.store == nil {
		directoryWriteError(w, http.StatusServiceUnavailable, "directory store not available")
		return
	}

	var req routerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		directoryWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		directoryWriteError(w, http.StatusBadRequest, "password is required")
		return
	}
	rec, err := recordFromRequest(&req)
	if err != nil {
		directoryWriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sealed, err := m.sealer.Seal(req.Password)
	if err != nil {
		m.logger.Error("failed to seal credential", zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to seal credential")
		return
	}

	now := time.Now().UTC()
	rec.ID = uuid.New().String()
	rec.SealedPassword = sealed
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := m.store.InsertRouter(r.Context(), rec); err != nil {
		m.logger.Warn("failed to insert router", zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to store router")
		return
	}

	m.publishRouterEvent(r.Context(), TopicRouterCreated, rec)
	m.logger.Info("router registered",
		zap.String("id", rec.ID),
		zap.String("host", rec.Host),
		zap.String("api_type", rec.APIType),
	)
	directoryWriteJSON(w, http.StatusCreated, rec.Public())
}

// handleUpdateRouter updates a directory record. An empty password keeps
// the sealed credential unchanged.
//
//	@Summary		Update router
//	@Description	Updates a router record. Omit the password to keep the stored credential.
//	@Tags			directory
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Router ID"
//	@Param			body	body		routerRequest	true	"Router record"
//	@Success		200		{object}	models.Router
//	@Failure		400		{object}	models.APIProblem
//	@Failure		404		{object}	models.APIProblem
//	@Router			/directory/routers/{id} [put]
func (m *Module) handleUpdateRouter(w http.ResponseWriter, r *http.Request) {
	if m.store == nil {
		directoryWriteError(w, http.StatusServiceUnavailable, "directory store not available")
		return
	}

	id := r.PathValue("id")
	existing, err := m.store.GetRouter(r.Context(), id)
	if err != nil {
		m.logger.Warn("failed to get router", zap.String("id", id), zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to get router")
		return
	}
	if existing == nil {
		directoryWriteError(w, http.StatusNotFound, "router not found")
		return
	}

	var req routerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		directoryWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := recordFromRequest(&req)
	if err != nil {
		directoryWriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()

	if req.Password == "" {
		rec.SealedPassword = existing.SealedPassword
	} else {
		sealed, err := m.sealer.Seal(req.Password)
		if err != nil {
			m.logger.Error("failed to seal credential", zap.Error(err))
			directoryWriteError(w, http.StatusInternalServerError, "failed to seal credential")
			return
		}
		rec.SealedPassword = sealed
	}

	if err := m.store.UpdateRouter(r.Context(), rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			directoryWriteError(w, http.StatusNotFound, "router not found")
			return
		}
		m.logger.Warn("failed to update router", zap.String("id", id), zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to update router")
		return
	}

	m.publishRouterEvent(r.Context(), TopicRouterUpdated, rec)
	directoryWriteJSON(w, http.StatusOK, rec.Public())
}

// handleDeleteRouter removes a directory record.
//
//	@Summary		Delete router
//	@Description	Removes a router record and its sealed credential.
//	@Tags			directory
//	@Param			id	path	string	true	"Router ID"
//	@Success		204
//	@Failure		404	{object}	models.APIProblem
//	@Router			/directory/routers/{id} [delete]
func (m *Module) handleDeleteRouter(w http.ResponseWriter, r *http.Request) {
	if m.store == nil {
		directoryWriteError(w, http.StatusServiceUnavailable, "directory store not available")
		return
	}

	id := r.PathValue("id")
	rec, err := m.store.GetRouter(r.Context(), id)
	if err != nil {
		m.logger.Warn("failed to get router", zap.String("id", id), zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to get router")
		return
	}
	if rec == nil {
		directoryWriteError(w, http.StatusNotFound, "router not found")
		return
	}

	if err := m.store.DeleteRouter(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			directoryWriteError(w, http.StatusNotFound, "router not found")
			return
		}
		m.logger.Warn("failed to delete router", zap.String("id", id), zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to delete router")
		return
	}

	m.publishRouterEvent(r.Context(), TopicRouterDeleted, rec)
	m.logger.Info("router deleted", zap.String("id", id), zap.String("host", rec.Host))
	w.WriteHeader(http.StatusNoContent)
}

// handleRouterHealth checks reachability of a router's host and API port.
//
//	@Summary		Router health
//	@Description	Pings the router's host and dials its management port.
//	@Tags			directory
//	@Produce		json
//	@Param			id	path		string	true	"Router ID"
//	@Success		200	{object}	ProbeResult
//	@Failure		404	{object}	models.APIProblem
//	@Router			/directory/routers/{id}/health [get]
func (m *Module) handleRouterHealth(w http.ResponseWriter, r *http.Request) {
	if m.store == nil {
		directoryWriteError(w, http.StatusServiceUnavailable, "directory store not available")
		return
	}

	id := r.PathValue("id")
	rec, err := m.store.GetRouter(r.Context(), id)
	if err != nil {
		m.logger.Warn("failed to get router", zap.String("id", id), zap.Error(err))
		directoryWriteError(w, http.StatusInternalServerError, "failed to get router")
		return
	}
	if rec == nil {
		directoryWriteError(w, http.StatusNotFound, "router not found")
		return
	}

	router := rec.Public()
	result := m.prober.Probe(r.Context(), &router)
	directoryWriteJSON(w, http.StatusOK, result)
}

// recordFromRequest validates a request body and shapes it into a record.
// The caller fills identity, timestamps, and the sealed credential.
func recordFromRequest(req *routerRequest) (*RouterRecord, error) {
	if req.Host == "" {
		return nil, errors.New("host is required")
	}
	if req.User == "" {
		return nil, errors.New("user is required")
	}

	apiType := models.APIType(req.APIType)
	if apiType == "" {
		apiType = models.APITypeLegacy
	}
	if !apiType.Valid() {
		return nil, errors.New("api_type must be \"legacy\" or \"rest\"")
	}

	port := req.Port
	if port < 0 || port > 65535 {
		return nil, errors.New("port must be between 1 and 65535")
	}
	if port == 0 {
		if apiType == models.APITypeREST {
			port = models.DefaultRESTPort
		} else {
			port = models.DefaultLegacyPort
		}
	}

	name := req.Name
	if name == "" {
		name = req.Host
	}

	return &RouterRecord{
		Name:     name,
		Host:     req.Host,
		Port:     port,
		APIType:  string(apiType),
		Username: req.User,
		Notes:    req.Notes,
	}, nil
}

// publishRouterEvent emits a lifecycle event for a record.
func (m *Module) publishRouterEvent(ctx context.Context, topic string, rec *RouterRecord) {
	if m.bus == nil {
		return
	}
	_ = m.bus.Publish(ctx, plugin.Event{
		Topic:     topic,
		Source:    "directory",
		Timestamp: time.Now(),
		Payload: map[string]string{
			"router_id": rec.ID,
			"host":      rec.Host,
			"api_type":  rec.APIType,
		},
	})
}

// directoryWriteJSON writes a JSON response with the given status code.
func directoryWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// directoryWriteError writes a problem+json error response.
func directoryWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://wispgate.io/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

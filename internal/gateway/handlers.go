package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HerbHall/wispgate/internal/routeros"
	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/HerbHall/wispgate/pkg/roles"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider. The command route is
// method-less so every HTTP verb reaches the same handler.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "", Path: "/routers/{id}/{path...}", Handler: m.handleCommand},
		{Method: "GET", Path: "/audit", Handler: m.handleListAudit},
	}
}

// handleCommand forwards one request to a router's native API. The path
// after the router ID is the device menu path; query parameters filter
// reads, the JSON body carries write attributes.
func (m *Module) handleCommand(w http.ResponseWriter, r *http.Request) {
	if m.routers == nil {
		gatewayWriteError(w, http.StatusServiceUnavailable, "router directory not available")
		return
	}
	if m.factory == nil {
		gatewayWriteError(w, http.StatusServiceUnavailable, "gateway not ready")
		return
	}

	routerID := r.PathValue("id")
	router, err := m.routers.RouterByID(r.Context(), routerID)
	if err != nil {
		if errors.Is(err, roles.ErrRouterNotFound) {
			gatewayWriteError(w, http.StatusNotFound, fmt.Sprintf("router %s not found", routerID))
			return
		}
		m.logger.Warn("router lookup failed", zap.String("router_id", routerID), zap.Error(err))
		gatewayWriteError(w, http.StatusInternalServerError, "failed to resolve router")
		return
	}

	req, err := commandRequest(r)
	if err != nil {
		gatewayWriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	started := time.Now()
	reply, err := m.execute(r.Context(), router, req)
	elapsed := time.Since(started)

	if err != nil {
		status, detail := commandErrorStatus(err)
		m.finishCommand(r.Context(), router, req, status, "error", detail, elapsed)
		gatewayWriteError(w, status, detail)
		return
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	m.finishCommand(r.Context(), router, req, status, "success", "", elapsed)

	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	gatewayWriteJSON(w, status, replyPayload(reply))
}

// execute dials the router and runs one command. Sessions for the
// sentence dialect are opened per call and closed on return.
func (m *Module) execute(ctx context.Context, router *models.Router, req routeros.Request) (*routeros.Reply, error) {
	client, err := m.factory.Dial(ctx, router)
	if err != nil {
		return nil, err
	}
	defer client.Close()
	return client.Do(ctx, req)
}

// commandRequest translates the inbound HTTP request into a protocol
// request. Reads keep their query filters, writes their JSON body.
func commandRequest(r *http.Request) (routeros.Request, error) {
	req := routeros.Request{
		Path:   strings.Trim(r.PathValue("path"), "/"),
		Method: r.Method,
	}
	if req.Path == "" {
		return req, errors.New("command path is required")
	}

	if query := r.URL.Query(); len(query) > 0 {
		req.Query = make(map[string]string, len(query))
		for key, values := range query {
			if len(values) > 0 {
				req.Query[key] = values[0]
			}
		}
	}

	if req.IsRead() || r.Body == nil {
		return req, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return req, fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return req, nil
	}

	var row map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&row); err != nil {
		return req, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	req.Body = routeros.StringifyAttrs(row)
	return req, nil
}

// commandErrorStatus maps an execution error onto an HTTP status and
// problem detail. Device-reported statuses pass through, transport
// failures become 502 and timeouts 504.
func commandErrorStatus(err error) (int, string) {
	var perr *routeros.ProtocolError
	if errors.As(err, &perr) {
		if perr.Status != 0 {
			return perr.Status, perr.Message
		}
		return http.StatusBadGateway, perr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "command timed out"
	}
	if errors.Is(err, routeros.ErrInvalidRecord) {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusBadGateway, err.Error()
}

// replyPayload shapes the device reply for the HTTP response: a single
// entity becomes an object, row sets an array, bare attributes a map.
func replyPayload(reply *routeros.Reply) any {
	switch {
	case reply.Single && len(reply.Entities) > 0:
		return reply.Entities[0]
	case reply.Entities != nil:
		return reply.Entities
	case len(reply.Attrs) > 0:
		return reply.Attrs
	default:
		return map[string]string{}
	}
}

// finishCommand records the audit row, metrics and bus event for one
// executed command, success or failure.
func (m *Module) finishCommand(ctx context.Context, router *models.Router, req routeros.Request, status int, outcome, detail string, elapsed time.Duration) {
	protocol := string(router.APIType)

	if m.store != nil {
		// Audit writes ride the module context so a canceled request
		// still leaves a row.
		ictx, cancel := context.WithTimeout(m.moduleContext(), 5*time.Second)
		defer cancel()

		rec := &CommandRecord{
			RouterID:   router.ID,
			Protocol:   protocol,
			Method:     req.Method,
			Path:       req.Path,
			Status:     status,
			Outcome:    outcome,
			Error:      detail,
			DurationMS: elapsed.Milliseconds(),
			CreatedAt:  time.Now().UTC(),
		}
		if err := m.store.InsertCommand(ictx, rec); err != nil {
			m.logger.Warn("failed to record command audit row", zap.Error(err))
		}
	}

	commandsTotal.WithLabelValues(protocol, req.Method, outcome).Inc()
	commandDuration.WithLabelValues(protocol).Observe(elapsed.Seconds())

	m.publishEvent(ctx, TopicCommandExecuted, map[string]string{
		"router_id": router.ID,
		"protocol":  protocol,
		"method":    req.Method,
		"path":      req.Path,
		"outcome":   outcome,
	})
}

func (m *Module) moduleContext() context.Context {
	if m.ctx != nil {
		return m.ctx
	}
	return context.Background()
}

func (m *Module) publishEvent(ctx context.Context, topic string, payload map[string]string) {
	if m.bus == nil {
		return
	}
	m.bus.PublishAsync(ctx, plugin.Event{
		Topic:     topic,
		Source:    "gateway",
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// handleListAudit returns audit rows with optional router filtering.
//
//	@Summary		List executed commands
//	@Description	Returns the audit trail of proxied commands, newest first.
//	@Tags			gateway
//	@Produce		json
//	@Param			router_id	query	string	false	"Filter by router ID"
//	@Param			limit		query	int		false	"Maximum rows to return (default 100)"
//	@Success		200	{array}	CommandRecord
//	@Router			/gateway/audit [get]
func (m *Module) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if m.store == nil {
		gatewayWriteError(w, http.StatusServiceUnavailable, "gateway store not available")
		return
	}

	routerID := r.URL.Query().Get("router_id")
	limit := gatewayParseLimit(r, 100)

	records, err := m.store.ListCommands(r.Context(), routerID, limit)
	if err != nil {
		m.logger.Warn("failed to list gateway audit rows", zap.Error(err))
		gatewayWriteError(w, http.StatusInternalServerError, "failed to list audit rows")
		return
	}
	if records == nil {
		records = []CommandRecord{}
	}
	gatewayWriteJSON(w, http.StatusOK, records)
}

// --- Helpers ---

// gatewayWriteJSON writes a JSON response with the given status code.
func gatewayWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// gatewayWriteError writes a problem+json error response.
func gatewayWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   fmt.Sprintf("https://wispgate.io/problems/%s", http.StatusText(status)),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

// gatewayParseLimit extracts a limit query parameter with a default value.
func gatewayParseLimit(r *http.Request, defaultLimit int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			return n
		}
	}
	return defaultLimit
}

package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/HerbHall/wispgate/internal/routeros"
	"github.com/HerbHall/wispgate/pkg/models"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"github.com/HerbHall/wispgate/pkg/roles"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/routers/{id}/lease", Handler: m.handleApplyLease},
		{Method: "GET", Path: "/routers/{id}/failover", Handler: m.handleFailoverStatus},
		{Method: "PUT", Path: "/routers/{id}/failover", Handler: m.handleSetFailover},
	}
}

// leaseRequest is the JSON body for applying a lease.
type leaseRequest struct {
	Subscriber    string     `json:"subscriber,omitempty"`
	Address       string     `json:"address"`
	MAC           string     `json:"mac"`
	CustomerInfo  string     `json:"customer_info,omitempty"`
	ContactNumber string     `json:"contact_number,omitempty"`
	Email         string     `json:"email,omitempty"`
	PlanName      string     `json:"plan_name,omitempty"`
	PlanType      string     `json:"plan_type,omitempty"`
	CycleDays     int        `json:"cycle_days,omitempty"`
	GraceDays     int        `json:"grace_days,omitempty"`
	GraceTime     string     `json:"grace_time,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	SpeedLimit    int        `json:"speed_limit_mbps,omitempty"`
}

// failoverRequest is the JSON body for toggling failover. Enabled is a
// pointer so an absent field is distinguishable from false.
type failoverRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleApplyLease enforces a subscriber lease on a router.
//
//	@Summary		Apply lease
//	@Description	Schedules the deactivation job at the computed expiry, upserts the bandwidth queue and anchors the lease payload on the authorized address-list entry.
//	@Tags			billing
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Router ID"
//	@Param			body	body		leaseRequest	true	"Lease"
//	@Success		200		{object}	LeaseResult
//	@Failure		400		{object}	models.APIProblem
//	@Failure		404		{object}	models.APIProblem
//	@Router			/billing/routers/{id}/lease [post]
func (m *Module) handleApplyLease(w http.ResponseWriter, r *http.Request) {
	router := m.resolveRouter(w, r)
	if router == nil {
		return
	}

	var req leaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		billingWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		billingWriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := m.factory.Dial(r.Context(), router)
	if err != nil {
		status, detail := billingErrorStatus(err)
		billingWriteError(w, status, detail)
		return
	}
	defer client.Close()

	res, err := m.engine.ApplyLease(r.Context(), client, req.lease())
	if err != nil {
		m.logger.Warn("lease apply failed",
			zap.String("router_id", router.ID),
			zap.String("address", req.Address),
			zap.Error(err))
		status, detail := billingErrorStatus(err)
		billingWriteError(w, status, detail)
		return
	}

	m.publishEvent(r.Context(), TopicLeaseApplied, map[string]string{
		"router_id": router.ID,
		"address":   req.Address,
		"job_name":  res.JobName,
		"expiry":    res.Expiry.Format(time.RFC3339),
	})
	billingWriteJSON(w, http.StatusOK, res)
}

// handleFailoverStatus reports WAN failover standing on a router.
//
//	@Summary		Failover status
//	@Description	Counts routes carrying a gateway probe and reports whether any is active.
//	@Tags			billing
//	@Produce		json
//	@Param			id	path		string	true	"Router ID"
//	@Success		200	{object}	FailoverState
//	@Failure		404	{object}	models.APIProblem
//	@Router			/billing/routers/{id}/failover [get]
func (m *Module) handleFailoverStatus(w http.ResponseWriter, r *http.Request) {
	router := m.resolveRouter(w, r)
	if router == nil {
		return
	}

	client, err := m.factory.Dial(r.Context(), router)
	if err != nil {
		status, detail := billingErrorStatus(err)
		billingWriteError(w, status, detail)
		return
	}
	defer client.Close()

	state, err := m.engine.FailoverStatus(r.Context(), client)
	if err != nil {
		status, detail := billingErrorStatus(err)
		billingWriteError(w, status, detail)
		return
	}
	billingWriteJSON(w, http.StatusOK, state)
}

// handleSetFailover toggles every monitored route on a router.
//
//	@Summary		Toggle failover
//	@Description	Enables or disables all gateway-probed routes at once.
//	@Tags			billing
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Router ID"
//	@Param			body	body		failoverRequest	true	"Desired state"
//	@Success		200		{object}	FailoverState
//	@Failure		400		{object}	models.APIProblem
//	@Failure		404		{object}	models.APIProblem
//	@Router			/billing/routers/{id}/failover [put]
func (m *Module) handleSetFailover(w http.ResponseWriter, r *http.Request) {
	router := m.resolveRouter(w, r)
	if router == nil {
		return
	}

	var req failoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		billingWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Enabled == nil {
		billingWriteError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	client, err := m.factory.Dial(r.Context(), router)
	if err != nil {
		status, detail := billingErrorStatus(err)
		billingWriteError(w, status, detail)
		return
	}
	defer client.Close()

	state, err := m.engine.SetFailover(r.Context(), client, *req.Enabled)
	if err != nil {
		m.logger.Warn("failover toggle failed",
			zap.String("router_id", router.ID),
			zap.Bool("enabled", *req.Enabled),
			zap.Error(err))
		status, detail := billingErrorStatus(err)
		billingWriteError(w, status, detail)
		return
	}

	m.publishEvent(r.Context(), TopicFailoverToggled, map[string]string{
		"router_id": router.ID,
		"enabled":   fmt.Sprintf("%t", *req.Enabled),
	})
	billingWriteJSON(w, http.StatusOK, state)
}

// resolveRouter looks up the router named in the request path, writing
// the error response itself when resolution fails.
func (m *Module) resolveRouter(w http.ResponseWriter, r *http.Request) *models.Router {
	if m.routers == nil {
		billingWriteError(w, http.StatusServiceUnavailable, "router directory not available")
		return nil
	}
	if m.factory == nil || m.engine == nil {
		billingWriteError(w, http.StatusServiceUnavailable, "billing not ready")
		return nil
	}

	routerID := r.PathValue("id")
	router, err := m.routers.RouterByID(r.Context(), routerID)
	if err != nil {
		if errors.Is(err, roles.ErrRouterNotFound) {
			billingWriteError(w, http.StatusNotFound, fmt.Sprintf("router %s not found", routerID))
			return nil
		}
		m.logger.Warn("router lookup failed", zap.String("router_id", routerID), zap.Error(err))
		billingWriteError(w, http.StatusInternalServerError, "failed to resolve router")
		return nil
	}
	return router
}

func (req leaseRequest) validate() error {
	if req.Address == "" {
		return errors.New("address is required")
	}
	if _, err := netip.ParseAddr(req.Address); err != nil {
		return fmt.Errorf("invalid address: %v", err)
	}
	if req.MAC == "" {
		return errors.New("mac is required")
	}
	if _, err := net.ParseMAC(req.MAC); err != nil {
		return fmt.Errorf("invalid mac: %v", err)
	}
	if req.SpeedLimit < 0 {
		return errors.New("speed_limit_mbps must not be negative")
	}
	if req.CycleDays < 0 || req.GraceDays < 0 {
		return errors.New("cycle_days and grace_days must not be negative")
	}
	return nil
}

func (req leaseRequest) lease() Lease {
	return Lease{
		Subscriber:     req.Subscriber,
		Address:        req.Address,
		MAC:            req.MAC,
		CustomerInfo:   req.CustomerInfo,
		ContactNumber:  req.ContactNumber,
		Email:          req.Email,
		PlanName:       req.PlanName,
		PlanType:       req.PlanType,
		CycleDays:      req.CycleDays,
		GraceDays:      req.GraceDays,
		GraceTime:      req.GraceTime,
		ExpiresAt:      req.ExpiresAt,
		SpeedLimitMbps: req.SpeedLimit,
	}
}

// billingErrorStatus maps a device operation error onto an HTTP status
// and problem detail. Device-reported statuses pass through, transport
// failures become 502 and timeouts 504.
func billingErrorStatus(err error) (int, string) {
	var perr *routeros.ProtocolError
	if errors.As(err, &perr) {
		if perr.Status != 0 {
			return perr.Status, perr.Message
		}
		return http.StatusBadGateway, perr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "device operation timed out"
	}
	if errors.Is(err, routeros.ErrInvalidRecord) {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusBadGateway, err.Error()
}

func (m *Module) publishEvent(ctx context.Context, topic string, payload map[string]string) {
	if m.bus == nil {
		return
	}
	m.bus.PublishAsync(ctx, plugin.Event{
		Topic:     topic,
		Source:    "billing",
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// billingWriteJSON writes a JSON response with the given status code.
func billingWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// billingWriteError writes a problem+json error response.
func billingWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://wispgate.io/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

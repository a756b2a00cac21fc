package billing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/wispgate/internal/routeros"
)

// Device resource paths the engine writes to.
const (
	pathScheduler   = "system/scheduler"
	pathSimpleQueue = "queue/simple"
	pathAddressList = "ip/firewall/address-list"
	pathRoute       = "ip/route"
)

// Lease describes one subscriber's billing state to enforce on a router.
type Lease struct {
	// Subscriber is the queue identity. Falls back to Address when empty.
	Subscriber string

	// Address is the subscriber's IP address, required.
	Address string

	// MAC is the subscriber's hardware address, required.
	MAC string

	CustomerInfo  string
	ContactNumber string
	Email         string
	PlanName      string
	PlanType      string

	// CycleDays is the plan renewal cycle. See ComputeExpiry for how it
	// combines with the grace and manual fields.
	CycleDays int
	GraceDays int
	GraceTime string

	// ExpiresAt, when set, overrides every computed expiry.
	ExpiresAt *time.Time

	// SpeedLimitMbps caps the subscriber's queue. Zero skips the queue
	// upsert entirely.
	SpeedLimitMbps int
}

// LeaseResult reports what ApplyLease wrote to the device.
type LeaseResult struct {
	Expiry        time.Time `json:"expiry"`
	JobName       string    `json:"job_name"`
	QueueUpserted bool      `json:"queue_upserted"`
	CommentSet    bool      `json:"comment_set"`
}

// FailoverState reports WAN failover standing on a router. A route is
// monitored when it carries a gateway probe; failover counts as enabled
// while at least one monitored route is not disabled.
type FailoverState struct {
	Enabled         bool `json:"enabled"`
	MonitoredRoutes int  `json:"monitored_routes"`
	ActiveRoutes    int  `json:"active_routes"`
}

// Engine enforces billing state on routers through whichever protocol
// client the factory dialed. Every mutation is find-then-replace or
// field-targeted, so reapplying a lease converges instead of stacking
// duplicate rows. Applies for the same address serialize on a per-address
// lock; the find/replace pair is still not transactional, so a crash
// between the two leaves the job absent until the next apply.
type Engine struct {
	cfg    BillingConfig
	logger *zap.Logger
	locks  *keyedMutex
}

// NewEngine creates a billing engine.
func NewEngine(cfg BillingConfig, logger *zap.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger, locks: newKeyedMutex()}
}

// ApplyLease enforces a lease: it schedules the deactivation job at the
// computed expiry, caps the subscriber's queue when a speed limit is
// set, and anchors the lease payload on the authorized address-list
// entry. A missing authorized entry downgrades the comment write to a
// logged no-op; provisioning owns entry creation. Concurrent applies
// for the same address run one at a time.
func (e *Engine) ApplyLease(ctx context.Context, client routeros.Client, lease Lease) (*LeaseResult, error) {
	release := e.locks.lock(lease.Address)
	defer release()

	expiry := ComputeExpiry(time.Now(), ExpiryInput{
		Manual:    lease.ExpiresAt,
		GraceDays: lease.GraceDays,
		GraceTime: lease.GraceTime,
		CycleDays: lease.CycleDays,
	})
	jobName := SchedulerJobName(lease.Address)

	script, err := DeactivationScript(lease.Address, lease.MAC,
		e.cfg.AuthorizedList, e.cfg.PendingList, jobName, e.cfg.PendingTimeout)
	if err != nil {
		return nil, err
	}

	if err := e.upsertSchedulerJob(ctx, client, jobName, expiry, script); err != nil {
		return nil, fmt.Errorf("scheduler upsert: %w", err)
	}

	res := &LeaseResult{Expiry: expiry, JobName: jobName}

	if lease.SpeedLimitMbps > 0 {
		if err := e.upsertQueue(ctx, client, lease); err != nil {
			return nil, fmt.Errorf("queue upsert: %w", err)
		}
		res.QueueUpserted = true
	}

	comment, err := NewLeaseComment(lease, expiry).Encode()
	if err != nil {
		return nil, fmt.Errorf("encode lease comment: %w", err)
	}
	set, err := e.setListComment(ctx, client, lease.Address, comment)
	if err != nil {
		return nil, fmt.Errorf("address-list comment: %w", err)
	}
	res.CommentSet = set
	if !set {
		e.logger.Warn("authorized list entry missing, lease comment not set",
			zap.String("address", lease.Address),
			zap.String("list", e.cfg.AuthorizedList))
	}
	return res, nil
}

// upsertSchedulerJob replaces any existing job of the same name. Job
// definitions are not safely patchable in place, so the old row goes
// before the new one lands.
func (e *Engine) upsertSchedulerJob(ctx context.Context, client routeros.Client, name string, expiry time.Time, script string) error {
	existing, err := client.List(ctx, pathScheduler, map[string]string{"name": name})
	if err != nil {
		return err
	}
	for _, job := range existing {
		id := job.ID()
		if id == "" {
			continue
		}
		if err := client.Remove(ctx, pathScheduler, id); err != nil {
			return err
		}
	}
	_, err = client.Add(ctx, pathScheduler, map[string]string{
		"name":       name,
		"start-date": StartDate(expiry),
		"start-time": StartTime(expiry),
		"interval":   "0",
		"on-event":   script,
	})
	return err
}

// upsertQueue converges the subscriber's simple queue on the configured
// speed limit. An existing queue only has its max-limit rewritten; its
// target and any operator tuning stay untouched.
func (e *Engine) upsertQueue(ctx context.Context, client routeros.Client, lease Lease) error {
	name := lease.Subscriber
	if name == "" {
		name = lease.Address
	}
	limit := fmt.Sprintf("%dM/%dM", lease.SpeedLimitMbps, lease.SpeedLimitMbps)

	existing, err := client.List(ctx, pathSimpleQueue, map[string]string{"name": name})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		id := existing[0].ID()
		if id == "" {
			return fmt.Errorf("queue %q has no identifier", name)
		}
		return client.Set(ctx, pathSimpleQueue, id, map[string]string{"max-limit": limit})
	}
	_, err = client.Add(ctx, pathSimpleQueue, map[string]string{
		"name":      name,
		"target":    lease.Address,
		"max-limit": limit,
	})
	return err
}

// setListComment writes the lease payload onto the subscriber's
// authorized entry. Returns false without error when no entry exists.
func (e *Engine) setListComment(ctx context.Context, client routeros.Client, address, comment string) (bool, error) {
	entries, err := client.List(ctx, pathAddressList, map[string]string{
		"list":    e.cfg.AuthorizedList,
		"address": address,
	})
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}
	id := entries[0].ID()
	if id == "" {
		return false, fmt.Errorf("authorized entry for %s has no identifier", address)
	}
	if err := client.Set(ctx, pathAddressList, id, map[string]string{"comment": comment}); err != nil {
		return false, err
	}
	return true, nil
}

// FailoverStatus reads the router's routing table and reports failover
// standing without mutating anything.
func (e *Engine) FailoverStatus(ctx context.Context, client routeros.Client) (*FailoverState, error) {
	routes, err := client.List(ctx, pathRoute, nil)
	if err != nil {
		return nil, err
	}
	state := &FailoverState{}
	for _, route := range routes {
		if route["check-gateway"] == "" {
			continue
		}
		state.MonitoredRoutes++
		if route["disabled"] != "true" {
			state.ActiveRoutes++
		}
	}
	state.Enabled = state.ActiveRoutes > 0
	return state, nil
}

// SetFailover writes the complement of enabled onto every monitored
// route's disabled flag. All monitored routes converge on the same
// state regardless of what they held before.
func (e *Engine) SetFailover(ctx context.Context, client routeros.Client, enabled bool) (*FailoverState, error) {
	routes, err := client.List(ctx, pathRoute, nil)
	if err != nil {
		return nil, err
	}
	disabled := strconv.FormatBool(!enabled)
	state := &FailoverState{}
	for _, route := range routes {
		if route["check-gateway"] == "" {
			continue
		}
		id := route.ID()
		if id == "" {
			return nil, fmt.Errorf("monitored route has no identifier")
		}
		if err := client.Set(ctx, pathRoute, id, map[string]string{"disabled": disabled}); err != nil {
			return nil, fmt.Errorf("set route %s: %w", id, err)
		}
		state.MonitoredRoutes++
	}
	if enabled {
		state.ActiveRoutes = state.MonitoredRoutes
	}
	state.Enabled = enabled && state.MonitoredRoutes > 0
	return state, nil
}

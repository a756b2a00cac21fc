package billing

// Event topics published by the Billing module.
const (
	// TopicLeaseApplied fires after a lease is enforced on a router.
	// Payload: map[string]string with router_id, address, job_name and
	// expiry (RFC 3339).
	TopicLeaseApplied = "billing.lease.applied"

	// TopicFailoverToggled fires after monitored routes are toggled.
	// Payload: map[string]string with router_id and enabled.
	TopicFailoverToggled = "billing.failover.toggled"
)

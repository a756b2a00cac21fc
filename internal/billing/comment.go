package billing

import (
	"encoding/json"
	"time"
)

// LeaseComment is the lease anchor serialized into the comment of the
// subscriber's authorized address-list entry. The device carries it as
// an opaque string; operators and external tooling read it back as JSON.
type LeaseComment struct {
	CustomerInfo  string `json:"customer_info"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
	PlanName      string `json:"plan_name"`
	DueDate       string `json:"due_date"`
	DueDateTime   string `json:"due_date_time"`
	PlanType      string `json:"plan_type"`
}

// NewLeaseComment builds the comment payload for a lease and its
// computed expiry. DueDate is the date alone, DueDateTime the full
// timestamp, both in the expiry's own location.
func NewLeaseComment(lease Lease, expiry time.Time) LeaseComment {
	return LeaseComment{
		CustomerInfo:  lease.CustomerInfo,
		ContactNumber: lease.ContactNumber,
		Email:         lease.Email,
		PlanName:      lease.PlanName,
		DueDate:       expiry.Format("2006-01-02"),
		DueDateTime:   expiry.Format("2006-01-02 15:04:05"),
		PlanType:      lease.PlanType,
	}
}

// Encode renders the payload as the JSON string stored on the device.
func (c LeaseComment) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

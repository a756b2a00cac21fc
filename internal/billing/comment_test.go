package billing

import (
	"testing"
	"time"
)

func TestLeaseComment_Encode(t *testing.T) {
	lease := Lease{
		CustomerInfo:  "Jane Doe",
		ContactNumber: "+1-555-0100",
		Email:         "jane@example.net",
		PlanName:      "Home 10M",
		PlanType:      "prepaid",
	}
	expiry := time.Date(2025, time.March, 11, 14, 0, 0, 0, time.UTC)

	got, err := NewLeaseComment(lease, expiry).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{"customer_info":"Jane Doe","contact_number":"+1-555-0100","email":"jane@example.net","plan_name":"Home 10M","due_date":"2025-03-11","due_date_time":"2025-03-11 14:00:00","plan_type":"prepaid"}`
	if got != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

func TestLeaseComment_EmptyFieldsKeepKeys(t *testing.T) {
	// The payload shape is stable for external tooling even when a lease
	// carries no customer details.
	got, err := NewLeaseComment(Lease{}, time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{"customer_info":"","contact_number":"","email":"","plan_name":"","due_date":"2025-01-02","due_date_time":"2025-01-02 03:04:05","plan_type":""}`
	if got != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}

package billing

import (
	"testing"
	"time"
)

func TestComputeExpiry_ManualOverridesEverything(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	manual := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	got := ComputeExpiry(now, ExpiryInput{
		Manual:    &manual,
		GraceDays: 5,
		GraceTime: "14:00",
		CycleDays: 30,
	})
	if !got.Equal(manual) {
		t.Errorf("ComputeExpiry() = %v, want manual %v", got, manual)
	}
}

func TestComputeExpiry_GraceTimeAnchorsOnTargetDay(t *testing.T) {
	// The time-of-day lands on the shifted date, not on today.
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	got := ComputeExpiry(now, ExpiryInput{GraceDays: 1, GraceTime: "14:00"})

	want := time.Date(2025, time.March, 11, 14, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ComputeExpiry() = %v, want %v", got, want)
	}
}

func TestComputeExpiry_GraceWithoutTimeKeepsTimeOfDay(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 30, 45, 0, time.UTC)

	got := ComputeExpiry(now, ExpiryInput{GraceDays: 3})

	want := time.Date(2025, time.March, 13, 9, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ComputeExpiry() = %v, want %v", got, want)
	}
}

func TestComputeExpiry_MalformedGraceTimeIgnored(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	got := ComputeExpiry(now, ExpiryInput{GraceDays: 2, GraceTime: "25:99"})

	want := time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ComputeExpiry() = %v, want %v", got, want)
	}
}

func TestComputeExpiry_GraceBeatsCycle(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	got := ComputeExpiry(now, ExpiryInput{GraceDays: 2, CycleDays: 30})

	want := time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ComputeExpiry() = %v, want %v", got, want)
	}
}

func TestComputeExpiry_PlanCycle(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	got := ComputeExpiry(now, ExpiryInput{CycleDays: 30})

	want := time.Date(2025, time.April, 9, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ComputeExpiry() = %v, want %v", got, want)
	}
}

func TestComputeExpiry_NothingSuppliedExpiresNow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	got := ComputeExpiry(now, ExpiryInput{})
	if !got.Equal(now) {
		t.Errorf("ComputeExpiry() = %v, want now %v", got, now)
	}
}

func TestSchedulerJobName(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"10.0.0.5", "expire-10-0-0-5"},
		{"192.168.88.10", "expire-192-168-88-10"},
		{"fe80::1", "expire-fe80--1"},
		{"abcXYZ123", "expire-abcXYZ123"},
	}
	for _, tt := range tests {
		if got := SchedulerJobName(tt.address); got != tt.want {
			t.Errorf("SchedulerJobName(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}

func TestSchedulerTimestampFormats(t *testing.T) {
	ts := time.Date(2025, time.August, 3, 7, 5, 9, 0, time.UTC)

	if got := StartDate(ts); got != "Aug/03/2025" {
		t.Errorf("StartDate() = %q, want %q", got, "Aug/03/2025")
	}
	if got := StartTime(ts); got != "07:05:09" {
		t.Errorf("StartTime() = %q, want %q", got, "07:05:09")
	}
}

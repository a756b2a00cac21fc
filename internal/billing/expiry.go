package billing

import (
	"strings"
	"time"
)

// ExpiryInput carries the precedence chain for expiration computation.
// Zero values mean "not supplied".
type ExpiryInput struct {
	Manual    *time.Time
	GraceDays int
	GraceTime string // "HH:MM" time-of-day anchor for the grace window
	CycleDays int
}

// ComputeExpiry resolves an absolute expiration timestamp. Precedence:
// a manual timestamp verbatim; else the grace window (GraceTime sets the
// time-of-day on now's date before the days are added); else the plan
// cycle; else now, which expires the lease immediately.
func ComputeExpiry(now time.Time, in ExpiryInput) time.Time {
	switch {
	case in.Manual != nil:
		return *in.Manual
	case in.GraceDays > 0:
		anchor := now
		if in.GraceTime != "" {
			if tod, err := time.Parse("15:04", in.GraceTime); err == nil {
				anchor = time.Date(now.Year(), now.Month(), now.Day(),
					tod.Hour(), tod.Minute(), 0, 0, now.Location())
			}
		}
		return anchor.AddDate(0, 0, in.GraceDays)
	case in.CycleDays > 0:
		return now.AddDate(0, 0, in.CycleDays)
	default:
		return now
	}
}

// SchedulerJobName derives the deterministic device-side job name for a
// subscriber address. Every non-alphanumeric character becomes a hyphen
// so the name stays a valid identifier.
func SchedulerJobName(address string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, address)
	return "expire-" + mapped
}

// StartDate renders a timestamp in the device scheduler's date format.
func StartDate(t time.Time) string {
	return t.Format("Jan/02/2006")
}

// StartTime renders a timestamp in the device scheduler's time format.
func StartTime(t time.Time) string {
	return t.Format("15:04:05")
}

// Package lifecycle classifies subscription records into time-driven
// buckets. Every component that needs "where is this record in its life"
// goes through Classify so the boundary arithmetic lives in one place.
package lifecycle

import "time"

type Bucket string

const (
	// BucketNone means no action this sweep.
	BucketNone Bucket = "none"
	// BucketWarn7 fires exactly seven days before expiry.
	BucketWarn7 Bucket = "warn_7day"
	// BucketWarn3 fires exactly three days before expiry.
	BucketWarn3 Bucket = "warn_3day"
	// BucketGrace covers the first seven days after expiry: suspended but
	// recoverable.
	BucketGrace Bucket = "grace"
	// BucketDelete means the grace window is exhausted; cascade delete.
	BucketDelete Bucket = "delete"
)

const graceDays = 7

// DaysUntilExpiry returns the calendar-day distance from now to expiry.
// Both instants are truncated to their local dates first, so an
// expiry at 09:00 and a sweep at 23:00 on the same day count as zero.
// Negative values mean the subscription has already expired.
func DaysUntilExpiry(expiresAt, now time.Time) int {
	ey, em, ed := expiresAt.Date()
	ny, nm, nd := now.Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24)
}

// Classify maps an expiry timestamp to its lifecycle bucket:
//
//	d == 7           warn_7day
//	d == 3           warn_3day
//	-7 <= d < 0      grace (suspend, recoverable)
//	d < -7           delete
//	anything else    none
//
// Day zero (expires today) deliberately takes no action; grace begins the
// first full day after expiry.
func Classify(expiresAt, now time.Time) Bucket {
	d := DaysUntilExpiry(expiresAt, now)
	switch {
	case d == 7:
		return BucketWarn7
	case d == 3:
		return BucketWarn3
	case d >= -graceDays && d < 0:
		return BucketGrace
	case d < -graceDays:
		return BucketDelete
	default:
		return BucketNone
	}
}

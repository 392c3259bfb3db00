// Package lockout holds the pure decision logic for account lockout. It
// mutates User lockout fields in memory only; persisting the result is the
// caller's job.
package lockout

import (
	"time"

	"github.com/ISanaSaki/inventory-api/internal/auth/domain"
)

type Policy struct {
	Threshold int
	Window    time.Duration
	Duration  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Threshold: 5,
		Window:    15 * time.Minute,
		Duration:  15 * time.Minute,
	}
}

// IsLocked reports whether the account is locked at the given instant.
func IsLocked(u *domain.User, now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// RegisterFailure counts one failed login. Failures older than the policy
// window do not count toward the threshold; reaching the threshold sets a
// fixed-length lock. An existing lock is not extended by further failures.
func RegisterFailure(u *domain.User, now time.Time, p Policy) {
	if u.LastFailedAt == nil || now.Sub(*u.LastFailedAt) > p.Window {
		u.FailedLoginCount = 0
	}

	u.FailedLoginCount++
	failedAt := now
	u.LastFailedAt = &failedAt

	if u.FailedLoginCount >= p.Threshold {
		lockedUntil := now.Add(p.Duration)
		u.LockedUntil = &lockedUntil
	}
}

// RegisterSuccess clears all lockout bookkeeping after a successful login.
func RegisterSuccess(u *domain.User) {
	u.FailedLoginCount = 0
	u.LockedUntil = nil
	u.LastFailedAt = nil
}

package lockout

import (
	"testing"
	"time"

	"github.com/ISanaSaki/inventory-api/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLocked(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name        string
		lockedUntil *time.Time
		want        bool
	}{
		{"never locked", nil, false},
		{"lock expired", &past, false},
		{"lock active", &future, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &domain.User{LockedUntil: tt.lockedUntil}
			assert.Equal(t, tt.want, IsLocked(u, now))
		})
	}
}

func TestRegisterFailure_LocksAtThreshold(t *testing.T) {
	p := DefaultPolicy()
	u := &domain.User{}
	now := time.Now()

	for i := 0; i < p.Threshold-1; i++ {
		RegisterFailure(u, now, p)
		assert.False(t, IsLocked(u, now), "should not lock before threshold")
	}
	assert.Equal(t, p.Threshold-1, u.FailedLoginCount)

	// The fifth failure triggers the lock.
	RegisterFailure(u, now, p)
	require.NotNil(t, u.LockedUntil)
	assert.True(t, IsLocked(u, now))
	assert.Equal(t, now.Add(p.Duration), *u.LockedUntil)

	// The lock lasts exactly the configured duration.
	assert.True(t, IsLocked(u, now.Add(p.Duration-time.Second)))
	assert.False(t, IsLocked(u, now.Add(p.Duration)))
}

func TestRegisterFailure_WindowResetsCounter(t *testing.T) {
	p := DefaultPolicy()
	u := &domain.User{}
	start := time.Now()

	for i := 0; i < p.Threshold-1; i++ {
		RegisterFailure(u, start, p)
	}

	// A failure past the window starts a fresh count instead of locking.
	later := start.Add(p.Window + time.Minute)
	RegisterFailure(u, later, p)

	assert.Equal(t, 1, u.FailedLoginCount)
	assert.Nil(t, u.LockedUntil)
	require.NotNil(t, u.LastFailedAt)
	assert.Equal(t, later, *u.LastFailedAt)
}

func TestRegisterFailure_WithinWindowAccumulates(t *testing.T) {
	p := DefaultPolicy()
	u := &domain.User{}
	start := time.Now()

	RegisterFailure(u, start, p)
	RegisterFailure(u, start.Add(p.Window-time.Minute), p)

	assert.Equal(t, 2, u.FailedLoginCount)
}

func TestRegisterSuccess_ClearsState(t *testing.T) {
	p := DefaultPolicy()
	u := &domain.User{}
	now := time.Now()

	for i := 0; i < p.Threshold; i++ {
		RegisterFailure(u, now, p)
	}
	require.True(t, IsLocked(u, now))

	RegisterSuccess(u)

	assert.Zero(t, u.FailedLoginCount)
	assert.Nil(t, u.LockedUntil)
	assert.Nil(t, u.LastFailedAt)
}

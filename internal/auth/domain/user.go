package domain

import (
	"strings"
	"time"
)

// Role is the closed set of roles the system knows about. Anything else is
// rejected at the boundary by ParseRole.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleUser, Role(""):
		return RoleUser, true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID               string
	Email            string
	PasswordHash     string
	Role             Role
	IsActive         bool
	IsVerified       bool
	FailedLoginCount int
	LastFailedAt     *time.Time
	LockedUntil      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RefreshToken is one row of the rotation ledger. TokenHash is a keyed hash
// of the raw token; the raw token itself is never stored. Rows are revoked,
// never deleted.
type RefreshToken struct {
	ID        string
	UserID    string
	JTI       string
	TokenHash string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// LoginAttempt is append-only. UserID stays nil when the identifier does not
// match any account.
type LoginAttempt struct {
	ID         string
	Identifier string
	UserID     *string
	Success    bool
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

type AuditEntry struct {
	UserID   *string
	Action   string
	Entity   string
	EntityID *string
	OldData  map[string]any
	NewData  map[string]any
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated, request-scoped claim set reconstructed from
// a verified token on every request. It is never persisted or mutated, only
// reissued at login.
type Identity struct {
	UserID     uuid.UUID
	TenantID   uuid.UUID
	Role       string
	TenantName string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

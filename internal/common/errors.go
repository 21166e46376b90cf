package common

import (
	"errors"
	"fmt"
)

// Terminal decisions surfaced by the services. Authorization and quota
// denials are never retried.
var (
	// ErrNotFound covers both a genuinely absent resource and one filtered
	// out by tenant/owner scope; callers must not be able to tell the two
	// apart.
	ErrNotFound = errors.New("resource not found")

	// ErrNoteLimitReached is returned when a free-plan tenant already holds
	// its full note quota.
	ErrNoteLimitReached = errors.New("note limit reached")

	// ErrNoChangeNeeded rejects a plan transition to the plan the tenant is
	// already on.
	ErrNoChangeNeeded = errors.New("no plan change needed")

	// ErrEmailTaken is returned when inviting a user whose email already
	// exists within the tenant.
	ErrEmailTaken = errors.New("email already exists in tenant")

	// ErrValidation covers missing or malformed required fields.
	ErrValidation = errors.New("validation failed")
)

type DenyReason string

const (
	DenyCrossTenant      DenyReason = "cross_tenant"
	DenyNotOwner         DenyReason = "not_owner"
	DenyInsufficientRole DenyReason = "insufficient_role"
	DenyTenantMismatch   DenyReason = "tenant_mismatch"
)

// DenyError is a terminal authorization denial. The Reason is for internal
// logging and tests; the external message is always one of the stable,
// non-leaking strings produced by Message.
type DenyError struct {
	Reason DenyReason
}

func (e *DenyError) Error() string {
	return fmt.Sprintf("authorization denied: %s", e.Reason)
}

// Message returns the stable user-visible denial message.
func (e *DenyError) Message() string {
	switch e.Reason {
	case DenyTenantMismatch:
		return "Access denied: Tenant mismatch"
	case DenyCrossTenant:
		return "Access denied: Different tenant"
	default:
		return "Insufficient permissions"
	}
}

// Deny builds a DenyError for the given reason.
func Deny(reason DenyReason) error {
	return &DenyError{Reason: reason}
}

// AsDeny unwraps a DenyError if err is one.
func AsDeny(err error) (*DenyError, bool) {
	var denyErr *DenyError
	if errors.As(err, &denyErr) {
		return denyErr, true
	}
	return nil, false
}

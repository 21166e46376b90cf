package services

import (
	"notegrid/internal/common"
	"notegrid/internal/models"

	"github.com/google/uuid"
)

type ActionKind int

const (
	ActionListNotes ActionKind = iota
	ActionReadNote
	ActionWriteNote
	ActionDeleteNote
	ActionListUsers
	ActionInviteUser
	ActionChangeTenantPlan
)

// Action describes a requested operation against a target.
type Action struct {
	Kind     ActionKind
	TenantID uuid.UUID // tenant owning the target resource

	// OwnerID is the owning user for note-scoped actions.
	OwnerID uuid.UUID

	// Slug is the tenant slug named in the request path and Subdomain the
	// tenant's stored subdomain; both only set for plan changes.
	Slug      string
	Subdomain string
}

func (k ActionKind) noteScoped() bool {
	switch k {
	case ActionReadNote, ActionWriteNote, ActionDeleteNote:
		return true
	}
	return false
}

// PolicyService decides allow/deny for an identity and an action. Rules are
// an ordered list; the first matching rule wins, and the cross-tenant rule
// composes with every other rule: no operation ever crosses a tenant
// boundary, regardless of role.
type PolicyService interface {
	Authorize(identity *models.Identity, action Action) error
}

type policyService struct{}

func NewPolicyService() PolicyService {
	return &policyService{}
}

func (p *policyService) Authorize(identity *models.Identity, action Action) error {
	// Rule 1: tenant isolation.
	if identity.TenantID != action.TenantID {
		return common.Deny(common.DenyCrossTenant)
	}

	// Rule 2: note-scoped actions. Admins see every note in their tenant,
	// members only their own.
	if action.Kind.noteScoped() {
		if identity.IsAdmin() {
			return nil
		}
		if identity.UserID == action.OwnerID {
			return nil
		}
		return common.Deny(common.DenyNotOwner)
	}
	if action.Kind == ActionListNotes {
		return nil
	}

	// Rule 3: user management and plan changes are admin-only.
	if !identity.IsAdmin() {
		return common.Deny(common.DenyInsufficientRole)
	}

	// Rule 4: plan changes cross-check the path slug against the tenant's
	// subdomain, in case of a forged path parameter.
	if action.Kind == ActionChangeTenantPlan && action.Slug != action.Subdomain {
		return common.Deny(common.DenyTenantMismatch)
	}

	return nil
}

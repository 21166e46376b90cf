package services

import (
	"testing"

	"notegrid/internal/common"
	"notegrid/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPolicyService_Authorize(t *testing.T) {
	policy := NewPolicyService()

	tenantA := uuid.New()
	tenantB := uuid.New()
	adminID := uuid.New()
	memberID := uuid.New()
	otherMemberID := uuid.New()

	admin := &models.Identity{UserID: adminID, TenantID: tenantA, Role: models.RoleAdmin}
	member := &models.Identity{UserID: memberID, TenantID: tenantA, Role: models.RoleMember}

	tests := []struct {
		name       string
		identity   *models.Identity
		action     Action
		wantReason common.DenyReason
	}{
		{
			name:       "cross-tenant read denied even for admin",
			identity:   admin,
			action:     Action{Kind: ActionReadNote, TenantID: tenantB, OwnerID: adminID},
			wantReason: common.DenyCrossTenant,
		},
		{
			name:       "cross-tenant list denied for member",
			identity:   member,
			action:     Action{Kind: ActionListNotes, TenantID: tenantB},
			wantReason: common.DenyCrossTenant,
		},
		{
			name:     "admin reads any note in own tenant",
			identity: admin,
			action:   Action{Kind: ActionReadNote, TenantID: tenantA, OwnerID: otherMemberID},
		},
		{
			name:     "admin deletes member note",
			identity: admin,
			action:   Action{Kind: ActionDeleteNote, TenantID: tenantA, OwnerID: memberID},
		},
		{
			name:     "member reads own note",
			identity: member,
			action:   Action{Kind: ActionReadNote, TenantID: tenantA, OwnerID: memberID},
		},
		{
			name:       "member cannot read another member's note",
			identity:   member,
			action:     Action{Kind: ActionReadNote, TenantID: tenantA, OwnerID: otherMemberID},
			wantReason: common.DenyNotOwner,
		},
		{
			name:       "member cannot delete another member's note",
			identity:   member,
			action:     Action{Kind: ActionDeleteNote, TenantID: tenantA, OwnerID: otherMemberID},
			wantReason: common.DenyNotOwner,
		},
		{
			name:     "member lists notes in own tenant",
			identity: member,
			action:   Action{Kind: ActionListNotes, TenantID: tenantA},
		},
		{
			name:     "admin lists users",
			identity: admin,
			action:   Action{Kind: ActionListUsers, TenantID: tenantA},
		},
		{
			name:       "member cannot list users",
			identity:   member,
			action:     Action{Kind: ActionListUsers, TenantID: tenantA},
			wantReason: common.DenyInsufficientRole,
		},
		{
			name:       "member cannot invite users",
			identity:   member,
			action:     Action{Kind: ActionInviteUser, TenantID: tenantA},
			wantReason: common.DenyInsufficientRole,
		},
		{
			name:       "member cannot change plan",
			identity:   member,
			action:     Action{Kind: ActionChangeTenantPlan, TenantID: tenantA, Slug: "acme", Subdomain: "acme"},
			wantReason: common.DenyInsufficientRole,
		},
		{
			name:     "admin changes plan with matching slug",
			identity: admin,
			action:   Action{Kind: ActionChangeTenantPlan, TenantID: tenantA, Slug: "acme", Subdomain: "acme"},
		},
		{
			name:       "admin plan change with forged slug denied",
			identity:   admin,
			action:     Action{Kind: ActionChangeTenantPlan, TenantID: tenantA, Slug: "globex", Subdomain: "acme"},
			wantReason: common.DenyTenantMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Authorize(tt.identity, tt.action)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}
			deny, ok := common.AsDeny(err)
			assert.True(t, ok, "expected a deny error, got %v", err)
			assert.Equal(t, tt.wantReason, deny.Reason)
		})
	}
}

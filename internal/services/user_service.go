package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notegrid/internal/common"
	"notegrid/internal/models"
	"notegrid/internal/repositories"

	"github.com/google/uuid"
)

// Invited users start with a known password until they set their own.
// TODO: generate a random password and deliver it out of band once an email
// sender is wired up.
const defaultInvitePassword = "password"

// UserService covers the admin-only user management operations, always
// scoped to the admin's own tenant.
type UserService interface {
	List(ctx context.Context, identity *models.Identity) ([]*models.User, error)
	Invite(ctx context.Context, identity *models.Identity, email, name, role string) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	policy   PolicyService
	verifier PasswordVerifier
}

func NewUserService(userRepo repositories.UserRepository, policy PolicyService, verifier PasswordVerifier) UserService {
	return &userService{
		userRepo: userRepo,
		policy:   policy,
		verifier: verifier,
	}
}

func (s *userService) List(ctx context.Context, identity *models.Identity) ([]*models.User, error) {
	if err := s.policy.Authorize(identity, Action{Kind: ActionListUsers, TenantID: identity.TenantID}); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, identity.TenantID)
}

func (s *userService) Invite(ctx context.Context, identity *models.Identity, email, name, role string) (*models.User, error) {
	if err := s.policy.Authorize(identity, Action{Kind: ActionInviteUser, TenantID: identity.TenantID}); err != nil {
		return nil, err
	}

	if email == "" || name == "" || role == "" {
		return nil, fmt.Errorf("%w: email, name, and role are required", common.ErrValidation)
	}
	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, fmt.Errorf("%w: role must be admin or member", common.ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, identity.TenantID, email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, common.ErrEmailTaken
	}

	hash, err := s.verifier.Hash(defaultInvitePassword)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     identity.TenantID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

package services

import (
	"context"
	"time"

	"notegrid/internal/caching"
	"notegrid/internal/common"
	"notegrid/internal/models"
	"notegrid/internal/repositories"

	"go.uber.org/zap"
)

const directoryCacheTTL = 5 * time.Minute

// TenantService serves the public tenant directory and the plan-change
// surface. Plan transitions are trusted internal state changes; there is no
// billing integration.
type TenantService interface {
	Directory(ctx context.Context) ([]*models.Tenant, error)
	ChangePlan(ctx context.Context, identity *models.Identity, slug, plan string) (*models.Tenant, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	cache      caching.CacheService
	policy     PolicyService
	log        *zap.Logger
}

func NewTenantService(tenantRepo repositories.TenantRepository, cache caching.CacheService, policy PolicyService, log *zap.Logger) TenantService {
	return &tenantService{
		tenantRepo: tenantRepo,
		cache:      cache,
		policy:     policy,
		log:        log,
	}
}

// Directory lists every tenant's public fields for the login page. Results
// go through the cache; subscription plan is included but is never consulted
// for quota decisions from here.
func (s *tenantService) Directory(ctx context.Context) ([]*models.Tenant, error) {
	if cached, err := s.cache.GetTenantDirectory(ctx); err == nil && cached != nil {
		return cached, nil
	}

	tenants, err := s.tenantRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetTenantDirectory(ctx, tenants, directoryCacheTTL); err != nil {
		s.log.Warn("failed to cache tenant directory", zap.Error(err))
	}
	return tenants, nil
}

func (s *tenantService) ChangePlan(ctx context.Context, identity *models.Identity, slug, plan string) (*models.Tenant, error) {
	// The caller can only ever operate on its own tenant; a forged slug is
	// caught by the policy's subdomain cross-check.
	tenant, err := s.tenantRepo.GetByID(ctx, identity.TenantID)
	if err != nil {
		return nil, err
	}

	action := Action{
		Kind:      ActionChangeTenantPlan,
		TenantID:  tenant.ID,
		Slug:      slug,
		Subdomain: tenant.Subdomain,
	}
	if err := s.policy.Authorize(identity, action); err != nil {
		return nil, err
	}

	if tenant.SubscriptionPlan == plan {
		return nil, common.ErrNoChangeNeeded
	}

	updated, err := s.tenantRepo.UpdatePlan(ctx, tenant.ID, plan)
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateTenantDirectory(ctx); err != nil {
		s.log.Warn("failed to invalidate tenant directory cache", zap.Error(err))
	}

	s.log.Info("tenant plan changed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("from", tenant.SubscriptionPlan),
		zap.String("to", plan),
	)
	return updated, nil
}

package jobs

import (
	"context"
	"time"

	"notegrid/internal/caching"
	"notegrid/internal/metrics"
	"notegrid/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const refreshInterval = 5 * time.Minute

// UsageRefresher periodically recomputes the per-tenant note count gauge and
// warms the tenant directory cache. It is observational only: quota
// decisions always go through the quota enforcer, never through these
// numbers.
type UsageRefresher struct {
	scheduler  gocron.Scheduler
	tenantRepo repositories.TenantRepository
	noteRepo   repositories.NoteRepository
	cache      caching.CacheService
	log        *zap.Logger
}

func NewUsageRefresher(tenantRepo repositories.TenantRepository, noteRepo repositories.NoteRepository, cache caching.CacheService, log *zap.Logger) (*UsageRefresher, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	r := &UsageRefresher{
		scheduler:  scheduler,
		tenantRepo: tenantRepo,
		noteRepo:   noteRepo,
		cache:      cache,
		log:        log,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(refreshInterval),
		gocron.NewTask(r.refresh, context.Background()),
		gocron.WithName("tenant-usage-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *UsageRefresher) Start() {
	r.scheduler.Start()
}

func (r *UsageRefresher) Stop() error {
	return r.scheduler.Shutdown()
}

func (r *UsageRefresher) refresh(ctx context.Context) {
	tenants, err := r.tenantRepo.List(ctx)
	if err != nil {
		r.log.Warn("usage refresh: tenant list failed", zap.Error(err))
		return
	}

	for _, tenant := range tenants {
		count, err := r.noteRepo.CountByTenant(ctx, tenant.ID)
		if err != nil {
			r.log.Warn("usage refresh: note count failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
			continue
		}
		metrics.NotesPerTenant.WithLabelValues(tenant.ID.String(), tenant.SubscriptionPlan).Set(float64(count))
	}

	if err := r.cache.SetTenantDirectory(ctx, tenants, refreshInterval); err != nil {
		r.log.Warn("usage refresh: directory cache update failed", zap.Error(err))
	}
}

package caching

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"notegrid/internal/models"

	"github.com/redis/go-redis/v9"
)

const tenantDirectoryKey = "tenant_directory"

// CacheService caches the public tenant directory only. Subscription plan
// state is deliberately never served from here for quota decisions; the
// quota enforcer re-reads the tenant row on every check.
type CacheService interface {
	GetTenantDirectory(ctx context.Context) ([]*models.Tenant, error)
	SetTenantDirectory(ctx context.Context, tenants []*models.Tenant, ttl time.Duration) error
	InvalidateTenantDirectory(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func (s *redisCacheService) GetTenantDirectory(ctx context.Context) ([]*models.Tenant, error) {
	data, err := s.client.Get(ctx, tenantDirectoryKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tenants []*models.Tenant
	if err := json.Unmarshal([]byte(data), &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (s *redisCacheService) SetTenantDirectory(ctx context.Context, tenants []*models.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(tenants)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tenantDirectoryKey, data, ttl).Err()
}

func (s *redisCacheService) InvalidateTenantDirectory(ctx context.Context) error {
	return s.client.Del(ctx, tenantDirectoryKey).Err()
}

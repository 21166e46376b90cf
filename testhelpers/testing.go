package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"notegrid/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for live integration tests.
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to the test database named by TEST_DATABASE_URL.
// Tests that call it should skip when the variable is unset.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			t.Skip("TEST_DATABASE_URL not set, skipping live database test")
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTenant inserts a tenant on the given plan and returns its ID.
func SetupTestTenant(t *testing.T, db *TestDB, plan string) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	query := `
		INSERT INTO tenants (id, name, subdomain, subscription_plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := db.Pool.Exec(context.Background(), query, tenantID, "Test Tenant", "test-"+tenantID.String()[:8], plan)
	if err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}

	return tenantID
}

// SetupTestUser inserts a user in the given tenant and returns its ID.
func SetupTestUser(t *testing.T, db *TestDB, tenantID uuid.UUID, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	email := userID.String()[:8] + "@example.com"
	_, err := db.Pool.Exec(context.Background(), query, userID, tenantID, email, "x", "Test User", role)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// NewTestNote builds an unsaved note owned by the given user.
func NewTestNote(tenantID, userID uuid.UUID, title string) *models.Note {
	now := time.Now()
	return &models.Note{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Title:     title,
		Content:   "test content",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CleanupTenant deletes a tenant and everything under it.
func CleanupTenant(t *testing.T, db *TestDB, tenantID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	if _, err := db.Pool.Exec(ctx, `DELETE FROM notes WHERE tenant_id = $1`, tenantID); err != nil {
		t.Logf("cleanup notes: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE tenant_id = $1`, tenantID); err != nil {
		t.Logf("cleanup users: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID); err != nil {
		t.Logf("cleanup tenant: %v", err)
	}
}

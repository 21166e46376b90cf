package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"notegrid/internal/common"
	"notegrid/internal/models"
	"notegrid/internal/repositories"
	"notegrid/internal/services"
	"notegrid/testhelpers"

	"github.com/stretchr/testify/assert"
)

// TestConcurrentCreatesAtLimit drives simultaneous note creates against a
// real database. Exactly FreeNoteLimit creates may win regardless of
// interleaving; everything else must get the limit denial.
func TestConcurrentCreatesAtLimit(t *testing.T) {
	db := testhelpers.SetupTestDB(t, "")
	defer db.Cleanup()

	tenantID := testhelpers.SetupTestTenant(t, db, models.PlanFree)
	defer testhelpers.CleanupTenant(t, db, tenantID)
	userID := testhelpers.SetupTestUser(t, db, tenantID, models.RoleMember)

	noteRepo := repositories.NewNoteRepo(db.Pool)
	svc := services.NewNoteService(db.Pool, noteRepo, services.NewPolicyService(), services.NewQuotaService())
	identity := &models.Identity{UserID: userID, TenantID: tenantID, Role: models.RoleMember}

	const attempts = 10
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), identity, fmt.Sprintf("Concurrent note %d", i), "body")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	created, denied := 0, 0
	for err := range results {
		switch {
		case err == nil:
			created++
		case errors.Is(err, common.ErrNoteLimitReached):
			denied++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, services.FreeNoteLimit, created)
	assert.Equal(t, attempts-services.FreeNoteLimit, denied)

	count, err := noteRepo.CountByTenant(context.Background(), tenantID)
	assert.NoError(t, err)
	assert.Equal(t, services.FreeNoteLimit, count)
}

package services

import (
	"context"
	"errors"

	"notegrid/internal/common"
	"notegrid/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FreeNoteLimit is the maximum number of notes a free-plan tenant may hold.
const FreeNoteLimit = 3

// QuotaService decides whether a tenant may hold one more note. The naive
// count-then-insert sequence races under concurrent creates near the limit,
// so ReserveNoteSlot serializes per tenant with a transaction-scoped
// advisory lock: the count check and the subsequent insert run in the same
// transaction, and no two transactions for the same tenant interleave
// between check and insert.
type QuotaService interface {
	ReserveNoteSlot(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID) error
}

type quotaService struct{}

func NewQuotaService() QuotaService {
	return &quotaService{}
}

// ReserveNoteSlot must be called inside the transaction that performs the
// insert. The plan is re-read from the tenant record on every call; a cached
// or client-supplied plan value is never trusted.
func (s *quotaService) ReserveNoteSlot(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID) error {
	// Held until the transaction commits or rolls back.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, tenantID); err != nil {
		return err
	}

	var plan string
	err := tx.QueryRow(ctx, `SELECT subscription_plan FROM tenants WHERE id = $1`, tenantID).Scan(&plan)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return err
	}

	if plan == models.PlanPro {
		return nil
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM notes WHERE tenant_id = $1`, tenantID).Scan(&count); err != nil {
		return err
	}
	if count >= FreeNoteLimit {
		return common.ErrNoteLimitReached
	}
	return nil
}

package repositories

import (
	"context"
	"errors"

	"notegrid/internal/common"
	"notegrid/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// NoteRepository scopes every query by tenant and, when an owner filter is
// given, by owning user. The filter mirrors the authorization policy at the
// persistence level so a policy bug cannot by itself leak cross-tenant or
// cross-owner rows.
type NoteRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, note *models.Note) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID, ownerID *uuid.UUID) (*models.Note, error)
	List(ctx context.Context, tenantID uuid.UUID, ownerID *uuid.UUID) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note, ownerID *uuid.UUID) error
	Delete(ctx context.Context, tenantID, id uuid.UUID, ownerID *uuid.UUID) error
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type noteRepo struct {
	db Database
}

func NewNoteRepo(db Database) NoteRepository {
	return &noteRepo{db: db}
}

// CreateTx inserts within the caller's transaction so the quota reservation
// and the insert commit or roll back together.
func (r *noteRepo) CreateTx(ctx context.Context, tx pgx.Tx, note *models.Note) error {
	query := `
		INSERT INTO notes (id, tenant_id, user_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := tx.Exec(ctx, query, note.ID, note.TenantID, note.UserID, note.Title, note.Content)
	return err
}

func (r *noteRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID, ownerID *uuid.UUID) (*models.Note, error) {
	note := &models.Note{}
	query := `
		SELECT id, tenant_id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE tenant_id = $1 AND id = $2 AND ($3::uuid IS NULL OR user_id = $3)
	`
	err := r.db.QueryRow(ctx, query, tenantID, id, ownerID).Scan(&note.ID, &note.TenantID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (r *noteRepo) List(ctx context.Context, tenantID uuid.UUID, ownerID *uuid.UUID) ([]*models.Note, error) {
	query := `
		SELECT id, tenant_id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR user_id = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.TenantID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *noteRepo) Update(ctx context.Context, note *models.Note, ownerID *uuid.UUID) error {
	query := `
		UPDATE notes
		SET title = $1, content = $2, updated_at = NOW()
		WHERE tenant_id = $3 AND id = $4 AND ($5::uuid IS NULL OR user_id = $5)
	`
	tag, err := r.db.Exec(ctx, query, note.Title, note.Content, note.TenantID, note.ID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *noteRepo) Delete(ctx context.Context, tenantID, id uuid.UUID, ownerID *uuid.UUID) error {
	query := `DELETE FROM notes WHERE tenant_id = $1 AND id = $2 AND ($3::uuid IS NULL OR user_id = $3)`
	tag, err := r.db.Exec(ctx, query, tenantID, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *noteRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notes WHERE tenant_id = $1`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&count)
	return count, err
}

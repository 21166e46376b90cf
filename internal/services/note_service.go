package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notegrid/internal/common"
	"notegrid/internal/models"
	"notegrid/internal/repositories"

	"github.com/google/uuid"
)

// NoteService wraps policy and quota decisions around the note persistence
// calls. Every operation authorizes first; creation additionally reserves a
// quota slot inside the insert transaction.
type NoteService interface {
	List(ctx context.Context, identity *models.Identity) ([]*models.Note, error)
	Get(ctx context.Context, identity *models.Identity, noteID uuid.UUID) (*models.Note, error)
	Create(ctx context.Context, identity *models.Identity, title, content string) (*models.Note, error)
	Update(ctx context.Context, identity *models.Identity, noteID uuid.UUID, title, content string) (*models.Note, error)
	Delete(ctx context.Context, identity *models.Identity, noteID uuid.UUID) error

	// AuthorizeAttachment gatekeeps attachment operations with the same
	// read/write rules as the note itself.
	AuthorizeAttachment(ctx context.Context, identity *models.Identity, noteID uuid.UUID, write bool) (*models.Note, error)
}

type noteService struct {
	db       repositories.Database
	noteRepo repositories.NoteRepository
	policy   PolicyService
	quota    QuotaService
}

func NewNoteService(db repositories.Database, noteRepo repositories.NoteRepository, policy PolicyService, quota QuotaService) NoteService {
	return &noteService{
		db:       db,
		noteRepo: noteRepo,
		policy:   policy,
		quota:    quota,
	}
}

// ownerScope returns the persistence-level owner filter: members only ever
// see their own notes, admins see the whole tenant.
func ownerScope(identity *models.Identity) *uuid.UUID {
	if identity.IsAdmin() {
		return nil
	}
	ownerID := identity.UserID
	return &ownerID
}

func (s *noteService) List(ctx context.Context, identity *models.Identity) ([]*models.Note, error) {
	if err := s.policy.Authorize(identity, Action{Kind: ActionListNotes, TenantID: identity.TenantID}); err != nil {
		return nil, err
	}
	return s.noteRepo.List(ctx, identity.TenantID, ownerScope(identity))
}

func (s *noteService) Get(ctx context.Context, identity *models.Identity, noteID uuid.UUID) (*models.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, identity.TenantID, noteID, ownerScope(identity))
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(identity, Action{Kind: ActionReadNote, TenantID: note.TenantID, OwnerID: note.UserID}); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Create(ctx context.Context, identity *models.Identity, title, content string) (*models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if err := s.policy.Authorize(identity, Action{Kind: ActionWriteNote, TenantID: identity.TenantID, OwnerID: identity.UserID}); err != nil {
		return nil, err
	}

	note := &models.Note{
		ID:        uuid.New(),
		TenantID:  identity.TenantID,
		UserID:    identity.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.quota.ReserveNoteSlot(ctx, tx, identity.TenantID); err != nil {
		return nil, err
	}
	if err := s.noteRepo.CreateTx(ctx, tx, note); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, identity *models.Identity, noteID uuid.UUID, title, content string) (*models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	note, err := s.noteRepo.GetByID(ctx, identity.TenantID, noteID, ownerScope(identity))
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(identity, Action{Kind: ActionWriteNote, TenantID: note.TenantID, OwnerID: note.UserID}); err != nil {
		return nil, err
	}

	note.Title = title
	note.Content = content
	note.UpdatedAt = time.Now()
	if err := s.noteRepo.Update(ctx, note, ownerScope(identity)); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, identity *models.Identity, noteID uuid.UUID) error {
	note, err := s.noteRepo.GetByID(ctx, identity.TenantID, noteID, ownerScope(identity))
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(identity, Action{Kind: ActionDeleteNote, TenantID: note.TenantID, OwnerID: note.UserID}); err != nil {
		return err
	}
	return s.noteRepo.Delete(ctx, identity.TenantID, noteID, ownerScope(identity))
}

func (s *noteService) AuthorizeAttachment(ctx context.Context, identity *models.Identity, noteID uuid.UUID, write bool) (*models.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, identity.TenantID, noteID, ownerScope(identity))
	if err != nil {
		return nil, err
	}
	kind := ActionReadNote
	if write {
		kind = ActionWriteNote
	}
	if err := s.policy.Authorize(identity, Action{Kind: kind, TenantID: note.TenantID, OwnerID: note.UserID}); err != nil {
		return nil, err
	}
	return note, nil
}

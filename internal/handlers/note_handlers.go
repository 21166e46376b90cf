package handlers

import (
	"errors"
	"net/http"

	"notegrid/internal/common"
	"notegrid/internal/metrics"
	"notegrid/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const noteLimitMessage = "Free plan is limited to 3 notes. Please upgrade to Pro for unlimited notes."

// notFoundMessage deliberately covers both an absent note and one filtered
// out by tenant/owner scope.
const noteNotFoundMessage = "Note not found or access denied"

// NoteHandlers handles the note CRUD surface.
type NoteHandlers struct {
	noteService services.NoteService
	log         *zap.Logger
}

func NewNoteHandlers(noteService services.NoteService, log *zap.Logger) *NoteHandlers {
	return &NoteHandlers{noteService: noteService, log: log}
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *NoteHandlers) parseNoteID(c echo.Context) (uuid.UUID, error) {
	return parseUUIDParam(c, "id", "Invalid note ID")
}

// ListNotes handles GET /notes. Members only see their own notes, admins see
// every note in their tenant.
func (h *NoteHandlers) ListNotes(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	notes, err := h.noteService.List(c.Request().Context(), identity)
	if err != nil {
		h.log.Error("note list failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to fetch notes")
	}
	return common.OKList(c, notes, len(notes))
}

// CreateNote handles POST /notes. Creation reserves a quota slot before the
// insert; a denial is terminal and carries the structured limitReached flag.
func (h *NoteHandlers) CreateNote(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return common.Fail(c, http.StatusBadRequest, "Invalid request format")
	}

	note, err := h.noteService.Create(c.Request().Context(), identity, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			return common.Fail(c, http.StatusBadRequest, "Title is required")
		case errors.Is(err, common.ErrNoteLimitReached):
			metrics.NoteLimitDenialsTotal.Inc()
			return common.FailLimitReached(c, noteLimitMessage)
		}
		if denyErr, ok := common.AsDeny(err); ok {
			return common.Fail(c, http.StatusForbidden, denyErr.Message())
		}
		h.log.Error("note creation failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to create note")
	}
	return common.OK(c, http.StatusCreated, "Note created successfully", note)
}

// GetNote handles GET /notes/:id.
func (h *NoteHandlers) GetNote(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	noteID, err := h.parseNoteID(c)
	if err != nil {
		return err
	}

	note, err := h.noteService.Get(c.Request().Context(), identity, noteID)
	if err != nil {
		return h.respondNoteError(c, err, "Failed to fetch note")
	}
	return common.OK(c, http.StatusOK, "", note)
}

// UpdateNote handles PUT /notes/:id.
func (h *NoteHandlers) UpdateNote(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	noteID, err := h.parseNoteID(c)
	if err != nil {
		return err
	}

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return common.Fail(c, http.StatusBadRequest, "Invalid request format")
	}

	note, err := h.noteService.Update(c.Request().Context(), identity, noteID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return common.Fail(c, http.StatusBadRequest, "Title is required")
		}
		return h.respondNoteError(c, err, "Failed to update note")
	}
	return common.OK(c, http.StatusOK, "Note updated successfully", note)
}

// DeleteNote handles DELETE /notes/:id.
func (h *NoteHandlers) DeleteNote(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	noteID, err := h.parseNoteID(c)
	if err != nil {
		return err
	}

	if err := h.noteService.Delete(c.Request().Context(), identity, noteID); err != nil {
		return h.respondNoteError(c, err, "Failed to delete note")
	}
	return common.OK(c, http.StatusOK, "Note deleted successfully", nil)
}

// respondNoteError maps scope misses and denials onto the same 404 so the
// existence of other tenants' or owners' notes never leaks.
func (h *NoteHandlers) respondNoteError(c echo.Context, err error, internalMsg string) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.Fail(c, http.StatusNotFound, noteNotFoundMessage)
	}
	if _, ok := common.AsDeny(err); ok {
		return common.Fail(c, http.StatusNotFound, noteNotFoundMessage)
	}
	h.log.Error(internalMsg, zap.Error(err))
	return common.Fail(c, http.StatusInternalServerError, internalMsg)
}

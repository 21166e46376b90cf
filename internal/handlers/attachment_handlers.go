package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"notegrid/internal/common"
	"notegrid/internal/models"
	"notegrid/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const presignedURLExpiry = 15 * time.Minute

// AttachmentHandlers stores note attachments in object storage. Access is
// gated by the same note read/write authorization as the note itself, and
// object keys are tenant-prefixed.
type AttachmentHandlers struct {
	noteService services.NoteService
	storage     services.StorageService
	log         *zap.Logger
}

func NewAttachmentHandlers(noteService services.NoteService, storage services.StorageService, log *zap.Logger) *AttachmentHandlers {
	return &AttachmentHandlers{
		noteService: noteService,
		storage:     storage,
		log:         log,
	}
}

func attachmentObjectName(note *models.Note, filename string) string {
	return fmt.Sprintf("%s/%s/%s", note.TenantID, note.ID, path.Base(filename))
}

func (h *AttachmentHandlers) authorizedNote(c echo.Context, write bool) (*models.Note, error) {
	identity, err := requireIdentity(c)
	if err != nil {
		return nil, err
	}
	noteID, err := parseUUIDParam(c, "id", "Invalid note ID")
	if err != nil {
		return nil, err
	}

	note, err := h.noteService.AuthorizeAttachment(c.Request().Context(), identity, noteID, write)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Fail(c, http.StatusNotFound, noteNotFoundMessage)
		}
		if _, ok := common.AsDeny(err); ok {
			return nil, common.Fail(c, http.StatusNotFound, noteNotFoundMessage)
		}
		h.log.Error("attachment authorization failed", zap.Error(err))
		return nil, common.Fail(c, http.StatusInternalServerError, "Failed to access note")
	}
	return note, nil
}

// Upload handles POST /notes/:id/attachments.
func (h *AttachmentHandlers) Upload(c echo.Context) error {
	note, err := h.authorizedNote(c, true)
	if note == nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return common.Fail(c, http.StatusBadRequest, "Attachment file is required")
	}

	src, err := file.Open()
	if err != nil {
		h.log.Error("attachment open failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to upload attachment")
	}
	defer src.Close()

	objectName := attachmentObjectName(note, file.Filename)
	contentType := file.Header.Get("Content-Type")
	if err := h.storage.UploadAttachment(c.Request().Context(), objectName, src, file.Size, contentType); err != nil {
		h.log.Error("attachment upload failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to upload attachment")
	}

	return common.OK(c, http.StatusCreated, "Attachment uploaded successfully", map[string]string{
		"name": path.Base(file.Filename),
	})
}

// Download handles GET /notes/:id/attachments/:name by returning a
// short-lived presigned URL.
func (h *AttachmentHandlers) Download(c echo.Context) error {
	note, err := h.authorizedNote(c, false)
	if note == nil {
		return err
	}

	objectName := attachmentObjectName(note, c.Param("name"))
	url, err := h.storage.PresignedURL(c.Request().Context(), objectName, presignedURLExpiry)
	if err != nil {
		h.log.Error("presigned URL generation failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to fetch attachment")
	}
	return common.OK(c, http.StatusOK, "", map[string]string{"url": url})
}

// Delete handles DELETE /notes/:id/attachments/:name.
func (h *AttachmentHandlers) Delete(c echo.Context) error {
	note, err := h.authorizedNote(c, true)
	if note == nil {
		return err
	}

	objectName := attachmentObjectName(note, c.Param("name"))
	if err := h.storage.DeleteAttachment(c.Request().Context(), objectName); err != nil {
		h.log.Error("attachment delete failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to delete attachment")
	}
	return common.OK(c, http.StatusOK, "Attachment deleted successfully", nil)
}

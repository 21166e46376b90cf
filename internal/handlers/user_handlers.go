package handlers

import (
	"errors"
	"net/http"

	"notegrid/internal/common"
	"notegrid/internal/models"
	"notegrid/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandlers handles the admin-only user management surface.
type UserHandlers struct {
	userService services.UserService
	log         *zap.Logger
}

func NewUserHandlers(userService services.UserService, log *zap.Logger) *UserHandlers {
	return &UserHandlers{userService: userService, log: log}
}

// ListUsers handles GET /users.
func (h *UserHandlers) ListUsers(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), identity)
	if err != nil {
		if denyErr, ok := common.AsDeny(err); ok {
			return common.Fail(c, http.StatusForbidden, denyErr.Message())
		}
		h.log.Error("user list failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to fetch users")
	}
	return common.OKList(c, users, len(users))
}

// InviteUser handles POST /users.
func (h *UserHandlers) InviteUser(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return common.Fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Name == "" || req.Role == "" {
		return common.Fail(c, http.StatusBadRequest, "Email, name, and role are required")
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleMember {
		return common.Fail(c, http.StatusBadRequest, "Role must be admin or member")
	}

	user, err := h.userService.Invite(c.Request().Context(), identity, req.Email, req.Name, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			return common.Fail(c, http.StatusConflict, "User with this email already exists in your organization")
		case errors.Is(err, common.ErrValidation):
			return common.Fail(c, http.StatusBadRequest, "Email, name, and role are required")
		}
		if denyErr, ok := common.AsDeny(err); ok {
			return common.Fail(c, http.StatusForbidden, denyErr.Message())
		}
		h.log.Error("user invite failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to invite user")
	}
	return common.OK(c, http.StatusCreated, "User invited successfully", user)
}

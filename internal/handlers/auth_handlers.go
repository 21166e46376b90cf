package handlers

import (
	"errors"
	"net/http"

	"notegrid/internal/common"
	"notegrid/internal/middleware"
	"notegrid/internal/repositories"
	"notegrid/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandlers handles the login surface and the current-user endpoint.
type AuthHandlers struct {
	userRepo   repositories.UserRepository
	tenantRepo repositories.TenantRepository
	tokens     services.TokenService
	verifier   services.PasswordVerifier
	log        *zap.Logger
}

func NewAuthHandlers(userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository, tokens services.TokenService, verifier services.PasswordVerifier, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		tokens:     tokens,
		verifier:   verifier,
		log:        log,
	}
}

// LoginRequest carries the tenant-scoped credentials.
type LoginRequest struct {
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user within a tenant and issues an identity token,
// returned in the body and as an HTTP-only cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.Fail(c, http.StatusBadRequest, "Invalid request format")
	}
	if req.TenantID == "" || req.Email == "" || req.Password == "" {
		return common.Fail(c, http.StatusBadRequest, "Tenant, email, and password are required")
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return common.Fail(c, http.StatusBadRequest, "Invalid tenant selected")
	}

	tenant, err := h.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Fail(c, http.StatusBadRequest, "Invalid tenant selected")
		}
		h.log.Error("tenant lookup failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Login failed")
	}

	// The lookup is scoped by (tenant, email); the same email under another
	// tenant is a different identity.
	user, err := h.userRepo.GetByEmail(ctx, tenant.ID, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		h.log.Error("user lookup failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Login failed")
	}

	if err := h.verifier.Verify(user.PasswordHash, req.Password); err != nil {
		return common.Fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.tokens.Issue(user, tenant.Name)
	if err != nil {
		h.log.Error("token issuance failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Login failed")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(services.TokenTTL.Seconds()),
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": map[string]interface{}{
			"id":                user.ID,
			"email":             user.Email,
			"name":              user.Name,
			"role":              user.Role,
			"tenant_id":         user.TenantID,
			"tenant_name":       tenant.Name,
			"subscription_plan": tenant.SubscriptionPlan,
		},
	})
}

// Me returns the current user's profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), identity.TenantID, identity.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Fail(c, http.StatusNotFound, "User not found")
		}
		h.log.Error("user lookup failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to fetch user")
	}
	return common.OK(c, http.StatusOK, "", user)
}

package handlers

import (
	"errors"
	"net/http"

	"notegrid/internal/common"
	"notegrid/internal/models"
	"notegrid/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantHandlers handles the public tenant directory and the plan-change
// surface.
type TenantHandlers struct {
	tenantService services.TenantService
	log           *zap.Logger
}

func NewTenantHandlers(tenantService services.TenantService, log *zap.Logger) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService, log: log}
}

type tenantSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
}

// ListTenants handles GET /tenants. Public: only id, name, and subdomain are
// exposed, for the login page's company picker.
func (h *TenantHandlers) ListTenants(c echo.Context) error {
	tenants, err := h.tenantService.Directory(c.Request().Context())
	if err != nil {
		h.log.Error("tenant directory fetch failed", zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, "Failed to fetch companies")
	}

	summaries := make([]tenantSummary, 0, len(tenants))
	for _, t := range tenants {
		summaries = append(summaries, tenantSummary{ID: t.ID, Name: t.Name, Subdomain: t.Subdomain})
	}
	return common.OK(c, http.StatusOK, "", summaries)
}

// UpgradePlan handles POST /tenants/:slug/upgrade.
func (h *TenantHandlers) UpgradePlan(c echo.Context) error {
	return h.changePlan(c, models.PlanPro,
		"Successfully upgraded to Pro plan",
		"Tenant is already on the Pro plan",
		"Failed to upgrade tenant")
}

// DowngradePlan handles POST /tenants/:slug/downgrade.
func (h *TenantHandlers) DowngradePlan(c echo.Context) error {
	return h.changePlan(c, models.PlanFree,
		"Successfully downgraded to Free plan",
		"Tenant is already on the Free plan",
		"Failed to downgrade tenant")
}

func (h *TenantHandlers) changePlan(c echo.Context, plan, successMsg, noopMsg, failMsg string) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	slug := c.Param("slug")

	tenant, err := h.tenantService.ChangePlan(c.Request().Context(), identity, slug, plan)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return common.Fail(c, http.StatusNotFound, "Tenant not found")
		case errors.Is(err, common.ErrNoChangeNeeded):
			return common.Fail(c, http.StatusBadRequest, noopMsg)
		}
		if denyErr, ok := common.AsDeny(err); ok {
			return common.Fail(c, http.StatusForbidden, denyErr.Message())
		}
		h.log.Error(failMsg, zap.Error(err))
		return common.Fail(c, http.StatusInternalServerError, failMsg)
	}
	return common.OK(c, http.StatusOK, successMsg, tenant)
}

package handlers

import (
	"net/http"

	"notegrid/internal/common"
	"notegrid/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requireIdentity pulls the authenticated identity out of the request
// context. A missing identity means the route was wired without the auth
// middleware; respond as unauthenticated either way.
func requireIdentity(c echo.Context) (*models.Identity, error) {
	identity, ok := common.GetIdentityFromContext(c.Request().Context())
	if !ok {
		// The response is written here; the returned error only stops the
		// handler and is swallowed once the response is committed.
		_ = common.Fail(c, http.StatusUnauthorized, "No authentication token provided")
		return nil, echo.ErrUnauthorized
	}
	return identity, nil
}

// parseUUIDParam parses a path parameter as a UUID, responding with the
// given message on failure.
func parseUUIDParam(c echo.Context, name, badRequestMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		_ = common.Fail(c, http.StatusBadRequest, badRequestMsg)
		return uuid.Nil, echo.ErrBadRequest
	}
	return id, nil
}

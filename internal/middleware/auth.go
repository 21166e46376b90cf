package middleware

import (
	"net/http"
	"strings"

	"notegrid/internal/common"
	"notegrid/internal/metrics"
	"notegrid/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthCookieName is the cookie the login surface sets alongside the token
// response body.
const AuthCookieName = "auth-token"

// External messages are fixed and do not reveal whether a token was absent,
// malformed, expired, or forged; the distinction is logged internally only.
const (
	msgNoToken      = "No authentication token provided"
	msgInvalidToken = "Invalid or expired token"
)

// Authenticate resolves the request's credential material into an Identity.
// The Authorization header takes precedence over the cookie when both are
// present.
func Authenticate(tokens services.TokenService, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := ""

			authHeader := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			} else if cookie, err := c.Cookie(AuthCookieName); err == nil {
				tokenString = cookie.Value
			}

			if tokenString == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
				return common.Fail(c, http.StatusUnauthorized, msgNoToken)
			}

			identity, err := tokens.Verify(tokenString)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(authFailureReason(err)).Inc()
				log.Debug("token verification failed",
					zap.String("reason", authFailureReason(err)),
					zap.String("path", c.Path()),
				)
				return common.Fail(c, http.StatusUnauthorized, msgInvalidToken)
			}

			ctx := common.WithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func authFailureReason(err error) string {
	switch err {
	case services.ErrTokenExpired:
		return "expired"
	case services.ErrTokenSignature:
		return "bad_signature"
	default:
		return "malformed"
	}
}

package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/tokens"
)

const (
	ContextUserID = "userID"
	ContextStatus = "status"
)

// RequireAccess gates identity-scoped routes. A missing or rejected access
// token yields an unauthorized error before any handler runs.
func RequireAccess(issuer *tokens.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				if cookie, err := c.Cookie("accessToken"); err == nil {
					raw = cookie.Value
				}
			}
			if raw == "" {
				return apperrors.NewUnauthorized()
			}

			claims, err := issuer.Verify(raw)
			if err != nil {
				return apperrors.NewUnauthorized()
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return apperrors.NewUnauthorized()
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextStatus, claims.Status)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// UserID returns the identity attached by RequireAccess.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextUserID).(uuid.UUID)
	return id, ok
}

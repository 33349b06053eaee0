package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/watergb/billing-system/internal/api/metrics"
	"github.com/watergb/billing-system/internal/core/domain"
	"github.com/watergb/billing-system/internal/core/ports"
)

// RequireRole enforces role-based access control. The role is re-read from the
// credential store on every request rather than trusted from the token
// payload, so a role downgrade takes effect immediately even while old tokens
// are still live.
func RequireRole(users ports.AuthRepository, log zerolog.Logger, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	requiredLabel := strings.Join(allowedRoles, ",")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					// Token subject no longer exists; the assertion is dead.
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				return err
			}

			if _, ok := allowed[user.Role]; !ok {
				metrics.ForbiddenRequestsTotal.WithLabelValues(requiredLabel).Inc()
				// Security-relevant event, logged distinctly from ordinary 403s.
				log.Warn().
					Str("event", "role_check_denied").
					Str("user_id", user.ID).
					Str("username", user.Username).
					Str("role", user.Role).
					Str("path", c.Path()).
					Msg("insufficient role for privileged operation")
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}

			return next(c)
		}
	}
}

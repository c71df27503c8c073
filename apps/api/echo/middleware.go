package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core/redirect"
)

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// staffMiddleware lets editors & admins through.
func staffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsStaff() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// redirectMiddleware permanently redirects requests made on legacy hosts to the canonical host.
func redirectMiddleware(rules *redirect.Rules) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !rules.Enabled() {
			return next
		}
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if target, ok := rules.Target(ctx.Scheme(), req.Host, req.URL.Path, req.URL.RawQuery); ok {
				return ctx.Redirect(http.StatusMovedPermanently, target)
			}
			return next(ctx)
		}
	}
}

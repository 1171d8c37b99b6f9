package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-admin/internal/core/ports"
)

// operatorContext returns the request context tagged with the operator name
// injected by the Auth middleware, so audit entries can attribute mutations.
func operatorContext(c echo.Context) context.Context {
	ctx := c.Request().Context()
	if name, _ := c.Get("username").(string); name != "" {
		return ports.WithOperator(ctx, name)
	}
	return ctx
}

package server

import (
	"github.com/labstack/echo/v4"

	"newsight/internal/runtime"
)

// withAuth wraps a handler with mandatory JWT validation.
func withAuth(next echo.HandlerFunc, secret []byte) echo.HandlerFunc {
	return runtime.EchoAuthMiddleware(secret)(next)
}

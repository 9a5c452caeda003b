package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/handler"
	"github.com/jamhive/jam-session-booking/internal/middleware"
	"github.com/jamhive/jam-session-booking/internal/model"
)

// RegisterJammer registers jammer-scoped endpoints under /v1.  All
// routes require a valid JWT and the JAMMER role claim; the workflow
// re-resolves the stored role before acting, so the gate here is only
// a cheap first filter.
func RegisterJammer(e *echo.Echo, h *handler.JamHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleJammer),
	)

	// ---- Sessions ----
	// GET /v1/sessions (the full public listing) lives on the public
	// router; the jammer surface covers writes and personal views.
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/joinable", h.Joinable)
	g.POST("/sessions/:id/join", h.Join)
	g.GET("/sessions/hosted", h.Hosted)
	g.GET("/sessions/joined", h.Joined)
}

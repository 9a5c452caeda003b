package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/handler"
	"github.com/jamhive/jam-session-booking/internal/middleware"
	"github.com/jamhive/jam-session-booking/internal/model"
)

// RegisterOwner registers VENUE_OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and the VENUE_OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, m *handler.MediaHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleVenueOwner),
	)

	// ---- Venues ----
	g.POST("/venues", o.CreateVenue)
	g.GET("/venues/mine", o.ListMine)
	// Closing is a status transition, not a delete; the row stays.
	g.POST("/venues/:id/close", o.CloseVenue)
	// NOTE: listing open venues is handled by the public browse API at
	// GET /v1/venues/open; no owner-scoped duplicate.

	// ---- Media ----
	g.POST("/venues/:id/image", m.UploadVenueImage)
}

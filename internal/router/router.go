package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/jamhive/jam-session-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/jamhive/jam-session-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, ob *handler.OnboardingHandler, jwtSecret string) {
	// Token issuance and exchange; no existing session required.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT middleware; the handler accepts either
	// a refresh_token body or a bearer token and revokes accordingly.
	g.POST("/logout", a.Logout)

	// Protected endpoints that any authenticated account can reach, even
	// before a role is chosen.  No RequireRole here: /me and onboarding
	// must work for accounts whose role is still unset.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/onboarding/role", ob.SetRole)

	// Alias so clients can call either /v1/auth/logout or /v1/logout.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  The
// provided middlewares (response cache, rate limiter) are applied to
// the whole public surface; pass none to serve uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	// Venues currently accepting bookings.
	g.GET("/venues/open", p.GetOpenVenues)
	// All scheduled jam sessions, ordered by start time.
	g.GET("/sessions", p.GetSessions)
}

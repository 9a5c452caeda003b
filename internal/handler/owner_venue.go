package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
	"github.com/jamhive/jam-session-booking/internal/workflow"
)

// OwnerHandler bundles the dependencies venue owners need to manage
// their listings.  Role checks happen twice: the router gate rejects
// tokens without the VENUE_OWNER claim, and each write re-resolves the
// stored role so a stale claim never authorizes anything.
type OwnerHandler struct {
	Venues       *repository.VenueRepo
	Counters     *repository.CounterRepo
	Resolver     *workflow.Resolver
	Availability *workflow.Availability
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any dependency is nil
func NewOwnerHandler(venues *repository.VenueRepo, counters *repository.CounterRepo, resolver *workflow.Resolver, availability *workflow.Availability) *OwnerHandler {
	if venues == nil || counters == nil || resolver == nil || availability == nil {
		panic("nil dependency passed to NewOwnerHandler")
	}
	return &OwnerHandler{Venues: venues, Counters: counters, Resolver: resolver, Availability: availability}
}

type createVenueReq struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	PricePerHour float64  `json:"price_per_hour"`
	Instruments  []string `json:"instruments"`
	Description  string   `json:"description"`
}

// CreateVenue lists a new rehearsal space.  The venue number comes from
// the shared counter, the record starts OPEN, and ownership is pinned
// to the authenticated email.
func (h *OwnerHandler) CreateVenue(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createVenueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/location required"})
	}
	if req.PricePerHour < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_hour must be >= 0"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Resolver.ResolveRole(ctx, email)
	if err != nil {
		return bookingError(c, err)
	}
	if p.Role != model.RoleVenueOwner {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	no, err := h.Counters.Next(ctx, repository.CounterVenues)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "allocate venue number failed"})
	}
	v := model.Venue{
		VenueNo:      no,
		Name:         req.Name,
		Location:     req.Location,
		PricePerHour: req.PricePerHour,
		OwnerEmail:   p.Email,
		Instruments:  req.Instruments,
		Description:  strings.TrimSpace(req.Description),
	}
	if err := h.Venues.Create(ctx, &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	return c.JSON(http.StatusCreated, venueView(v))
}

// ListMine returns every venue the authenticated owner has listed,
// regardless of status, so BOOKED and CLOSED spaces stay visible.
func (h *OwnerHandler) ListMine(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	venues, err := h.Venues.ListByOwner(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]venueJSON, 0, len(venues))
	for _, v := range venues {
		out = append(out, venueView(v))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CloseVenue takes an OPEN venue off the listing.  BOOKED venues cannot
// be closed: the claim belongs to the session that booked them.
func (h *OwnerHandler) CloseVenue(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Resolver.ResolveRole(ctx, email)
	if err != nil {
		return bookingError(c, err)
	}
	if err := h.Availability.Close(ctx, p, id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

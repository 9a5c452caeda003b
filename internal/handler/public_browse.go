// This file defines handlers for the public browsing API.  These routes
// let unauthenticated visitors browse open venues and scheduled jam
// sessions.  Sensitive fields (owner and host emails) are filtered from
// responses.

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/repository"
	"github.com/jamhive/jam-session-booking/internal/workflow"
)

// PublicHandler aggregates read access needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
	Availability *workflow.Availability
	Sessions     *repository.SessionRepo
}

func NewPublicHandler(availability *workflow.Availability, sessions *repository.SessionRepo) *PublicHandler {
	return &PublicHandler{Availability: availability, Sessions: sessions}
}

// PublicVenue represents a venue exposed via the public API.  It
// contains only safe fields.
type PublicVenue struct {
	ID           uint64   `json:"id"`
	VenueNo      uint64   `json:"venue_no"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	PricePerHour float64  `json:"price_per_hour"`
	Instruments  []string `json:"instruments"`
	ImageURL     string   `json:"image_url,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// PublicSession represents a jam session in public list responses.
type PublicSession struct {
	ID                  uint64   `json:"id"`
	SessionNo           uint64   `json:"session_no"`
	Name                string   `json:"name"`
	ScheduledAt         string   `json:"scheduled_at"`
	Genre               string   `json:"genre"`
	RequiredInstruments []string `json:"required_instruments"`
	VenueType           string   `json:"venue_type"`
	MemberCount         uint32   `json:"member_count"`
}

// GetOpenVenues returns every venue currently accepting bookings.
// Response JSON contains an "items" array of PublicVenue.
func (h *PublicHandler) GetOpenVenues(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	venues, err := h.Availability.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicVenue, 0, len(venues))
	for _, v := range venues {
		out = append(out, PublicVenue{
			ID:           v.ID,
			VenueNo:      v.VenueNo,
			Name:         v.Name,
			Location:     v.Location,
			PricePerHour: v.PricePerHour,
			Instruments:  v.Instruments,
			ImageURL:     v.ImageURL,
			Description:  v.Description,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetSessions returns all scheduled jam sessions ordered by start time.
func (h *PublicHandler) GetSessions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, PublicSession{
			ID:                  s.ID,
			SessionNo:           s.SessionNo,
			Name:                s.Name,
			ScheduledAt:         s.ScheduledAt.UTC().Format(time.RFC3339),
			Genre:               s.Genre,
			RequiredInstruments: s.RequiredInstruments,
			VenueType:           s.VenueType,
			MemberCount:         s.MemberCount,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel comparison and helper values
	"strconv" // strconv converts strings to numeric types
	"strings" // strings provides trimming and case helpers
	"time"    // time formats timestamps in JSON views

	"net/http" // net/http provides status codes

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/jamhive/jam-session-booking/internal/model"      // model holds persisted entities
	"github.com/jamhive/jam-session-booking/internal/repository" // repository holds data access sentinels
	"github.com/jamhive/jam-session-booking/internal/workflow"   // workflow holds booking errors
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) { // begin getUserID helper
	v := c.Get("user_id")  // fetch user_id from context
	switch t := v.(type) { // perform type switch on the value
	case uint64: // when already uint64
		return t, nil // return directly
	case int: // when stored as int
		return uint64(t), nil // convert to uint64
	case int64: // when stored as int64
		return uint64(t), nil // convert to uint64
	case float64: // when stored as float64
		return uint64(t), nil // convert to uint64
	case string: // when stored as string
		if n, err := strconv.ParseUint(t, 10, 64); err == nil { // parse string to uint64
			return n, nil // return parsed number
		}
	} // end type switch
	return 0, errors.New("invalid user_id in context") // return error if value is missing or invalid
}

// principalEmail extracts the authenticated email from echo.Context.  The
// JWT middleware stores it under "email"; it is the identity key every
// workflow resolves against, so it is normalized the same way here.
func principalEmail(c echo.Context) (string, error) {
	v, ok := c.Get("email").(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", errors.New("invalid email in context")
	}
	return strings.ToLower(strings.TrimSpace(v)), nil
}

// bookingError maps workflow and repository sentinels onto HTTP responses.
// Unknown errors collapse to a 500 without leaking internals.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "unknown account"})
	case errors.Is(err, repository.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case errors.Is(err, repository.ErrVenueNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	case errors.Is(err, repository.ErrVenueUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "venue unavailable"})
	case errors.Is(err, repository.ErrAlreadyJoined):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already joined"})
	case errors.Is(err, workflow.ErrVenueRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "studio sessions require a venue"})
	case errors.Is(err, workflow.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session input"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// ----- JSON views -----

// venueJSON is the full venue representation returned to authenticated
// callers (owners see their whole inventory, jammers see open venues).
type venueJSON struct {
	ID           uint64   `json:"id"`
	VenueNo      uint64   `json:"venue_no"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	PricePerHour float64  `json:"price_per_hour"`
	OwnerEmail   string   `json:"owner_email"`
	Instruments  []string `json:"instruments"`
	Status       string   `json:"status"`
	ImageURL     string   `json:"image_url,omitempty"`
	Description  string   `json:"description,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

func venueView(v model.Venue) venueJSON {
	return venueJSON{
		ID:           v.ID,
		VenueNo:      v.VenueNo,
		Name:         v.Name,
		Location:     v.Location,
		PricePerHour: v.PricePerHour,
		OwnerEmail:   v.OwnerEmail,
		Instruments:  v.Instruments,
		Status:       v.Status,
		ImageURL:     v.ImageURL,
		Description:  v.Description,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// sessionJSON is the full session representation for authenticated callers.
type sessionJSON struct {
	ID                  uint64   `json:"id"`
	SessionNo           uint64   `json:"session_no"`
	Name                string   `json:"name"`
	ScheduledAt         string   `json:"scheduled_at"`
	Genre               string   `json:"genre"`
	RequiredInstruments []string `json:"required_instruments"`
	VenueType           string   `json:"venue_type"`
	VenueID             *uint64  `json:"venue_id,omitempty"`
	HostEmail           string   `json:"host_email"`
	Description         string   `json:"description,omitempty"`
	MemberCount         uint32   `json:"member_count"`
	CreatedAt           string   `json:"created_at"`
}

func sessionView(s model.JamSession) sessionJSON {
	return sessionJSON{
		ID:                  s.ID,
		SessionNo:           s.SessionNo,
		Name:                s.Name,
		ScheduledAt:         s.ScheduledAt.UTC().Format(time.RFC3339),
		Genre:               s.Genre,
		RequiredInstruments: s.RequiredInstruments,
		VenueType:           s.VenueType,
		VenueID:             s.VenueID,
		HostEmail:           s.HostEmail,
		Description:         s.Description,
		MemberCount:         s.MemberCount,
		CreatedAt:           s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

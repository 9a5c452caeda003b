package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jamhive/jam-session-booking/internal/queue"
	queue_publisher "github.com/jamhive/jam-session-booking/internal/service"
	"github.com/jamhive/jam-session-booking/internal/workflow"
)

// JamHandler exposes the jam session booking flows to JAMMER accounts.
// All decisions live in the workflow; the handler binds input, maps
// errors to status codes and publishes events after a flow succeeds.
type JamHandler struct {
	Flow *workflow.Workflow
}

// NewJamHandler constructs a new JamHandler and panics if the workflow is nil
func NewJamHandler(flow *workflow.Workflow) *JamHandler {
	if flow == nil {
		panic("nil workflow passed to NewJamHandler")
	}
	return &JamHandler{Flow: flow}
}

type createSessionReq struct {
	Name                string   `json:"name"`
	ScheduledAt         string   `json:"scheduled_at"` // RFC3339
	Genre               string   `json:"genre"`
	RequiredInstruments []string `json:"required_instruments"`
	VenueType           string   `json:"venue_type"` // PUBLIC | STUDIO
	VenueID             *uint64  `json:"venue_id"`
	Description         string   `json:"description"`
}

// CreateSession books a new jam.  STUDIO sessions claim their venue and
// create the session in one transaction, so a failed create never
// leaves a venue stuck BOOKED.  Validation failures echo the submitted
// form back so clients can re-render it without losing input.
func (h *JamHandler) CreateSession(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_at must be RFC3339", "form": req})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Flow.CreateSession(ctx, email, workflow.SessionInput{
		Name:                strings.TrimSpace(req.Name),
		ScheduledAt:         scheduledAt,
		Genre:               strings.TrimSpace(req.Genre),
		RequiredInstruments: req.RequiredInstruments,
		VenueType:           strings.ToUpper(strings.TrimSpace(req.VenueType)),
		VenueID:             req.VenueID,
		Description:         strings.TrimSpace(req.Description),
	})
	if err != nil {
		if err == workflow.ErrInvalidInput || err == workflow.ErrVenueRequired {
			// echo the form back alongside the error
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error(), "form": req})
		}
		return bookingError(c, err)
	}

	ev := queue.SessionCreatedEvent{
		SessionID:   s.ID,
		SessionNo:   s.SessionNo,
		Name:        s.Name,
		Genre:       s.Genre,
		VenueType:   s.VenueType,
		HostEmail:   s.HostEmail,
		Instruments: s.RequiredInstruments,
		ScheduledAt: s.ScheduledAt.UTC().Format(time.RFC3339),
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
	}
	if s.VenueID != nil {
		ev.VenueID = *s.VenueID
	}
	_ = queue_publisher.PublishSessionCreated(ctx, ev) // best effort; publisher logs failures

	return c.JSON(http.StatusCreated, sessionView(s))
}

// Joinable lists sessions the authenticated jammer can join: everything
// hosted by somebody else, decorated with venue name and location.
func (h *JamHandler) Joinable(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Flow.Joinable(ctx, email)
	if err != nil {
		return bookingError(c, err)
	}
	type joinableJSON struct {
		sessionJSON
		VenueName     string `json:"venue_name"`
		VenueLocation string `json:"venue_location"`
	}
	out := make([]joinableJSON, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, joinableJSON{
			sessionJSON:   sessionView(s.JamSession),
			VenueName:     s.VenueName,
			VenueLocation: s.VenueLocation,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Join adds the authenticated jammer to a session.  The membership
// insert and the member counter increment commit together; joining the
// same session twice is a conflict, not a double count.
func (h *JamHandler) Join(c echo.Context) error {
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

	s, m, err := h.Flow.Join(ctx, email, id)
	if err != nil {
		return bookingError(c, err)
	}

	_ = queue_publisher.PublishSessionJoined(ctx, queue.SessionJoinedEvent{
		SessionID:   s.ID,
		SessionName: s.Name,
		HostEmail:   s.HostEmail,
		MemberEmail: m.MemberEmail,
		MemberCount: s.MemberCount,
		JoinedAt:    m.JoinedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, sessionView(s))
}

// Hosted lists the sessions the authenticated jammer created, newest first.
func (h *JamHandler) Hosted(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Flow.Hosted(ctx, email)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]sessionJSON, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionView(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Joined lists the sessions the authenticated jammer is a member of.
// Memberships pointing at deleted sessions are skipped rather than
// failing the whole list.
func (h *JamHandler) Joined(c echo.Context) error {
	email, err := principalEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Flow.Joined(ctx, email)
	if err != nil {
		return bookingError(c, err)
	}
	type joinedJSON struct {
		sessionJSON
		VenueName     string `json:"venue_name"`
		VenueLocation string `json:"venue_location"`
		JoinedAt      string `json:"joined_at"`
	}
	out := make([]joinedJSON, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, joinedJSON{
			sessionJSON:   sessionView(s.JamSession),
			VenueName:     s.VenueName,
			VenueLocation: s.VenueLocation,
			JoinedAt:      s.JoinedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
)

// ErrVenueRequired is returned when a STUDIO session is created
// without selecting a venue.
var ErrVenueRequired = errors.New("studio sessions require a venue")

// ErrInvalidInput is returned when required session fields are missing.
var ErrInvalidInput = errors.New("invalid session input")

// Tx is one booking transaction against the record store.  Everything
// between Begin and Commit is atomic with respect to other callers:
// a claimed venue rolls back if the session insert fails, and a
// counter increment rolls back if the membership insert fails.
type Tx interface {
	NextNumber(ctx context.Context, name string) (uint64, error)
	ClaimVenue(ctx context.Context, venueID uint64) error
	CreateSession(ctx context.Context, s *model.JamSession) error
	Session(ctx context.Context, id uint64) (model.JamSession, error)
	MembershipExists(ctx context.Context, sessionID uint64, memberEmail string) (bool, error)
	IncrementMembers(ctx context.Context, sessionID uint64) error
	CreateMembership(ctx context.Context, m *model.JamMembership) error
	Commit() error
	Rollback() error
}

// Store opens booking transactions.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// SessionListings is the read side of the session store.
type SessionListings interface {
	GetByID(ctx context.Context, id uint64) (model.JamSession, error)
	ListAll(ctx context.Context) ([]model.JamSession, error)
	ListExcludingHost(ctx context.Context, hostEmail string) ([]model.JamSession, error)
	ListByHost(ctx context.Context, hostEmail string) ([]model.JamSession, error)
}

// MembershipListings is the read side of the membership store.
type MembershipListings interface {
	ListByMember(ctx context.Context, memberEmail string) ([]model.JamMembership, error)
}

// SessionInput carries the session creation form.
type SessionInput struct {
	Name                string
	ScheduledAt         time.Time
	Genre               string
	RequiredInstruments []string
	VenueType           string
	VenueID             *uint64
	Description         string
}

// JoinableSession is a session decorated with venue metadata for
// display.  When the referenced venue cannot be found the name and
// location degrade to "Unknown" rather than failing the whole list.
type JoinableSession struct {
	model.JamSession
	VenueName     string
	VenueLocation string
}

// JoinedSession is a session the principal is a member of, decorated
// with venue metadata and the join timestamp.
type JoinedSession struct {
	model.JamSession
	VenueName     string
	VenueLocation string
	JoinedAt      time.Time
}

// Workflow orchestrates the jam session booking flows: session
// creation with venue claiming, discovery, and joins.  It holds no
// state of its own; the record store is the single source of truth
// and every operation re-reads inside its own transaction.
type Workflow struct {
	Store    Store
	Resolver *Resolver
	Venues   VenueCatalog
	Sessions SessionListings
	Members  MembershipListings
}

// NewWorkflow constructs a Workflow and panics if any dependency is nil.
func NewWorkflow(store Store, resolver *Resolver, venues VenueCatalog, sessions SessionListings, members MembershipListings) *Workflow {
	if store == nil || resolver == nil || venues == nil || sessions == nil || members == nil {
		panic("nil dependency passed to NewWorkflow")
	}
	return &Workflow{Store: store, Resolver: resolver, Venues: venues, Sessions: sessions, Members: members}
}

// CreateSession creates a jam session on behalf of the principal
// behind email.  The role is resolved from the store and must be
// JAMMER.  For STUDIO sessions the selected venue is claimed inside
// the same transaction as the insert, so either the claim and the
// session both land or neither does.
func (w *Workflow) CreateSession(ctx context.Context, email string, in SessionInput) (model.JamSession, error) {
	p, err := w.Resolver.ResolveRole(ctx, email)
	if err != nil {
		return model.JamSession{}, err
	}
	if p.Role != model.RoleJammer {
		return model.JamSession{}, repository.ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" || in.ScheduledAt.IsZero() {
		return model.JamSession{}, ErrInvalidInput
	}
	venueType := strings.ToUpper(strings.TrimSpace(in.VenueType))
	if venueType != model.VenueTypeStudio {
		venueType = model.VenueTypePublic
	}
	if venueType == model.VenueTypeStudio && in.VenueID == nil {
		return model.JamSession{}, ErrVenueRequired
	}

	tx, err := w.Store.Begin(ctx)
	if err != nil {
		return model.JamSession{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	session := model.JamSession{
		Name:                strings.TrimSpace(in.Name),
		ScheduledAt:         in.ScheduledAt.UTC(),
		Genre:               strings.TrimSpace(in.Genre),
		RequiredInstruments: in.RequiredInstruments,
		VenueType:           venueType,
		HostEmail:           p.Email,
		Description:         strings.TrimSpace(in.Description),
	}
	if venueType == model.VenueTypeStudio {
		if err := tx.ClaimVenue(ctx, *in.VenueID); err != nil {
			return model.JamSession{}, err
		}
		session.VenueID = in.VenueID
	}
	no, err := tx.NextNumber(ctx, repository.CounterSessions)
	if err != nil {
		return model.JamSession{}, err
	}
	session.SessionNo = no
	if err := tx.CreateSession(ctx, &session); err != nil {
		return model.JamSession{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.JamSession{}, err
	}
	committed = true
	return session, nil
}

// Joinable lists sessions hosted by anyone other than the principal.
// Venue metadata is resolved per session; a missing venue degrades to
// "Unknown"/"Unknown" instead of failing the listing.
func (w *Workflow) Joinable(ctx context.Context, email string) ([]JoinableSession, error) {
	p, err := w.Resolver.ResolveRole(ctx, email)
	if err != nil {
		return nil, err
	}
	sessions, err := w.Sessions.ListExcludingHost(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	out := make([]JoinableSession, 0, len(sessions))
	for _, s := range sessions {
		js := JoinableSession{JamSession: s, VenueName: "Unknown", VenueLocation: "Unknown"}
		if s.VenueID != nil {
			if v, err := w.Venues.GetByID(ctx, *s.VenueID); err == nil {
				js.VenueName = v.Name
				js.VenueLocation = v.Location
			}
		}
		out = append(out, js)
	}
	return out, nil
}

// Join adds the principal to a session.  The dedup check, the counter
// increment and the membership insert share one transaction; the
// unique key on (session_id, member_email) backstops two joins racing
// past the check, and both resolve to repository.ErrAlreadyJoined.
func (w *Workflow) Join(ctx context.Context, email string, sessionID uint64) (model.JamSession, model.JamMembership, error) {
	p, err := w.Resolver.ResolveRole(ctx, email)
	if err != nil {
		return model.JamSession{}, model.JamMembership{}, err
	}

	tx, err := w.Store.Begin(ctx)
	if err != nil {
		return model.JamSession{}, model.JamMembership{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	session, err := tx.Session(ctx, sessionID)
	if err != nil {
		return model.JamSession{}, model.JamMembership{}, err
	}
	joined, err := tx.MembershipExists(ctx, sessionID, p.Email)
	if err != nil {
		return model.JamSession{}, model.JamMembership{}, err
	}
	if joined {
		return model.JamSession{}, model.JamMembership{}, repository.ErrAlreadyJoined
	}
	if err := tx.IncrementMembers(ctx, sessionID); err != nil {
		return model.JamSession{}, model.JamMembership{}, err
	}
	membership := model.JamMembership{
		SessionID:   sessionID,
		VenueID:     session.VenueID,
		HostEmail:   session.HostEmail,
		MemberEmail: p.Email,
		JoinedAt:    time.Now().UTC(),
	}
	if err := tx.CreateMembership(ctx, &membership); err != nil {
		return model.JamSession{}, model.JamMembership{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.JamSession{}, model.JamMembership{}, err
	}
	committed = true
	session.MemberCount++
	return session, membership, nil
}

// Hosted lists the sessions the principal hosts.
func (w *Workflow) Hosted(ctx context.Context, email string) ([]model.JamSession, error) {
	p, err := w.Resolver.ResolveRole(ctx, email)
	if err != nil {
		return nil, err
	}
	return w.Sessions.ListByHost(ctx, p.Email)
}

// Joined lists the sessions the principal is a member of, with venue
// metadata and join timestamps.  Memberships whose session row no
// longer exists are skipped rather than failing the listing.
func (w *Workflow) Joined(ctx context.Context, email string) ([]JoinedSession, error) {
	p, err := w.Resolver.ResolveRole(ctx, email)
	if err != nil {
		return nil, err
	}
	memberships, err := w.Members.ListByMember(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	out := make([]JoinedSession, 0, len(memberships))
	for _, m := range memberships {
		s, err := w.Sessions.GetByID(ctx, m.SessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		js := JoinedSession{JamSession: s, VenueName: "Unknown", VenueLocation: "Unknown", JoinedAt: m.JoinedAt}
		if s.VenueID != nil {
			if v, err := w.Venues.GetByID(ctx, *s.VenueID); err == nil {
				js.VenueName = v.Name
				js.VenueLocation = v.Location
			}
		}
		out = append(out, js)
	}
	return out, nil
}

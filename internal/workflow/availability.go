package workflow

import (
	"context"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
)

// VenueCatalog is the slice of the venue store the availability
// manager and the session listings need.  Close performs its own
// conditional status transition and ownership check.
type VenueCatalog interface {
	ListOpen(ctx context.Context) ([]model.Venue, error)
	GetByID(ctx context.Context, id uint64) (model.Venue, error)
	Close(ctx context.Context, id uint64, ownerEmail string) error
}

// Availability tracks which venues can still be claimed.  Claiming
// itself happens inside the booking transaction (see Workflow); this
// type covers the read side and the owner-driven OPEN to CLOSED
// transition.  No path returns a BOOKED venue to OPEN.
type Availability struct {
	Venues VenueCatalog
}

// NewAvailability returns an Availability manager over the catalog.
func NewAvailability(venues VenueCatalog) *Availability { return &Availability{Venues: venues} }

// ListOpen returns every venue currently claimable.
func (a *Availability) ListOpen(ctx context.Context) ([]model.Venue, error) {
	return a.Venues.ListOpen(ctx)
}

// Close takes an OPEN venue off the listing on behalf of its owner.
// The principal must hold the VENUE_OWNER role; ownership of the
// specific venue is enforced by the store.
func (a *Availability) Close(ctx context.Context, p Principal, venueID uint64) error {
	if p.Role != model.RoleVenueOwner {
		return repository.ErrForbidden
	}
	return a.Venues.Close(ctx, venueID, p.Email)
}

package model

import "time"

// Venue status values.  A venue starts OPEN, becomes BOOKED when a
// studio session claims it and CLOSED when its owner takes it off the
// listing.  There is no transition back to OPEN: claimed venues stay
// BOOKED for the lifetime of their session.
const (
	VenueOpen   = "OPEN"
	VenueBooked = "BOOKED"
	VenueClosed = "CLOSED"
)

// Venue represents a rehearsal space offered by a venue owner, as
// stored in the `venues` table.  VenueNo is a human-facing sequential
// number drawn from the counters table at creation time; it is
// distinct from the primary key.
//
// Fields:
//
//	ID           – primary key identifier.
//	VenueNo      – sequential venue number assigned at creation.
//	Name         – venue display name.
//	Location     – address or maps link.
//	PricePerHour – hourly rate in whole currency units.
//	OwnerEmail   – email of the owning VENUE_OWNER user.
//	Instruments  – instruments available on site.
//	Status       – VenueOpen, VenueBooked or VenueClosed.
//	ImageURL     – optional public URL of the venue photo.
//	Description  – free-form description.
//	CreatedAt    – timestamp of creation.
type Venue struct {
	ID           uint64    // venues.id
	VenueNo      uint64    // venues.venue_no
	Name         string    // venues.name
	Location     string    // venues.location
	PricePerHour float64   // venues.price_per_hour
	OwnerEmail   string    // venues.owner_email
	Instruments  []string  // venues.instruments (comma separated)
	Status       string    // venues.status
	ImageURL     string    // venues.image_url
	Description  string    // venues.description
	CreatedAt    time.Time // venues.created_at
}

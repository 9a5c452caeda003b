package model

import "time"

// Venue types a jam session can be scheduled against.  PUBLIC sessions
// name a free-form location and claim nothing; STUDIO sessions are tied
// to a venue record and claim it when created.
const (
	VenueTypePublic = "PUBLIC"
	VenueTypeStudio = "STUDIO"
)

// JamSession represents a scheduled jam, as stored in the
// `jam_sessions` table.  MemberCount counts the host plus everyone who
// joined; it is only ever changed through the atomic increment in the
// session repository.
//
// Fields:
//
//	ID                  – primary key identifier.
//	SessionNo           – sequential session number assigned at creation.
//	Name                – session display name.
//	ScheduledAt         – when the jam takes place.
//	Genre               – musical genre.
//	RequiredInstruments – instruments the host is looking for.
//	VenueType           – VenueTypePublic or VenueTypeStudio.
//	VenueID             – claimed venue for STUDIO sessions (nullable).
//	HostEmail           – email of the hosting JAMMER user.
//	Description         – free-form description.
//	MemberCount         – host plus joined members, always >= 1.
//	CreatedAt           – timestamp of creation.
type JamSession struct {
	ID                  uint64    // jam_sessions.id
	SessionNo           uint64    // jam_sessions.session_no
	Name                string    // jam_sessions.name
	ScheduledAt         time.Time // jam_sessions.scheduled_at
	Genre               string    // jam_sessions.genre
	RequiredInstruments []string  // jam_sessions.required_instruments (comma separated)
	VenueType           string    // jam_sessions.venue_type
	VenueID             *uint64   // jam_sessions.venue_id (nullable)
	HostEmail           string    // jam_sessions.host_email
	Description         string    // jam_sessions.description
	MemberCount         uint32    // jam_sessions.member_count
	CreatedAt           time.Time // jam_sessions.created_at
}

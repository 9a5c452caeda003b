// Package queue defines message payloads exchanged over the message broker.
package queue

// SessionCreatedEvent is published when a jam session is successfully
// created.  It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database.  VenueID is zero for PUBLIC sessions.
type SessionCreatedEvent struct {
	EventID     string   `json:"event_id"`
	SessionID   uint64   `json:"session_id"`
	SessionNo   uint64   `json:"session_no"`
	Name        string   `json:"name"`
	Genre       string   `json:"genre"`
	VenueType   string   `json:"venue_type"`
	VenueID     uint64   `json:"venue_id,omitempty"`
	HostEmail   string   `json:"host_email"`
	Instruments []string `json:"instruments"`
	ScheduledAt string   `json:"scheduled_at"`
	CreatedAt   string   `json:"created_at"`
}

// SessionJoinedEvent is published when a member joins a jam session.
// MemberCount is the count after the join landed.
type SessionJoinedEvent struct {
	EventID     string `json:"event_id"`
	SessionID   uint64 `json:"session_id"`
	SessionName string `json:"session_name"`
	HostEmail   string `json:"host_email"`
	MemberEmail string `json:"member_email"`
	MemberCount uint32 `json:"member_count"`
	JoinedAt    string `json:"joined_at"`
}

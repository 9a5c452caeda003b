package model

import "time"

// JamMembership records that a user joined a jam session, as stored in
// the `jam_members` table.  Rows are immutable and never deleted in any
// flow; the (SessionID, MemberEmail) pair is unique at the store level.
//
// Fields:
//
//	ID          – primary key identifier.
//	SessionID   – joined jam session.
//	VenueID     – venue of the session at join time (nullable).
//	HostEmail   – host of the session at join time.
//	MemberEmail – email of the joining user.
//	JoinedAt    – timestamp of the join.
type JamMembership struct {
	ID          uint64    // jam_members.id
	SessionID   uint64    // jam_members.session_id
	VenueID     *uint64   // jam_members.venue_id (nullable)
	HostEmail   string    // jam_members.host_email
	MemberEmail string    // jam_members.member_email
	JoinedAt    time.Time // jam_members.joined_at
}

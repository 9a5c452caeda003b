package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jamhive/jam-session-booking/internal/model"
)

// MembershipRepo provides access to the jam_members table.  Membership
// rows are immutable and never deleted; the unique key on
// (session_id, member_email) is the store-level backstop behind the
// workflow's dedup check.
type MembershipRepo struct {
	db *sql.DB
}

// NewMembershipRepo returns a new MembershipRepo bound to the given database.
func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{db: db} }

// ExistsTx reports whether a membership already exists for the given
// session and member email, within the provided transaction.
func (r *MembershipRepo) ExistsTx(ctx context.Context, tx *sql.Tx, sessionID uint64, memberEmail string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM jam_members WHERE session_id = ? AND member_email = ? LIMIT 1`,
		sessionID, memberEmail,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a membership within the provided transaction and
// populates the generated ID.  A duplicate-key error from the unique
// (session_id, member_email) index is mapped to ErrAlreadyJoined so
// that two joins racing past the dedup check resolve to the same
// outcome a sequential second join would see.
func (r *MembershipRepo) CreateTx(ctx context.Context, tx *sql.Tx, m *model.JamMembership) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO jam_members (session_id, venue_id, host_email, member_email) VALUES (?, ?, ?, ?)`,
		m.SessionID, nullableID(m.VenueID), m.HostEmail, m.MemberEmail,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyJoined
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListByMember returns all memberships for the given member email,
// most recent join first.
func (r *MembershipRepo) ListByMember(ctx context.Context, memberEmail string) ([]model.JamMembership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, venue_id, host_email, member_email, joined_at
         FROM jam_members WHERE member_email = ? ORDER BY joined_at DESC`,
		memberEmail,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]model.JamMembership, 0)
	for rows.Next() {
		var m model.JamMembership
		var venueID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.SessionID, &venueID, &m.HostEmail, &m.MemberEmail, &m.JoinedAt); err != nil {
			return nil, err
		}
		if venueID.Valid {
			vid := uint64(venueID.Int64)
			m.VenueID = &vid
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// CountBySession returns the number of membership rows for a session.
// Used to verify the at-rest invariant member_count == 1 + memberships.
func (r *MembershipRepo) CountBySession(ctx context.Context, sessionID uint64) (uint32, error) {
	var n uint32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jam_members WHERE session_id = ?`, sessionID,
	).Scan(&n)
	return n, err
}

package repository

import (
	"context"
	"database/sql"

	"github.com/jamhive/jam-session-booking/internal/model"
)

// SessionRepo provides CRUD operations for jam sessions.  Rows are
// written once at creation; the only later mutation is the member
// counter, which is incremented in place by the database rather than
// read, added to and written back.  All timestamp fields are assumed
// to be stored in UTC.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionCols = `id, session_no, name, scheduled_at, genre, required_instruments, venue_type, venue_id, host_email, description, member_count, created_at`

// CreateTx inserts a new jam session within the scope of an existing
// transaction and populates the generated ID on the provided record.
// MemberCount starts at 1 for the host.  The caller must commit or
// rollback the transaction.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.JamSession) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO jam_sessions (session_no, name, scheduled_at, genre, required_instruments, venue_type, venue_id, host_email, description, member_count)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		s.SessionNo, s.Name, s.ScheduledAt.UTC(), s.Genre, joinList(s.RequiredInstruments),
		s.VenueType, nullableID(s.VenueID), s.HostEmail, s.Description,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.MemberCount = 1
	return nil
}

// GetByID returns a single session or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.JamSession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM jam_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return model.JamSession{}, ErrSessionNotFound
	}
	return s, err
}

// GetByIDTx is GetByID within an existing transaction.
func (r *SessionRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.JamSession, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM jam_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return model.JamSession{}, ErrSessionNotFound
	}
	return s, err
}

// ListAll returns every session ordered by scheduled time, soonest
// first.  This backs the public browse listing.
func (r *SessionRepo) ListAll(ctx context.Context) ([]model.JamSession, error) {
	return r.list(ctx, `SELECT `+sessionCols+` FROM jam_sessions ORDER BY scheduled_at`)
}

// ListExcludingHost returns sessions hosted by anyone other than the
// given email, soonest first.  Backed by the self-exclusion rule of
// the joinable listing.
func (r *SessionRepo) ListExcludingHost(ctx context.Context, hostEmail string) ([]model.JamSession, error) {
	return r.list(ctx, `SELECT `+sessionCols+` FROM jam_sessions WHERE host_email != ? ORDER BY scheduled_at`, hostEmail)
}

// ListByHost returns sessions hosted by the given email, newest first.
func (r *SessionRepo) ListByHost(ctx context.Context, hostEmail string) ([]model.JamSession, error) {
	return r.list(ctx, `SELECT `+sessionCols+` FROM jam_sessions WHERE host_email = ? ORDER BY created_at DESC`, hostEmail)
}

// IncrementMembersTx bumps member_count by one in a single statement
// within the provided transaction.  The increment happens inside the
// database, so two concurrent joins each land their own +1 and no
// update is lost.
func (r *SessionRepo) IncrementMembersTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE jam_sessions SET member_count = member_count + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.JamSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]model.JamSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func scanSession(row rowScanner) (model.JamSession, error) {
	var s model.JamSession
	var instruments string
	var venueID sql.NullInt64
	err := row.Scan(
		&s.ID, &s.SessionNo, &s.Name, &s.ScheduledAt, &s.Genre, &instruments,
		&s.VenueType, &venueID, &s.HostEmail, &s.Description, &s.MemberCount,
		&s.CreatedAt,
	)
	if err != nil {
		return model.JamSession{}, err
	}
	s.RequiredInstruments = splitList(instruments)
	if venueID.Valid {
		vid := uint64(venueID.Int64)
		s.VenueID = &vid
	}
	return s, nil
}

func nullableID(id *uint64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

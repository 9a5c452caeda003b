package workflow

import (
	"context"
	"database/sql"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
)

// SQLStore implements Store over the MySQL repositories.  Each Begin
// opens one database transaction; the Tx methods delegate to the
// repositories' Tx variants so the conditional venue claim, the
// counter allocation and the member-count increment all run on the
// same connection.
type SQLStore struct {
	DB       *sql.DB
	Venues   *repository.VenueRepo
	Sessions *repository.SessionRepo
	Members  *repository.MembershipRepo
	Counters *repository.CounterRepo
}

// NewSQLStore constructs a SQLStore and panics if any dependency is nil.
func NewSQLStore(db *sql.DB, venues *repository.VenueRepo, sessions *repository.SessionRepo, members *repository.MembershipRepo, counters *repository.CounterRepo) *SQLStore {
	if db == nil || venues == nil || sessions == nil || members == nil || counters == nil {
		panic("nil dependency passed to NewSQLStore")
	}
	return &SQLStore{DB: db, Venues: venues, Sessions: sessions, Members: members, Counters: counters}
}

// Begin opens a booking transaction.
func (s *SQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx, store: s}, nil
}

type sqlTx struct {
	tx    *sql.Tx
	store *SQLStore
}

func (t *sqlTx) NextNumber(ctx context.Context, name string) (uint64, error) {
	return t.store.Counters.NextTx(ctx, t.tx, name)
}

func (t *sqlTx) ClaimVenue(ctx context.Context, venueID uint64) error {
	return t.store.Venues.ClaimTx(ctx, t.tx, venueID)
}

func (t *sqlTx) CreateSession(ctx context.Context, s *model.JamSession) error {
	return t.store.Sessions.CreateTx(ctx, t.tx, s)
}

func (t *sqlTx) Session(ctx context.Context, id uint64) (model.JamSession, error) {
	return t.store.Sessions.GetByIDTx(ctx, t.tx, id)
}

func (t *sqlTx) MembershipExists(ctx context.Context, sessionID uint64, memberEmail string) (bool, error) {
	return t.store.Members.ExistsTx(ctx, t.tx, sessionID, memberEmail)
}

func (t *sqlTx) IncrementMembers(ctx context.Context, sessionID uint64) error {
	return t.store.Sessions.IncrementMembersTx(ctx, t.tx, sessionID)
}

func (t *sqlTx) CreateMembership(ctx context.Context, m *model.JamMembership) error {
	return t.store.Members.CreateTx(ctx, t.tx, m)
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }

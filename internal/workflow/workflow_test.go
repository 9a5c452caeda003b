package workflow

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
)

// fakeStore is an in-memory Store.  Transactions stage their writes and
// apply them on Commit, so rollback behavior is observable from the
// state left behind.
type fakeStore struct {
	venues      map[uint64]*model.Venue
	sessions    map[uint64]*model.JamSession
	memberships []model.JamMembership
	counters    map[string]uint64
	nextID      uint64

	begun      int
	committed  int
	rolledBack int

	failCreateSession bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		venues:   map[uint64]*model.Venue{},
		sessions: map[uint64]*model.JamSession{},
		counters: map[string]uint64{},
	}
}

func (s *fakeStore) addVenue(v model.Venue) *model.Venue {
	s.venues[v.ID] = &v
	return s.venues[v.ID]
}

func (s *fakeStore) addSession(sess model.JamSession) *model.JamSession {
	s.sessions[sess.ID] = &sess
	return s.sessions[sess.ID]
}

func (s *fakeStore) Begin(ctx context.Context) (Tx, error) {
	s.begun++
	return &fakeTx{store: s, claimed: map[uint64]bool{}, incremented: map[uint64]uint32{}}, nil
}

// fakeTx stages mutations against the backing fakeStore.
type fakeTx struct {
	store       *fakeStore
	claimed     map[uint64]bool
	incremented map[uint64]uint32
	newSessions []*model.JamSession
	newMembers  []model.JamMembership
	done        bool
}

func (t *fakeTx) NextNumber(ctx context.Context, name string) (uint64, error) {
	t.store.counters[name]++
	return t.store.counters[name], nil
}

func (t *fakeTx) ClaimVenue(ctx context.Context, venueID uint64) error {
	v, ok := t.store.venues[venueID]
	if !ok {
		return repository.ErrVenueNotFound
	}
	if v.Status != model.VenueOpen {
		return repository.ErrVenueUnavailable
	}
	t.claimed[venueID] = true
	return nil
}

func (t *fakeTx) CreateSession(ctx context.Context, s *model.JamSession) error {
	if t.store.failCreateSession {
		return errors.New("insert failed")
	}
	t.store.nextID++
	s.ID = t.store.nextID
	s.MemberCount = 1
	t.newSessions = append(t.newSessions, s)
	return nil
}

func (t *fakeTx) Session(ctx context.Context, id uint64) (model.JamSession, error) {
	s, ok := t.store.sessions[id]
	if !ok {
		return model.JamSession{}, repository.ErrSessionNotFound
	}
	return *s, nil
}

func (t *fakeTx) MembershipExists(ctx context.Context, sessionID uint64, memberEmail string) (bool, error) {
	for _, m := range t.store.memberships {
		if m.SessionID == sessionID && m.MemberEmail == memberEmail {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) IncrementMembers(ctx context.Context, sessionID uint64) error {
	if _, ok := t.store.sessions[sessionID]; !ok {
		return repository.ErrSessionNotFound
	}
	t.incremented[sessionID]++
	return nil
}

func (t *fakeTx) CreateMembership(ctx context.Context, m *model.JamMembership) error {
	t.newMembers = append(t.newMembers, *m)
	return nil
}

func (t *fakeTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	t.store.committed++
	for id := range t.claimed {
		t.store.venues[id].Status = model.VenueBooked
	}
	for _, s := range t.newSessions {
		copied := *s
		t.store.sessions[s.ID] = &copied
	}
	for id, n := range t.incremented {
		t.store.sessions[id].MemberCount += n
	}
	t.store.memberships = append(t.store.memberships, t.newMembers...)
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.rolledBack++
	return nil
}

// fakeDirectory serves user records by email.
type fakeDirectory struct {
	users map[string]model.User
}

func (d *fakeDirectory) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, ok := d.users[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

// fakeCatalog serves venue reads from the fake store.
type fakeCatalog struct {
	store *fakeStore
}

func (c *fakeCatalog) ListOpen(ctx context.Context) ([]model.Venue, error) {
	var out []model.Venue
	for _, v := range c.store.venues {
		if v.Status == model.VenueOpen {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
	v, ok := c.store.venues[id]
	if !ok {
		return model.Venue{}, repository.ErrVenueNotFound
	}
	return *v, nil
}

func (c *fakeCatalog) Close(ctx context.Context, id uint64, ownerEmail string) error {
	v, ok := c.store.venues[id]
	if !ok {
		return repository.ErrVenueNotFound
	}
	if v.OwnerEmail != ownerEmail {
		return repository.ErrForbidden
	}
	if v.Status != model.VenueOpen {
		return repository.ErrVenueUnavailable
	}
	v.Status = model.VenueClosed
	return nil
}

// fakeSessions serves session reads from the fake store.
type fakeSessions struct {
	store *fakeStore
}

func (f *fakeSessions) GetByID(ctx context.Context, id uint64) (model.JamSession, error) {
	s, ok := f.store.sessions[id]
	if !ok {
		return model.JamSession{}, repository.ErrSessionNotFound
	}
	return *s, nil
}

func (f *fakeSessions) ListAll(ctx context.Context) ([]model.JamSession, error) {
	var out []model.JamSession
	for _, s := range f.store.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSessions) ListExcludingHost(ctx context.Context, hostEmail string) ([]model.JamSession, error) {
	var out []model.JamSession
	for _, s := range f.store.sessions {
		if s.HostEmail != hostEmail {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessions) ListByHost(ctx context.Context, hostEmail string) ([]model.JamSession, error) {
	var out []model.JamSession
	for _, s := range f.store.sessions {
		if s.HostEmail == hostEmail {
			out = append(out, *s)
		}
	}
	return out, nil
}

// fakeMembers serves membership reads from the fake store.
type fakeMembers struct {
	store *fakeStore
}

func (f *fakeMembers) ListByMember(ctx context.Context, memberEmail string) ([]model.JamMembership, error) {
	var out []model.JamMembership
	for _, m := range f.store.memberships {
		if m.MemberEmail == memberEmail {
			out = append(out, m)
		}
	}
	return out, nil
}

func newTestWorkflow(store *fakeStore, users map[string]model.User) *Workflow {
	return NewWorkflow(
		store,
		NewResolver(&fakeDirectory{users: users}),
		&fakeCatalog{store: store},
		&fakeSessions{store: store},
		&fakeMembers{store: store},
	)
}

func jammer(id uint64, email string) model.User {
	return model.User{ID: id, Name: "user", Email: email, Role: model.RoleJammer}
}

func TestCreateSessionRequiresJammerRole(t *testing.T) {
	store := newFakeStore()
	w := newTestWorkflow(store, map[string]model.User{
		"owner@x.io": {ID: 1, Email: "owner@x.io", Role: model.RoleVenueOwner},
	})

	_, err := w.CreateSession(context.Background(), "owner@x.io", SessionInput{
		Name:        "blues night",
		ScheduledAt: time.Now(),
	})
	if !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.begun != 0 {
		t.Fatalf("no transaction should start for a denied principal, got %d", store.begun)
	}
}

func TestCreateSessionUnknownAccount(t *testing.T) {
	store := newFakeStore()
	w := newTestWorkflow(store, map[string]model.User{})

	_, err := w.CreateSession(context.Background(), "ghost@x.io", SessionInput{
		Name:        "blues night",
		ScheduledAt: time.Now(),
	})
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateSessionRejectsMissingFields(t *testing.T) {
	store := newFakeStore()
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	if _, err := w.CreateSession(context.Background(), "a@x.io", SessionInput{ScheduledAt: time.Now()}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := w.CreateSession(context.Background(), "a@x.io", SessionInput{Name: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing time: expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateStudioSessionRequiresVenue(t *testing.T) {
	store := newFakeStore()
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	_, err := w.CreateSession(context.Background(), "a@x.io", SessionInput{
		Name:        "metal jam",
		ScheduledAt: time.Now(),
		VenueType:   model.VenueTypeStudio,
	})
	if !errors.Is(err, ErrVenueRequired) {
		t.Fatalf("expected ErrVenueRequired, got %v", err)
	}
}

func TestCreateStudioSessionClaimsVenue(t *testing.T) {
	store := newFakeStore()
	store.addVenue(model.Venue{ID: 7, Name: "Loud Room", Status: model.VenueOpen, OwnerEmail: "owner@x.io"})
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	venueID := uint64(7)
	s, err := w.CreateSession(context.Background(), "a@x.io", SessionInput{
		Name:        "metal jam",
		ScheduledAt: time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC),
		Genre:       "metal",
		VenueType:   model.VenueTypeStudio,
		VenueID:     &venueID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if s.SessionNo != 1 {
		t.Fatalf("expected session number 1, got %d", s.SessionNo)
	}
	if s.VenueID == nil || *s.VenueID != 7 {
		t.Fatalf("expected venue 7 on session, got %v", s.VenueID)
	}
	if s.MemberCount != 1 {
		t.Fatalf("host should count as first member, got %d", s.MemberCount)
	}
	if got := store.venues[7].Status; got != model.VenueBooked {
		t.Fatalf("venue should be BOOKED after claim, got %s", got)
	}
	if store.committed != 1 || store.rolledBack != 0 {
		t.Fatalf("expected one committed transaction, got commits=%d rollbacks=%d", store.committed, store.rolledBack)
	}
}

func TestCreateStudioSessionClaimConflict(t *testing.T) {
	store := newFakeStore()
	store.addVenue(model.Venue{ID: 7, Status: model.VenueBooked})
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	venueID := uint64(7)
	_, err := w.CreateSession(context.Background(), "a@x.io", SessionInput{
		Name:        "metal jam",
		ScheduledAt: time.Now(),
		VenueType:   model.VenueTypeStudio,
		VenueID:     &venueID,
	})
	if !errors.Is(err, repository.ErrVenueUnavailable) {
		t.Fatalf("expected ErrVenueUnavailable, got %v", err)
	}
	if store.rolledBack != 1 {
		t.Fatalf("failed claim must roll back, got %d rollbacks", store.rolledBack)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("no session should exist after a failed claim")
	}
}

func TestCreateStudioSessionInsertFailureReleasesClaim(t *testing.T) {
	store := newFakeStore()
	store.addVenue(model.Venue{ID: 7, Status: model.VenueOpen})
	store.failCreateSession = true
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	venueID := uint64(7)
	_, err := w.CreateSession(context.Background(), "a@x.io", SessionInput{
		Name:        "metal jam",
		ScheduledAt: time.Now(),
		VenueType:   model.VenueTypeStudio,
		VenueID:     &venueID,
	})
	if err == nil {
		t.Fatal("expected insert failure")
	}
	if got := store.venues[7].Status; got != model.VenueOpen {
		t.Fatalf("venue must stay OPEN when the insert fails, got %s", got)
	}
	if store.rolledBack != 1 {
		t.Fatalf("expected rollback, got %d", store.rolledBack)
	}
}

func TestCreatePublicSessionIgnoresVenueType(t *testing.T) {
	store := newFakeStore()
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	s, err := w.CreateSession(context.Background(), "a@x.io", SessionInput{
		Name:        "park jam",
		ScheduledAt: time.Now(),
		VenueType:   "garage", // unknown types normalize to PUBLIC
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if s.VenueType != model.VenueTypePublic {
		t.Fatalf("expected PUBLIC, got %s", s.VenueType)
	}
	if s.VenueID != nil {
		t.Fatalf("public sessions should not reference a venue")
	}
}

func TestJoinableExcludesOwnSessions(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.JamSession{ID: 1, Name: "mine", HostEmail: "a@x.io"})
	store.addSession(model.JamSession{ID: 2, Name: "theirs", HostEmail: "b@x.io"})
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	out, err := w.Joinable(context.Background(), "a@x.io")
	if err != nil {
		t.Fatalf("joinable failed: %v", err)
	}
	if len(out) != 1 || out[0].Name != "theirs" {
		t.Fatalf("expected only the other host's session, got %+v", out)
	}
}

func TestJoinableUnknownVenueFallback(t *testing.T) {
	store := newFakeStore()
	missing := uint64(99)
	store.addSession(model.JamSession{ID: 1, Name: "theirs", HostEmail: "b@x.io", VenueID: &missing})
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	out, err := w.Joinable(context.Background(), "a@x.io")
	if err != nil {
		t.Fatalf("joinable failed: %v", err)
	}
	if out[0].VenueName != "Unknown" || out[0].VenueLocation != "Unknown" {
		t.Fatalf("missing venue should degrade to Unknown, got %q/%q", out[0].VenueName, out[0].VenueLocation)
	}
}

func TestJoinIncrementsAndRecordsMembership(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.JamSession{ID: 5, Name: "funk", HostEmail: "host@x.io", MemberCount: 1})
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(2, "a@x.io")})

	s, m, err := w.Join(context.Background(), "a@x.io", 5)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if s.MemberCount != 2 {
		t.Fatalf("expected member count 2, got %d", s.MemberCount)
	}
	if m.MemberEmail != "a@x.io" || m.SessionID != 5 || m.HostEmail != "host@x.io" {
		t.Fatalf("membership not captured correctly: %+v", m)
	}
	if m.JoinedAt.IsZero() {
		t.Fatal("join timestamp must be set")
	}
	if got := store.sessions[5].MemberCount; got != 2 {
		t.Fatalf("stored count should be 2, got %d", got)
	}
}

func TestJoinTwiceConflictsWithoutDoubleCount(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.JamSession{ID: 5, HostEmail: "host@x.io", MemberCount: 1})
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(2, "a@x.io")})

	if _, _, err := w.Join(context.Background(), "a@x.io", 5); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	_, _, err := w.Join(context.Background(), "a@x.io", 5)
	if !errors.Is(err, repository.ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
	if got := store.sessions[5].MemberCount; got != 2 {
		t.Fatalf("second join must not change the count, got %d", got)
	}
	if len(store.memberships) != 1 {
		t.Fatalf("expected a single membership row, got %d", len(store.memberships))
	}
}

func TestJoinMissingSession(t *testing.T) {
	store := newFakeStore()
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(2, "a@x.io")})

	_, _, err := w.Join(context.Background(), "a@x.io", 404)
	if !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestJoinedSkipsDeletedSessions(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.JamSession{ID: 1, Name: "alive", HostEmail: "b@x.io"})
	store.memberships = append(store.memberships,
		model.JamMembership{ID: 1, SessionID: 1, MemberEmail: "a@x.io", JoinedAt: time.Now()},
		model.JamMembership{ID: 2, SessionID: 99, MemberEmail: "a@x.io", JoinedAt: time.Now()}, // session gone
	)
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(2, "a@x.io")})

	out, err := w.Joined(context.Background(), "a@x.io")
	if err != nil {
		t.Fatalf("joined failed: %v", err)
	}
	if len(out) != 1 || out[0].Name != "alive" {
		t.Fatalf("dangling membership should be skipped, got %+v", out)
	}
}

func TestHostedListsOnlyOwnSessions(t *testing.T) {
	store := newFakeStore()
	store.addSession(model.JamSession{ID: 1, Name: "mine", HostEmail: "a@x.io"})
	store.addSession(model.JamSession{ID: 2, Name: "theirs", HostEmail: "b@x.io"})
	w := newTestWorkflow(store, map[string]model.User{"a@x.io": jammer(1, "a@x.io")})

	out, err := w.Hosted(context.Background(), "a@x.io")
	if err != nil {
		t.Fatalf("hosted failed: %v", err)
	}
	if len(out) != 1 || out[0].Name != "mine" {
		t.Fatalf("expected only own sessions, got %+v", out)
	}
}

package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jamhive/jam-session-booking/internal/model"
)

// VenueRepo provides CRUD operations for venues.  Venue status is the
// only multi-writer field in the table and is never changed by a plain
// read-then-write: every transition goes through a conditional UPDATE
// whose WHERE clause names the expected current status, so racing
// writers cannot both succeed.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

const venueCols = `id, venue_no, name, location, price_per_hour, owner_email, instruments, status, image_url, description, created_at`

// Create inserts a new venue with status OPEN and populates the
// generated ID on the provided record.  VenueNo must already be
// allocated from the counters table by the caller.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO venues (venue_no, name, location, price_per_hour, owner_email, instruments, status, image_url, description)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VenueNo, v.Name, v.Location, v.PricePerHour, v.OwnerEmail,
		joinList(v.Instruments), model.VenueOpen, v.ImageURL, v.Description,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	v.Status = model.VenueOpen
	return nil
}

// GetByID returns a single venue or ErrVenueNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+venueCols+` FROM venues WHERE id = ?`, id)
	v, err := scanVenue(row)
	if err == sql.ErrNoRows {
		return model.Venue{}, ErrVenueNotFound
	}
	return v, err
}

// ListOpen returns all venues whose status is OPEN, oldest first.
func (r *VenueRepo) ListOpen(ctx context.Context) ([]model.Venue, error) {
	return r.list(ctx, `SELECT `+venueCols+` FROM venues WHERE status = ? ORDER BY id`, model.VenueOpen)
}

// ListByOwner returns all venues owned by the given email, oldest first.
func (r *VenueRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]model.Venue, error) {
	return r.list(ctx, `SELECT `+venueCols+` FROM venues WHERE owner_email = ? ORDER BY id`, ownerEmail)
}

// ClaimTx transitions a venue from OPEN to BOOKED within the provided
// transaction.  The status predicate in the WHERE clause makes the
// claim a compare-and-swap: with two concurrent claims on the same
// venue, at most one statement affects a row.  When zero rows are
// affected the venue is re-read to tell a missing venue apart from a
// lost race.
func (r *VenueRepo) ClaimTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE venues SET status = ? WHERE id = ? AND status = ?`,
		model.VenueBooked, id, model.VenueOpen,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM venues WHERE id = ?`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrVenueNotFound
		}
		if err != nil {
			return err
		}
		return ErrVenueUnavailable
	}
	return nil
}

// Close transitions a venue from OPEN to CLOSED on behalf of its
// owner.  Returns ErrForbidden when the venue belongs to someone else
// and ErrVenueUnavailable when the venue is not OPEN (a BOOKED venue
// stays attached to its session and cannot be closed underneath it).
func (r *VenueRepo) Close(ctx context.Context, id uint64, ownerEmail string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE venues SET status = ? WHERE id = ? AND owner_email = ? AND status = ?`,
		model.VenueClosed, id, ownerEmail, model.VenueOpen,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var owner, status string
		err := r.db.QueryRowContext(ctx, `SELECT owner_email, status FROM venues WHERE id = ?`, id).Scan(&owner, &status)
		if err == sql.ErrNoRows {
			return ErrVenueNotFound
		}
		if err != nil {
			return err
		}
		if owner != ownerEmail {
			return ErrForbidden
		}
		return ErrVenueUnavailable
	}
	return nil
}

// SetImageURL records the public URL of an uploaded venue photo.  Only
// the owner may change it.
func (r *VenueRepo) SetImageURL(ctx context.Context, id uint64, ownerEmail, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE venues SET image_url = ? WHERE id = ? AND owner_email = ?`,
		url, id, ownerEmail,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var owner string
		err := r.db.QueryRowContext(ctx, `SELECT owner_email FROM venues WHERE id = ?`, id).Scan(&owner)
		if err == sql.ErrNoRows {
			return ErrVenueNotFound
		}
		if err != nil {
			return err
		}
		if owner != ownerEmail {
			return ErrForbidden
		}
		// URL unchanged; nothing to do.
	}
	return nil
}

func (r *VenueRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	venues := make([]model.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return venues, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVenue(row rowScanner) (model.Venue, error) {
	var v model.Venue
	var instruments string
	var imageURL sql.NullString
	err := row.Scan(
		&v.ID, &v.VenueNo, &v.Name, &v.Location, &v.PricePerHour,
		&v.OwnerEmail, &instruments, &v.Status, &imageURL, &v.Description,
		&v.CreatedAt,
	)
	if err != nil {
		return model.Venue{}, err
	}
	v.Instruments = splitList(instruments)
	if imageURL.Valid {
		v.ImageURL = imageURL.String
	}
	return v, nil
}

// joinList serializes a string set into the comma separated form used
// by the instruments columns.
func joinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			cleaned = append(cleaned, it)
		}
	}
	return strings.Join(cleaned, ",")
}

// splitList parses the comma separated instruments form back into a
// slice, dropping empty entries.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

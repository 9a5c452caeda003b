package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/jamhive/jam-session-booking/internal/model"
	"github.com/jamhive/jam-session-booking/internal/repository"
)

func TestCloseRequiresOwnerRole(t *testing.T) {
	store := newFakeStore()
	store.addVenue(model.Venue{ID: 1, Status: model.VenueOpen, OwnerEmail: "o@x.io"})
	a := NewAvailability(&fakeCatalog{store: store})

	err := a.Close(context.Background(), Principal{Email: "a@x.io", Role: model.RoleJammer}, 1)
	if !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for jammer, got %v", err)
	}
	if store.venues[1].Status != model.VenueOpen {
		t.Fatal("venue must stay OPEN after a denied close")
	}
}

func TestCloseEnforcesOwnership(t *testing.T) {
	store := newFakeStore()
	store.addVenue(model.Venue{ID: 1, Status: model.VenueOpen, OwnerEmail: "o@x.io"})
	a := NewAvailability(&fakeCatalog{store: store})

	err := a.Close(context.Background(), Principal{Email: "other@x.io", Role: model.RoleVenueOwner}, 1)
	if !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
}

func TestCloseBookedVenueConflicts(t *testing.T) {
	store := newFakeStore()
	store.addVenue(model.Venue{ID: 1, Status: model.VenueBooked, OwnerEmail: "o@x.io"})
	a := NewAvailability(&fakeCatalog{store: store})

	err := a.Close(context.Background(), Principal{Email: "o@x.io", Role: model.RoleVenueOwner}, 1)
	if !errors.Is(err, repository.ErrVenueUnavailable) {
		t.Fatalf("expected ErrVenueUnavailable, got %v", err)
	}
	if store.venues[1].Status != model.VenueBooked {
		t.Fatal("booked venue must keep its claim")
	}
}

func TestCloseOpenVenue(t *testing.T) {
	store := newFakeStore()
	store.addVenue(model.Venue{ID: 1, Status: model.VenueOpen, OwnerEmail: "o@x.io"})
	a := NewAvailability(&fakeCatalog{store: store})

	if err := a.Close(context.Background(), Principal{Email: "o@x.io", Role: model.RoleVenueOwner}, 1); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if store.venues[1].Status != model.VenueClosed {
		t.Fatalf("expected CLOSED, got %s", store.venues[1].Status)
	}
}

func TestListOpenFiltersStatus(t *testing.T) {
	store := newFakeStore()
	store.addVenue(model.Venue{ID: 1, Status: model.VenueOpen})
	store.addVenue(model.Venue{ID: 2, Status: model.VenueBooked})
	store.addVenue(model.Venue{ID: 3, Status: model.VenueClosed})
	a := NewAvailability(&fakeCatalog{store: store})

	out, err := a.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("expected only the OPEN venue, got %+v", out)
	}
}

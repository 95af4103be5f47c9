package store

import (
	"context"
	"testing"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

func TestCreatePhoto_Ungrouped(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")

	p, err := s.CreatePhoto(ctx, ledger.Photo{
		SiteID:  site.ID,
		Ref:     "photos/slab.jpg",
		Caption: "slab work",
	})
	if err != nil {
		t.Fatalf("CreatePhoto failed: %v", err)
	}
	if p.GroupID != "" {
		t.Errorf("GroupID = %q, want empty for ungrouped photo", p.GroupID)
	}

	photos, err := s.ListPhotos(ctx, site.ID)
	if err != nil {
		t.Fatalf("ListPhotos failed: %v", err)
	}
	if len(photos) != 1 || photos[0].GroupID != "" {
		t.Errorf("photos = %+v, want one ungrouped photo", photos)
	}
}

func TestCreatePhoto_EmptyRef(t *testing.T) {
	s := createTestStore(t)
	site := createSite(t, s, "Site")

	_, err := s.CreatePhoto(context.Background(), ledger.Photo{SiteID: site.ID})
	if !ledger.IsConstraintViolation(err) {
		t.Errorf("expected constraint violation for empty ref, got %v", err)
	}
}

func TestCreatePhoto_UnknownGroup(t *testing.T) {
	s := createTestStore(t)
	site := createSite(t, s, "Site")

	_, err := s.CreatePhoto(context.Background(), ledger.Photo{
		SiteID:  site.ID,
		GroupID: "missing",
		Ref:     "photos/slab.jpg",
	})
	if !ledger.IsConstraintViolation(err) {
		t.Errorf("expected constraint violation for unknown group, got %v", err)
	}
}

func TestCreatePhotoGroup_EmptyName(t *testing.T) {
	s := createTestStore(t)
	site := createSite(t, s, "Site")

	_, err := s.CreatePhotoGroup(context.Background(), ledger.PhotoGroup{SiteID: site.ID, Name: "   "})
	if !ledger.IsConstraintViolation(err) {
		t.Errorf("expected constraint violation for blank name, got %v", err)
	}
}

func TestDeletePhoto(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	site := createSite(t, s, "Site")

	p, err := s.CreatePhoto(ctx, ledger.Photo{SiteID: site.ID, Ref: "photos/a.jpg"})
	if err != nil {
		t.Fatalf("CreatePhoto failed: %v", err)
	}

	if err := s.DeletePhoto(ctx, p.ID); err != nil {
		t.Fatalf("DeletePhoto failed: %v", err)
	}
	if err := s.DeletePhoto(ctx, p.ID); !ledger.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND on second delete, got %v", err)
	}
}

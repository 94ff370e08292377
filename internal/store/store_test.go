package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() = %v; want nil", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testScreenshot(id string) Screenshot {
	return Screenshot{
		ID:                id,
		URL:               "https://example.com",
		DesktopResolution: "1920×1080",
		MobileResolution:  "375×667",
		DesktopSizeBytes:  7,
		MobileSizeBytes:   6,
		CreatedAt:         time.Now().UTC(),
	}
}

const (
	idA = "123e4567-e89b-12d3-a456-426614174000"
	idB = "123e4567-e89b-12d3-a456-426614174001"
)

func TestSaveGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := testScreenshot(idA)
	want.DesktopUserAgent = "Mozilla/5.0 desktop"
	if err := s.Save(ctx, want, []byte("desktop"), []byte("mobile")); err != nil {
		t.Fatalf("Save() = %v; want nil", err)
	}

	got, err := s.Get(ctx, idA)
	if err != nil {
		t.Fatalf("Get() = %v; want nil", err)
	}
	if got.URL != want.URL || got.DesktopResolution != want.DesktopResolution {
		t.Fatalf("Get() = %+v; want %+v", got, want)
	}
	if got.DesktopUserAgent != "Mozilla/5.0 desktop" || got.MobileUserAgent != "" {
		t.Fatalf("user agents = %q / %q; want desktop set, mobile empty", got.DesktopUserAgent, got.MobileUserAgent)
	}

	desktop, err := s.ReadImage(ctx, idA, "desktop")
	if err != nil {
		t.Fatalf("ReadImage(desktop) = %v; want nil", err)
	}
	if string(desktop) != "desktop" {
		t.Fatalf("ReadImage(desktop) = %q; want %q", desktop, "desktop")
	}
	mobile, err := s.ReadImage(ctx, idA, "mobile")
	if err != nil {
		t.Fatalf("ReadImage(mobile) = %v; want nil", err)
	}
	if string(mobile) != "mobile" {
		t.Fatalf("ReadImage(mobile) = %q; want %q", mobile, "mobile")
	}
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), idA); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() = %v; want ErrNotFound", err)
	}
}

func TestMalformedIDTreatedAsNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"", "abc", "../../etc/passwd"} {
		if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%q) = %v; want ErrNotFound", id, err)
		}
		if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Delete(%q) = %v; want ErrNotFound", id, err)
		}
		if _, err := s.ReadImage(ctx, id, "desktop"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("ReadImage(%q) = %v; want ErrNotFound", id, err)
		}
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := testScreenshot(idA)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := testScreenshot(idB)

	if err := s.Save(ctx, older, []byte("d"), []byte("m")); err != nil {
		t.Fatalf("Save(older) = %v; want nil", err)
	}
	if err := s.Save(ctx, newer, []byte("d"), []byte("m")); err != nil {
		t.Fatalf("Save(newer) = %v; want nil", err)
	}

	shots, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() = %v; want nil", err)
	}
	if len(shots) != 2 {
		t.Fatalf("List() len = %d; want 2", len(shots))
	}
	if shots[0].ID != idB || shots[1].ID != idA {
		t.Fatalf("List() order = [%s, %s]; want newest first [%s, %s]", shots[0].ID, shots[1].ID, idB, idA)
	}
}

func TestDeleteRemovesRowAndFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testScreenshot(idA), []byte("d"), []byte("m")); err != nil {
		t.Fatalf("Save() = %v; want nil", err)
	}

	if err := s.Delete(ctx, idA); err != nil {
		t.Fatalf("Delete() = %v; want nil", err)
	}

	if _, err := s.Get(ctx, idA); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete = %v; want ErrNotFound", err)
	}
	if _, err := os.Stat(filepath.Join(s.imageDir, idA+"_desktop.png")); !os.IsNotExist(err) {
		t.Fatalf("desktop image still present after delete: %v", err)
	}
}

func TestDeleteUnknownIDIsNotFound(t *testing.T) {
	s := openTestStore(t)
	if err := s.Delete(context.Background(), idA); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() = %v; want ErrNotFound", err)
	}
}

func TestDeleteTolerantOfMissingImageFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testScreenshot(idA), []byte("d"), []byte("m")); err != nil {
		t.Fatalf("Save() = %v; want nil", err)
	}
	if err := os.Remove(filepath.Join(s.imageDir, idA+"_desktop.png")); err != nil {
		t.Fatalf("os.Remove() = %v; want nil", err)
	}

	if err := s.Delete(ctx, idA); err != nil {
		t.Fatalf("Delete() = %v; want nil despite missing image", err)
	}
}

func TestReadImageMissingFileIsNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testScreenshot(idA), []byte("d"), []byte("m")); err != nil {
		t.Fatalf("Save() = %v; want nil", err)
	}
	if err := os.Remove(filepath.Join(s.imageDir, idA+"_mobile.png")); err != nil {
		t.Fatalf("os.Remove() = %v; want nil", err)
	}

	if _, err := s.ReadImage(ctx, idA, "mobile"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadImage() = %v; want ErrNotFound", err)
	}
}

// Package store persists screenshot metadata in SQLite and the captured
// images as PNG files next to the database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no screenshot exists for an id, or when its
// image file has gone missing.
var ErrNotFound = errors.New("screenshot not found")

var uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Screenshot describes one stored capture pair. Records are immutable once
// created; file paths stay server-local and are not part of the wire shape.
type Screenshot struct {
	ID                string    `json:"id"`
	URL               string    `json:"url"`
	DesktopResolution string    `json:"desktop_resolution"`
	MobileResolution  string    `json:"mobile_resolution"`
	DesktopUserAgent  string    `json:"desktop_user_agent,omitempty"`
	MobileUserAgent   string    `json:"mobile_user_agent,omitempty"`
	DesktopSizeBytes  int       `json:"desktop_size_bytes"`
	MobileSizeBytes   int       `json:"mobile_size_bytes"`
	CreatedAt         time.Time `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS screenshots (
	id                 TEXT PRIMARY KEY,
	url                TEXT NOT NULL,
	desktop_resolution TEXT NOT NULL,
	mobile_resolution  TEXT NOT NULL,
	desktop_user_agent TEXT NOT NULL DEFAULT '',
	mobile_user_agent  TEXT NOT NULL DEFAULT '',
	desktop_size_bytes INTEGER NOT NULL,
	mobile_size_bytes  INTEGER NOT NULL,
	created_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_screenshots_created_at ON screenshots(created_at);
`

// Store manages screenshot rows and their image files.
type Store struct {
	db       *sql.DB
	imageDir string
	mu       sync.RWMutex
}

// Open creates (if needed) and opens the store under dataDir.
func Open(dataDir string) (*Store, error) {
	imageDir := filepath.Join(dataDir, "images")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", imageDir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "screenshots.db"))
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &Store{db: db, imageDir: imageDir}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) validateID(id string) error {
	if !uuidRe.MatchString(id) {
		// A malformed id can never name a stored screenshot, so lookups
		// treat it the same as an unknown one.
		return fmt.Errorf("invalid screenshot id %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) imagePath(id, mode string) string {
	return filepath.Join(s.imageDir, id+"_"+mode+".png")
}

// Save writes both image files and the metadata row. The files are removed
// again if the row insert fails.
func (s *Store) Save(ctx context.Context, shot Screenshot, desktopPNG, mobilePNG []byte) error {
	if err := s.validateID(shot.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	desktopPath := s.imagePath(shot.ID, "desktop")
	mobilePath := s.imagePath(shot.ID, "mobile")

	if err := os.WriteFile(desktopPath, desktopPNG, 0o644); err != nil {
		return fmt.Errorf("store: write desktop image: %w", err)
	}
	if err := os.WriteFile(mobilePath, mobilePNG, 0o644); err != nil {
		_ = os.Remove(desktopPath)
		return fmt.Errorf("store: write mobile image: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO screenshots (
			id, url, desktop_resolution, mobile_resolution,
			desktop_user_agent, mobile_user_agent,
			desktop_size_bytes, mobile_size_bytes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shot.ID, shot.URL, shot.DesktopResolution, shot.MobileResolution,
		shot.DesktopUserAgent, shot.MobileUserAgent,
		shot.DesktopSizeBytes, shot.MobileSizeBytes, shot.CreatedAt.UnixMilli(),
	)
	if err != nil {
		_ = os.Remove(desktopPath)
		_ = os.Remove(mobilePath)
		return fmt.Errorf("store: insert screenshot: %w", err)
	}

	return nil
}

const selectCols = `
	id, url, desktop_resolution, mobile_resolution,
	desktop_user_agent, mobile_user_agent,
	desktop_size_bytes, mobile_size_bytes, created_at`

func scanScreenshot(row interface{ Scan(...any) error }) (Screenshot, error) {
	var shot Screenshot
	var createdMillis int64
	err := row.Scan(
		&shot.ID, &shot.URL, &shot.DesktopResolution, &shot.MobileResolution,
		&shot.DesktopUserAgent, &shot.MobileUserAgent,
		&shot.DesktopSizeBytes, &shot.MobileSizeBytes, &createdMillis,
	)
	if err != nil {
		return Screenshot{}, err
	}
	shot.CreatedAt = time.UnixMilli(createdMillis).UTC()
	return shot, nil
}

// Get reads screenshot metadata by id.
func (s *Store) Get(ctx context.Context, id string) (Screenshot, error) {
	if err := s.validateID(id); err != nil {
		return Screenshot{}, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT"+selectCols+" FROM screenshots WHERE id = ?", id)
	shot, err := scanScreenshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Screenshot{}, ErrNotFound
	}
	if err != nil {
		return Screenshot{}, fmt.Errorf("store: get screenshot: %w", err)
	}
	return shot, nil
}

// List returns all screenshots, newest first.
func (s *Store) List(ctx context.Context) ([]Screenshot, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT"+selectCols+" FROM screenshots ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("store: list screenshots: %w", err)
	}
	defer rows.Close()

	shots := make([]Screenshot, 0)
	for rows.Next() {
		shot, err := scanScreenshot(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan screenshot: %w", err)
		}
		shots = append(shots, shot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list screenshots: %w", err)
	}
	return shots, nil
}

// ReadImage returns the raw PNG bytes for the given id and device class.
func (s *Store) ReadImage(ctx context.Context, id, mode string) ([]byte, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.imagePath(id, mode))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: image file for %s/%s", ErrNotFound, id, mode)
		}
		return nil, fmt.Errorf("store: read image: %w", err)
	}
	return data, nil
}

// Delete removes the metadata row and both image files. Missing files are
// logged and skipped; a missing row is ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, mode := range []string{"desktop", "mobile"} {
		if err := os.Remove(s.imagePath(id, mode)); err != nil && !os.IsNotExist(err) {
			slog.Debug("screenshot image cleanup failed", "id", id, "mode", mode, "error", err)
		}
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM screenshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("store: delete screenshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete screenshot: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

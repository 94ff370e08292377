// Package service implements the screenshot operations behind the HTTP API:
// request validation, capture orchestration, and persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dgnsrekt/sitesnap/internal/capture"
	"github.com/dgnsrekt/sitesnap/internal/catalog"
	"github.com/dgnsrekt/sitesnap/internal/store"
	"github.com/google/uuid"
)

// Engine captures a desktop/mobile screenshot pair for a URL.
type Engine interface {
	CapturePair(ctx context.Context, req capture.Request) (capture.Pair, error)
}

// HealthProbe reports browser liveness.
type HealthProbe interface {
	Check(ctx context.Context) (capture.BrowserHealth, error)
}

// CreateRequest carries the fields of a capture request. The user-agent
// fields are optional; empty means the browser default.
type CreateRequest struct {
	URL               string
	DesktopResolution string
	MobileResolution  string
	DesktopUserAgent  string
	MobileUserAgent   string
}

// Service wires the capture engine to the screenshot store.
type Service struct {
	engine Engine
	probe  HealthProbe
	store  *store.Store
}

// New creates a Service.
func New(engine Engine, probe HealthProbe, st *store.Store) *Service {
	return &Service{engine: engine, probe: probe, store: st}
}

// Resolutions returns the resolution catalog.
func (s *Service) Resolutions(ctx context.Context) catalog.ResolutionSet {
	return catalog.Resolutions()
}

// UserAgents returns the user-agent catalog.
func (s *Service) UserAgents(ctx context.Context) catalog.UserAgentSet {
	return catalog.UserAgents()
}

// CreateScreenshot validates the request, captures both device classes, and
// persists the result.
func (s *Service) CreateScreenshot(ctx context.Context, req CreateRequest) (store.Screenshot, error) {
	target := strings.TrimSpace(req.URL)
	if err := validateURL(target); err != nil {
		return store.Screenshot{}, err
	}

	// Unknown labels capture at the first catalog entry's dimensions but the
	// requested label is stored verbatim.
	desktopRes := catalog.DesktopResolution(req.DesktopResolution)
	mobileRes := catalog.MobileResolution(req.MobileResolution)

	pair, err := s.engine.CapturePair(ctx, capture.Request{
		URL: target,
		Desktop: capture.Viewport{
			Width:     desktopRes.Width,
			Height:    desktopRes.Height,
			UserAgent: req.DesktopUserAgent,
		},
		Mobile: capture.Viewport{
			Width:     mobileRes.Width,
			Height:    mobileRes.Height,
			UserAgent: req.MobileUserAgent,
		},
	})
	if err != nil {
		slog.Error("screenshot capture failed", "url", target, "error", err)
		return store.Screenshot{}, err
	}

	shot := store.Screenshot{
		ID:                uuid.New().String(),
		URL:               target,
		DesktopResolution: req.DesktopResolution,
		MobileResolution:  req.MobileResolution,
		DesktopUserAgent:  req.DesktopUserAgent,
		MobileUserAgent:   req.MobileUserAgent,
		DesktopSizeBytes:  len(pair.Desktop),
		MobileSizeBytes:   len(pair.Mobile),
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.store.Save(ctx, shot, pair.Desktop, pair.Mobile); err != nil {
		return store.Screenshot{}, &capture.CodedError{
			Code:    capture.CodeStorageFailure,
			Message: fmt.Sprintf("save screenshot: %v", err),
		}
	}

	slog.Info("screenshot created", "id", shot.ID, "url", shot.URL)
	return shot, nil
}

// ListScreenshots returns all stored screenshots, newest first.
func (s *Service) ListScreenshots(ctx context.Context) ([]store.Screenshot, error) {
	shots, err := s.store.List(ctx)
	if err != nil {
		return nil, &capture.CodedError{Code: capture.CodeStorageFailure, Message: "list screenshots", Cause: err}
	}
	return shots, nil
}

// GetScreenshot returns one screenshot's metadata.
func (s *Service) GetScreenshot(ctx context.Context, id string) (store.Screenshot, error) {
	shot, err := s.store.Get(ctx, id)
	if err != nil {
		return store.Screenshot{}, mapStoreErr(err)
	}
	return shot, nil
}

// ReadImage returns the PNG bytes for one device class of a screenshot.
func (s *Service) ReadImage(ctx context.Context, id, mode string) ([]byte, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != "desktop" && mode != "mobile" {
		return nil, &capture.CodedError{
			Code:    capture.CodeValidation,
			Message: "Invalid mode. Must be 'desktop' or 'mobile'",
		}
	}

	data, err := s.store.ReadImage(ctx, id, mode)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return data, nil
}

// DeleteScreenshot removes a screenshot and its image files.
func (s *Service) DeleteScreenshot(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	slog.Info("screenshot deleted", "id", id)
	return nil
}

// DeepHealth probes the capture browser.
func (s *Service) DeepHealth(ctx context.Context) (capture.BrowserHealth, error) {
	return s.probe.Check(ctx)
}

func validateURL(raw string) error {
	invalid := &capture.CodedError{Code: capture.CodeValidation, Message: "invalid url"}
	if raw == "" {
		return invalid
	}
	u, err := url.Parse(raw)
	if err != nil {
		return invalid
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &capture.CodedError{Code: capture.CodeNotFound, Message: "Screenshot not found"}
	}
	return &capture.CodedError{Code: capture.CodeStorageFailure, Message: "storage operation failed", Cause: err}
}

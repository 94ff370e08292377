package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateScreenshotOmitsEmptyUserAgents(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/screenshots" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(Screenshot{ID: "abc", URL: "https://example.com"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateScreenshot(context.Background(), CreateRequest{
		URL:               "https://example.com",
		DesktopResolution: "1920×1080",
		MobileResolution:  "360×800",
	})
	if err != nil {
		t.Fatalf("CreateScreenshot() = %v; want nil", err)
	}
	if _, ok := payload["desktop_user_agent"]; ok {
		t.Fatalf("payload contains desktop_user_agent; want omitted")
	}
	if _, ok := payload["mobile_user_agent"]; ok {
		t.Fatalf("payload contains mobile_user_agent; want omitted")
	}
}

func TestCreateScreenshotSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title":"Bad Request","status":400,"detail":"invalid url"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateScreenshot(context.Background(), CreateRequest{URL: "nope"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("CreateScreenshot() error = %v; want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Detail != "invalid url" {
		t.Fatalf("got status=%d detail=%q; want 400 %q", apiErr.Status, apiErr.Detail, "invalid url")
	}
}

func TestListScreenshotsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	shots, err := New(srv.URL).ListScreenshots(context.Background())
	if err != nil {
		t.Fatalf("ListScreenshots() = %v; want nil", err)
	}
	if shots == nil || len(shots) != 0 {
		t.Fatalf("shots = %v; want empty non-nil slice", shots)
	}
}

func TestDeleteScreenshotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Screenshot not found"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteScreenshot(context.Background(), "missing-id")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("DeleteScreenshot() error = %v; want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", apiErr.Status)
	}
}

func TestErrorWithoutDetailFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListScreenshots(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v; want *APIError", err)
	}
	if apiErr.Detail != "unexpected status 502" {
		t.Fatalf("detail = %q; want fallback message", apiErr.Detail)
	}
}

func TestImageURL(t *testing.T) {
	c := New("http://localhost:8000/")
	now := time.UnixMilli(1700000000000)
	got := c.ImageURL("abc-123", "desktop", now)
	want := "http://localhost:8000/api/screenshots/abc-123/desktop?t=1700000000000"
	if got != want {
		t.Fatalf("ImageURL() = %q; want %q", got, want)
	}
}

// Package client is the Go consumer of the screenshot HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Resolution is a labelled capture size offered by the service.
type Resolution struct {
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// UserAgent is a named browser identification string.
type UserAgent struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResolutionSet groups resolutions by capture mode.
type ResolutionSet struct {
	Desktop []Resolution `json:"desktop"`
	Mobile  []Resolution `json:"mobile"`
}

// UserAgentSet groups user agents by capture mode.
type UserAgentSet struct {
	Desktop []UserAgent `json:"desktop"`
	Mobile  []UserAgent `json:"mobile"`
}

// Screenshot is the metadata record returned by the service.
type Screenshot struct {
	ID                string    `json:"id"`
	URL               string    `json:"url"`
	DesktopResolution string    `json:"desktop_resolution"`
	MobileResolution  string    `json:"mobile_resolution"`
	DesktopUserAgent  string    `json:"desktop_user_agent,omitempty"`
	MobileUserAgent   string    `json:"mobile_user_agent,omitempty"`
	DesktopSizeBytes  int64     `json:"desktop_size_bytes"`
	MobileSizeBytes   int64     `json:"mobile_size_bytes"`
	CreatedAt         time.Time `json:"created_at"`
}

// CreateRequest is the payload for a capture request. User agent fields are
// omitted from the wire when empty so the service applies its defaults.
type CreateRequest struct {
	URL               string `json:"url"`
	DesktopResolution string `json:"desktop_resolution"`
	MobileResolution  string `json:"mobile_resolution"`
	DesktopUserAgent  string `json:"desktop_user_agent,omitempty"`
	MobileUserAgent   string `json:"mobile_user_agent,omitempty"`
}

// APIError is a non-2xx response from the service.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
}

// Client talks to a screenshot service instance.
type Client struct {
	base string
	http *http.Client
}

// New builds a client for the service at baseURL. Capture requests can run for
// a long time, so the underlying HTTP client carries no timeout; callers bound
// requests through context instead.
func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseAPIError(status int, data []byte) error {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		return &APIError{Status: status, Detail: body.Detail}
	}
	return &APIError{Status: status, Detail: fmt.Sprintf("unexpected status %d", status)}
}

// Resolutions fetches the resolution catalog.
func (c *Client) Resolutions(ctx context.Context) (ResolutionSet, error) {
	var out ResolutionSet
	err := c.doJSON(ctx, http.MethodGet, "/api/resolutions", nil, &out)
	return out, err
}

// UserAgents fetches the user agent catalog.
func (c *Client) UserAgents(ctx context.Context) (UserAgentSet, error) {
	var out UserAgentSet
	err := c.doJSON(ctx, http.MethodGet, "/api/user-agents", nil, &out)
	return out, err
}

// ListScreenshots fetches stored screenshot metadata, newest first.
func (c *Client) ListScreenshots(ctx context.Context) ([]Screenshot, error) {
	var out []Screenshot
	if err := c.doJSON(ctx, http.MethodGet, "/api/screenshots", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Screenshot{}
	}
	return out, nil
}

// CreateScreenshot asks the service to capture the given page and returns the
// stored record.
func (c *Client) CreateScreenshot(ctx context.Context, req CreateRequest) (Screenshot, error) {
	var out Screenshot
	err := c.doJSON(ctx, http.MethodPost, "/api/screenshots", req, &out)
	return out, err
}

// DeleteScreenshot removes a stored screenshot and its images.
func (c *Client) DeleteScreenshot(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/screenshots/"+id, nil, nil)
}

// ImageURL returns the address of a screenshot image with a cache buster so
// viewers always fetch the current bytes.
func (c *Client) ImageURL(id, mode string, now time.Time) string {
	return fmt.Sprintf("%s/api/screenshots/%s/%s?t=%d", c.base, id, mode, now.UnixMilli())
}

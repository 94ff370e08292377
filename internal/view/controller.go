// Package view holds the client-side state machine behind the gallery
// interface. It owns form inputs, the active tab, the cached gallery list
// and the error banner, and serializes mutations from the event loop.
package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dgnsrekt/sitesnap/internal/client"
)

// Tab identifies the visible pane.
type Tab string

const (
	TabForm    Tab = "form"
	TabCurrent Tab = "current"
	TabGallery Tab = "gallery"
)

// State is a snapshot of everything the interface renders.
type State struct {
	URLInput          string
	DesktopResolution string
	MobileResolution  string
	DesktopUserAgent  string
	MobileUserAgent   string

	Resolutions client.ResolutionSet
	UserAgents  client.UserAgentSet

	Loading   bool
	Error     string
	ActiveTab Tab

	Current     *client.Screenshot
	Screenshots []client.Screenshot
}

// API is the slice of the service client the controller needs.
type API interface {
	Resolutions(ctx context.Context) (client.ResolutionSet, error)
	UserAgents(ctx context.Context) (client.UserAgentSet, error)
	ListScreenshots(ctx context.Context) ([]client.Screenshot, error)
	CreateScreenshot(ctx context.Context, req client.CreateRequest) (client.Screenshot, error)
	DeleteScreenshot(ctx context.Context, id string) error
	ImageURL(id, mode string, now time.Time) string
}

// Controller applies interface events to the state.
type Controller struct {
	api API

	mu    sync.Mutex
	state State
	seq   uint64
}

// NewController builds a controller showing the capture form.
func NewController(api API) *Controller {
	return &Controller{
		api: api,
		state: State{
			ActiveTab:   TabForm,
			Screenshots: []client.Screenshot{},
		},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetURL updates the URL form input.
func (c *Controller) SetURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.URLInput = url
}

// SetDesktopResolution updates the desktop resolution selection.
func (c *Controller) SetDesktopResolution(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DesktopResolution = label
}

// SetMobileResolution updates the mobile resolution selection.
func (c *Controller) SetMobileResolution(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.MobileResolution = label
}

// SetDesktopUserAgent updates the desktop user agent selection. Empty means
// the service default.
func (c *Controller) SetDesktopUserAgent(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DesktopUserAgent = value
}

// SetMobileUserAgent updates the mobile user agent selection.
func (c *Controller) SetMobileUserAgent(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.MobileUserAgent = value
}

// SetActiveTab switches the visible pane.
func (c *Controller) SetActiveTab(tab Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ActiveTab = tab
}

// Init loads the option catalogs and the gallery list. All three fetches run
// together and the state is committed only when every one succeeds, so a
// partial failure never leaves half-populated dropdowns.
func (c *Controller) Init(ctx context.Context) {
	var (
		wg       sync.WaitGroup
		res      client.ResolutionSet
		uas      client.UserAgentSet
		shots    []client.Screenshot
		resErr   error
		uaErr    error
		shotsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		res, resErr = c.api.Resolutions(ctx)
	}()
	go func() {
		defer wg.Done()
		uas, uaErr = c.api.UserAgents(ctx)
	}()
	go func() {
		defer wg.Done()
		shots, shotsErr = c.api.ListScreenshots(ctx)
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if resErr != nil || uaErr != nil || shotsErr != nil {
		c.state.Error = "Failed to load initial data"
		return
	}
	c.state.Resolutions = res
	c.state.UserAgents = uas
	c.state.Screenshots = shots
	c.state.Error = ""
	if len(res.Desktop) > 0 && c.state.DesktopResolution == "" {
		c.state.DesktopResolution = res.Desktop[0].Label
	}
	if len(res.Mobile) > 0 && c.state.MobileResolution == "" {
		c.state.MobileResolution = res.Mobile[0].Label
	}
}

// normalizeURL prepends https:// when the input carries no scheme.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// Submit sends the current form as a capture request. An empty URL sets the
// error banner without touching the network, and a submit while another is in
// flight is ignored. On success the new screenshot becomes current, the
// gallery refreshes, and the view switches to the current tab.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	url := normalizeURL(c.state.URLInput)
	if url == "" {
		c.state.Error = "Please enter a URL"
		c.mu.Unlock()
		return
	}
	if c.state.Loading {
		c.mu.Unlock()
		return
	}
	c.state.Loading = true
	c.state.Error = ""
	c.seq++
	token := c.seq
	req := client.CreateRequest{
		URL:               url,
		DesktopResolution: c.state.DesktopResolution,
		MobileResolution:  c.state.MobileResolution,
		DesktopUserAgent:  c.state.DesktopUserAgent,
		MobileUserAgent:   c.state.MobileUserAgent,
	}
	c.mu.Unlock()

	shot, err := c.api.CreateScreenshot(ctx, req)

	var shots []client.Screenshot
	var listErr error
	if err == nil {
		shots, listErr = c.api.ListScreenshots(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.seq {
		// A newer submit superseded this one; drop the result.
		return
	}
	c.state.Loading = false
	if err != nil {
		c.state.Error = captureErrorMessage(err)
		return
	}
	c.state.Current = &shot
	c.state.ActiveTab = TabCurrent
	if listErr == nil {
		c.state.Screenshots = shots
	}
}

func captureErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Failed to capture screenshot"
}

// ViewScreenshot makes the identified gallery entry the current screenshot
// and switches to the current tab. Unknown ids are ignored.
func (c *Controller) ViewScreenshot(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.state.Screenshots {
		if c.state.Screenshots[i].ID == id {
			shot := c.state.Screenshots[i]
			c.state.Current = &shot
			c.state.ActiveTab = TabCurrent
			return
		}
	}
}

// Delete removes a screenshot after the confirm callback approves. A declined
// confirmation leaves everything untouched. Failures set the error banner and
// keep the gallery as it was.
func (c *Controller) Delete(ctx context.Context, id string, confirm func() bool) {
	if !confirm() {
		return
	}
	c.mu.Lock()
	c.state.Error = ""
	c.mu.Unlock()
	if err := c.api.DeleteScreenshot(ctx, id); err != nil {
		c.mu.Lock()
		c.state.Error = "Failed to delete screenshot"
		c.mu.Unlock()
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.state.Screenshots[:0:0]
	for _, shot := range c.state.Screenshots {
		if shot.ID != id {
			kept = append(kept, shot)
		}
	}
	if kept == nil {
		kept = []client.Screenshot{}
	}
	c.state.Screenshots = kept
	if c.state.Current != nil && c.state.Current.ID == id {
		c.state.Current = nil
	}
}

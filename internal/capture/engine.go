// Package capture drives a Chromium instance over CDP to produce paired
// desktop and mobile screenshots of arbitrary pages.
package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// Viewport describes the emulated screen for one device class.
type Viewport struct {
	Width     int
	Height    int
	UserAgent string // empty keeps the browser default
}

// Request is a single capture job: one URL rendered once per device class.
type Request struct {
	URL     string
	Desktop Viewport
	Mobile  Viewport
}

// Pair holds the PNG-encoded screenshots for both device classes.
type Pair struct {
	Desktop []byte
	Mobile  []byte
}

// Engine captures screenshots through a shared remote browser. Captures are
// serialized: each one opens a fresh tab, emulates the requested device, and
// closes the tab when done.
type Engine struct {
	cdpURL  string
	timeout time.Duration
	settle  time.Duration

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewEngine creates an Engine for the given CDP HTTP endpoint. timeout bounds
// a single page capture; settle is the extra wait after page load so late
// rendering (fonts, lazy images) lands in the screenshot.
func NewEngine(cdpURL string, timeout, settle time.Duration) *Engine {
	return &Engine{cdpURL: cdpURL, timeout: timeout, settle: settle}
}

// Connect establishes the remote allocator and verifies the browser answers.
func (e *Engine) Connect(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.allocCtx != nil {
		return nil
	}

	slog.Info("capture engine connecting", "cdp_url", e.cdpURL)
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), e.cdpURL)

	tempCtx, tempCancel := chromedp.NewContext(allocCtx)
	defer tempCancel()
	if err := chromedp.Run(tempCtx); err != nil {
		allocCancel()
		return newError(CodeCDPUnavailable, "connect to browser failed", err)
	}

	e.allocCtx = allocCtx
	e.allocCancel = allocCancel
	slog.Info("capture engine connected", "cdp_url", e.cdpURL)
	return nil
}

// Close releases the allocator. In-flight captures are allowed to finish
// because Close waits on the capture mutex.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.allocCancel != nil {
		e.allocCancel()
		e.allocCtx = nil
		e.allocCancel = nil
	}
	return nil
}

// CapturePair renders the URL once per device class, desktop first, and
// returns both PNG images. The browser is shared, so pairs never interleave.
func (e *Engine) CapturePair(ctx context.Context, req Request) (Pair, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.allocCtx == nil {
		return Pair{}, newError(CodeCDPUnavailable, "capture engine not connected", nil)
	}

	start := time.Now()
	desktop, err := e.capture(ctx, req.URL, req.Desktop, false)
	if err != nil {
		return Pair{}, err
	}

	mobile, err := e.capture(ctx, req.URL, req.Mobile, true)
	if err != nil {
		return Pair{}, err
	}

	slog.Info("capture pair complete",
		"url", req.URL,
		"desktop_bytes", len(desktop),
		"mobile_bytes", len(mobile),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Pair{Desktop: desktop, Mobile: mobile}, nil
}

func (e *Engine) capture(ctx context.Context, url string, vp Viewport, mobile bool) ([]byte, error) {
	tabCtx, tabCancel := chromedp.NewContext(e.allocCtx)
	defer tabCancel()

	runCtx, runCancel := context.WithTimeout(tabCtx, e.timeout)
	defer runCancel()

	actions := []chromedp.Action{
		emulation.SetDeviceMetricsOverride(int64(vp.Width), int64(vp.Height), 1, mobile),
	}
	if vp.UserAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(vp.UserAgent))
	}
	actions = append(actions,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(e.settle),
	)

	var png []byte
	actions = append(actions, chromedp.CaptureScreenshot(&png))

	slog.Debug("capturing page", "url", url, "width", vp.Width, "height", vp.Height, "mobile", mobile)
	if err := chromedp.Run(runCtx, actions...); err != nil {
		// The parent ctx expiring is the caller's deadline, not ours.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, newError(CodeCaptureTimeout, "page capture timed out", err)
		}
		return nil, newError(CodeCaptureFailure, "page capture failed", err)
	}

	return png, nil
}

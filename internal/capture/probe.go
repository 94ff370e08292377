package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Probe checks browser liveness over a short-lived raw CDP WebSocket instead
// of a full chromedp session, which would attach to every target just to ask
// for a version string.
type Probe struct {
	httpBase string // e.g. "http://127.0.0.1:9222"
}

// BrowserHealth reports the probed browser state.
type BrowserHealth struct {
	Product         string `json:"product"`
	ProtocolVersion string `json:"protocol_version"`
	UserAgent       string `json:"user_agent"`
	OpenTargets     int    `json:"open_targets"`
}

// NewProbe creates a Probe for the given CDP HTTP endpoint.
func NewProbe(cdpURL string) *Probe {
	return &Probe{httpBase: strings.TrimRight(cdpURL, "/")}
}

// Check dials the browser WebSocket, asks for Browser.getVersion, and counts
// open page targets.
func (p *Probe) Check(ctx context.Context) (BrowserHealth, error) {
	version, err := p.browserVersion(ctx)
	if err != nil {
		return BrowserHealth{}, newError(CodeCDPUnavailable, "browser version probe failed", err)
	}

	targets, err := p.countPageTargets(ctx)
	if err != nil {
		return BrowserHealth{}, newError(CodeCDPUnavailable, "target list probe failed", err)
	}
	version.OpenTargets = targets
	return version, nil
}

func (p *Probe) browserVersion(ctx context.Context) (BrowserHealth, error) {
	wsURL, err := p.browserWSURL(ctx)
	if err != nil {
		return BrowserHealth{}, err
	}

	conn, _, _, err := ws.Dial(ctx, wsURL)
	if err != nil {
		return BrowserHealth{}, fmt.Errorf("probe: dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	}

	req := struct {
		ID     int64  `json:"id"`
		Method string `json:"method"`
	}{ID: 1, Method: "Browser.getVersion"}
	data, err := json.Marshal(req)
	if err != nil {
		return BrowserHealth{}, fmt.Errorf("probe: marshal: %w", err)
	}
	if err := wsutil.WriteClientText(conn, data); err != nil {
		return BrowserHealth{}, fmt.Errorf("probe: send: %w", err)
	}

	// The browser endpoint may interleave events before the response.
	for {
		raw, err := wsutil.ReadServerText(conn)
		if err != nil {
			return BrowserHealth{}, fmt.Errorf("probe: read: %w", err)
		}

		var resp struct {
			ID     int64 `json:"id"`
			Result struct {
				Product         string `json:"product"`
				ProtocolVersion string `json:"protocolVersion"`
				UserAgent       string `json:"userAgent"`
			} `json:"result"`
			Error *struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &resp) != nil || resp.ID != req.ID {
			continue
		}
		if resp.Error != nil {
			return BrowserHealth{}, fmt.Errorf("probe: Browser.getVersion: %s", resp.Error.Message)
		}
		return BrowserHealth{
			Product:         resp.Result.Product,
			ProtocolVersion: resp.Result.ProtocolVersion,
			UserAgent:       resp.Result.UserAgent,
		}, nil
	}
}

// countPageTargets fetches open targets via the HTTP /json/list endpoint.
func (p *Probe) countPageTargets(ctx context.Context) (int, error) {
	listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(listCtx, http.MethodGet, p.httpBase+"/json/list", nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("probe: /json/list: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var entries []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return 0, err
	}

	count := 0
	for _, e := range entries {
		if e.Type == "page" {
			count++
		}
	}
	return count, nil
}

// browserWSURL fetches the WebSocket debugger URL from /json/version.
func (p *Probe) browserWSURL(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.httpBase+"/json/version", nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("probe: /json/version: HTTP %d", resp.StatusCode)
	}

	var info struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	if info.WebSocketDebuggerURL == "" {
		return "", fmt.Errorf("empty webSocketDebuggerUrl")
	}
	return info.WebSocketDebuggerURL, nil
}

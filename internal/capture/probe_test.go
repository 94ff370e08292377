package capture

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

func newFakeBrowser(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/json/version", func(w http.ResponseWriter, r *http.Request) {
		wsURL := "ws" + srv.URL[len("http"):] + "/devtools/browser/test"
		_ = json.NewEncoder(w).Encode(map[string]string{
			"webSocketDebuggerUrl": wsURL,
		})
	})

	mux.HandleFunc("/json/list", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"type": "page", "url": "about:blank"},
			{"type": "service_worker", "url": "chrome://sw"},
			{"type": "page", "url": "https://example.com"},
		})
	})

	mux.HandleFunc("/devtools/browser/test", func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			t.Errorf("ws upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		raw, err := wsutil.ReadClientText(conn)
		if err != nil {
			return
		}
		var req struct {
			ID     int64  `json:"id"`
			Method string `json:"method"`
		}
		if err := json.Unmarshal(raw, &req); err != nil || req.Method != "Browser.getVersion" {
			return
		}
		resp, _ := json.Marshal(map[string]any{
			"id": req.ID,
			"result": map[string]string{
				"product":         "HeadlessChrome/120.0.0.0",
				"protocolVersion": "1.3",
				"userAgent":       "Mozilla/5.0 test",
			},
		})
		_ = wsutil.WriteServerText(conn, resp)
	})

	return srv
}

func TestProbeCheck(t *testing.T) {
	srv := newFakeBrowser(t)
	probe := NewProbe(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	health, err := probe.Check(ctx)
	if err != nil {
		t.Fatalf("Check() = %v; want nil", err)
	}
	if health.Product != "HeadlessChrome/120.0.0.0" {
		t.Fatalf("Product = %q; want %q", health.Product, "HeadlessChrome/120.0.0.0")
	}
	if health.ProtocolVersion != "1.3" {
		t.Fatalf("ProtocolVersion = %q; want %q", health.ProtocolVersion, "1.3")
	}
	if health.OpenTargets != 2 {
		t.Fatalf("OpenTargets = %d; want 2 (service workers excluded)", health.OpenTargets)
	}
}

func TestProbeCheckBrowserDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	probe := NewProbe(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := probe.Check(ctx)
	if err == nil {
		t.Fatal("Check() = nil; want error for unreachable browser")
	}
	var coded *CodedError
	if !errors.As(err, &coded) || coded.Code != CodeCDPUnavailable {
		t.Fatalf("Check() error = %v; want CodedError %s", err, CodeCDPUnavailable)
	}
}

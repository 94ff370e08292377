// Package api exposes the screenshot service over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/dgnsrekt/sitesnap/internal/capture"
	"github.com/dgnsrekt/sitesnap/internal/catalog"
	"github.com/dgnsrekt/sitesnap/internal/service"
	"github.com/dgnsrekt/sitesnap/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is the operation surface consumed by the HTTP layer.
type Service interface {
	Resolutions(ctx context.Context) catalog.ResolutionSet
	UserAgents(ctx context.Context) catalog.UserAgentSet
	CreateScreenshot(ctx context.Context, req service.CreateRequest) (store.Screenshot, error)
	ListScreenshots(ctx context.Context) ([]store.Screenshot, error)
	GetScreenshot(ctx context.Context, id string) (store.Screenshot, error)
	ReadImage(ctx context.Context, id, mode string) ([]byte, error)
	DeleteScreenshot(ctx context.Context, id string) error
	DeepHealth(ctx context.Context) (capture.BrowserHealth, error)
}

// NewServer builds the HTTP handler for the screenshot API.
func NewServer(svc Service) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Sitesnap Screenshot API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})

	registerOptionHandlers(api, svc)
	registerScreenshotHandlers(api, svc)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *capture.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case capture.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case capture.CodeNotFound:
			return huma.Error404NotFound(coded.Message)
		case capture.CodeCaptureTimeout:
			return huma.Error504GatewayTimeout(coded.Message)
		case capture.CodeCDPUnavailable:
			return huma.Error502BadGateway(coded.Message)
		case capture.CodeCaptureFailure:
			return huma.Error500InternalServerError(fmt.Sprintf("Failed to capture screenshot: %s", coded.Message))
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}

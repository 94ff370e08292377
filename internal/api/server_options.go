package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/dgnsrekt/sitesnap/internal/capture"
	"github.com/dgnsrekt/sitesnap/internal/catalog"
)

func registerOptionHandlers(api huma.API, svc Service) {
	huma.Register(api, huma.Operation{
		OperationID: "api-root",
		Method:      http.MethodGet,
		Path:        "/api/",
		Summary:     "API root",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Message string `json:"message"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Message string `json:"message"`
			}
		}{}
		resp.Body.Message = "Screenshot API"
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-resolutions",
		Method:      http.MethodGet,
		Path:        "/api/resolutions",
		Summary:     "List available capture resolutions",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body catalog.ResolutionSet
	}, error) {
		return &struct {
			Body catalog.ResolutionSet
		}{Body: svc.Resolutions(ctx)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-user-agents",
		Method:      http.MethodGet,
		Path:        "/api/user-agents",
		Summary:     "List available user agent strings",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body catalog.UserAgentSet
	}, error) {
		return &struct {
			Body catalog.UserAgentSet
		}{Body: svc.UserAgents(ctx)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Liveness check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Status string `json:"status"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Status string `json:"status"`
			}
		}{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "deep-health",
		Method:      http.MethodGet,
		Path:        "/api/health/deep",
		Summary:     "Browser connectivity check",
		Description: "Talks to the capture browser over its debugging protocol and reports version and open tab information.",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body capture.BrowserHealth
	}, error) {
		health, err := svc.DeepHealth(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		return &struct {
			Body capture.BrowserHealth
		}{Body: health}, nil
	})
}

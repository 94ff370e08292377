package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/dgnsrekt/sitesnap/internal/service"
	"github.com/dgnsrekt/sitesnap/internal/store"
)

// screenshotImageOutput carries raw PNG bytes with an explicit content type.
type screenshotImageOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func registerScreenshotHandlers(api huma.API, svc Service) {
	huma.Register(api, huma.Operation{
		OperationID: "create-screenshot",
		Method:      http.MethodPost,
		Path:        "/api/screenshots",
		Summary:     "Capture a screenshot pair",
		Description: "Captures the page at the given URL in both desktop and mobile configurations and stores the result.",
	}, func(ctx context.Context, input *struct {
		Body struct {
			URL               string `json:"url" doc:"Page address to capture"`
			DesktopResolution string `json:"desktop_resolution" doc:"Desktop resolution label"`
			MobileResolution  string `json:"mobile_resolution" doc:"Mobile resolution label"`
			DesktopUserAgent  string `json:"desktop_user_agent,omitempty" doc:"Optional desktop user agent string"`
			MobileUserAgent   string `json:"mobile_user_agent,omitempty" doc:"Optional mobile user agent string"`
		}
	}) (*struct {
		Body store.Screenshot
	}, error) {
		shot, err := svc.CreateScreenshot(ctx, service.CreateRequest{
			URL:               input.Body.URL,
			DesktopResolution: input.Body.DesktopResolution,
			MobileResolution:  input.Body.MobileResolution,
			DesktopUserAgent:  input.Body.DesktopUserAgent,
			MobileUserAgent:   input.Body.MobileUserAgent,
		})
		if err != nil {
			return nil, mapErr(err)
		}
		return &struct {
			Body store.Screenshot
		}{Body: shot}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-screenshots",
		Method:      http.MethodGet,
		Path:        "/api/screenshots",
		Summary:     "List stored screenshots",
		Description: "Returns screenshot metadata ordered newest first.",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []store.Screenshot
	}, error) {
		shots, err := svc.ListScreenshots(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		return &struct {
			Body []store.Screenshot
		}{Body: shots}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-screenshot",
		Method:      http.MethodGet,
		Path:        "/api/screenshots/{screenshot_id}",
		Summary:     "Get a stored screenshot",
	}, func(ctx context.Context, input *struct {
		ScreenshotID string `path:"screenshot_id" doc:"Screenshot identifier"`
	}) (*struct {
		Body store.Screenshot
	}, error) {
		shot, err := svc.GetScreenshot(ctx, input.ScreenshotID)
		if err != nil {
			return nil, mapErr(err)
		}
		return &struct {
			Body store.Screenshot
		}{Body: shot}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-screenshot",
		Method:      http.MethodDelete,
		Path:        "/api/screenshots/{screenshot_id}",
		Summary:     "Delete a stored screenshot",
	}, func(ctx context.Context, input *struct {
		ScreenshotID string `path:"screenshot_id" doc:"Screenshot identifier"`
	}) (*struct {
		Body struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
	}, error) {
		if err := svc.DeleteScreenshot(ctx, input.ScreenshotID); err != nil {
			return nil, mapErr(err)
		}
		resp := &struct {
			Body struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			}
		}{}
		resp.Body.Status = "success"
		resp.Body.Message = "Screenshot deleted"
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-screenshot-image",
		Method:      http.MethodGet,
		Path:        "/api/screenshots/{screenshot_id}/{mode}",
		Summary:     "Get a screenshot image",
		Description: "Serves the PNG captured for the requested mode.",
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Screenshot image",
				Content: map[string]*huma.MediaType{
					"image/png": {
						Schema: &huma.Schema{Type: "string", Format: "binary"},
					},
				},
			},
		},
	}, func(ctx context.Context, input *struct {
		ScreenshotID string `path:"screenshot_id" doc:"Screenshot identifier"`
		Mode         string `path:"mode" doc:"Either desktop or mobile"`
	}) (*screenshotImageOutput, error) {
		png, err := svc.ReadImage(ctx, input.ScreenshotID, input.Mode)
		if err != nil {
			return nil, mapErr(err)
		}
		return &screenshotImageOutput{ContentType: "image/png", Body: png}, nil
	})
}

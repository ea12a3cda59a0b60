package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salonsuite/bella"
	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/infrastructure/api/middleware"
	"github.com/salonsuite/bella/infrastructure/api/v1/dto"
	"github.com/salonsuite/bella/infrastructure/provider"
	"github.com/salonsuite/bella/internal/domain"
)

// analyticsWindow is the reporting window for the analytics endpoint.
const analyticsWindow = 30 * 24 * time.Hour

// ContentRouter handles trend, image, and analytics endpoints.
type ContentRouter struct {
	client *bella.Client
	logger *slog.Logger
}

// NewContentRouter creates a new ContentRouter.
func NewContentRouter(client *bella.Client) *ContentRouter {
	return &ContentRouter{
		client: client,
		logger: client.Logger(),
	}
}

// TrendRoutes returns the chi router for trend endpoints.
func (r *ContentRouter) TrendRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.GetTrends)
	return router
}

// ImageRoutes returns the chi router for image endpoints.
func (r *ContentRouter) ImageRoutes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", r.GenerateImages)
	return router
}

// AnalyticsRoutes returns the chi router for analytics endpoints.
func (r *ContentRouter) AnalyticsRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.GetAnalytics)
	return router
}

// GetTrends handles GET /api/v1/trends.
//
//	@Summary		Get trends
//	@Description	Get the current trending audio and hashtags for a niche
//	@Tags			trends
//	@Accept			json
//	@Produce		json
//	@Param			niche	query		string	true	"Business niche"
//	@Success		200		{object}	dto.TrendResponse
//	@Failure		400		{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/trends [get]
func (r *ContentRouter) GetTrends(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	niche := req.URL.Query().Get("niche")
	set, err := r.client.Trends.Lookup(ctx, niche)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.TrendResponse{
		Niche:    niche,
		Audio:    set.Audio(),
		Hashtags: set.Hashtags(),
		Fetched:  time.Now().UTC(),
	})
}

// GenerateImages handles POST /api/v1/images.
//
//	@Summary		Generate images
//	@Description	Generate branded marketing images from a prompt (up to 3 per request)
//	@Tags			images
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.ImageCreateRequest	true	"Image request"
//	@Success		200		{object}	dto.ImageResponse
//	@Failure		400		{object}	middleware.ErrorResponse
//	@Failure		503		{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/images [post]
func (r *ContentRouter) GenerateImages(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.ImageCreateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body", domain.ErrValidation), r.logger)
		return
	}
	if err := validate.Struct(body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %s", domain.ErrValidation, err), r.logger)
		return
	}

	size := body.Size
	if size == "" {
		size = provider.ImageSizeSquare
	}

	results, err := r.client.Images.Generate(ctx, body.Prompt, body.Count, size)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	images := make([]dto.ImageData, 0, len(results))
	generated := 0
	for _, res := range results {
		if res.Error == "" {
			generated++
		}
		images = append(images, dto.ImageData{
			Index:         res.Index,
			URL:           res.URL,
			RevisedPrompt: res.RevisedPrompt,
			Size:          res.Size,
			Error:         res.Error,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ImageResponse{
		Images:    images,
		Requested: len(results),
		Generated: generated,
	})
}

// GetAnalytics handles GET /api/v1/analytics.
//
//	@Summary		Get analytics
//	@Description	Get a 30-day usage and generation summary
//	@Tags			analytics
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	dto.AnalyticsResponse
//	@Failure		500	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/analytics [get]
func (r *ContentRouter) GetAnalytics(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	overview, err := r.client.Analytics.Overview(ctx, analyticsWindow)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, overviewToDTO(overview))
}

func overviewToDTO(o service.Overview) dto.AnalyticsResponse {
	return dto.AnalyticsResponse{
		Period:              fmt.Sprintf("%d days", int(o.Window.Hours()/24)),
		TotalCalendars:      o.Calendars,
		TotalPostsGenerated: o.Posts,
		AvgGenerationTime:   o.AvgGenerationTime.Seconds(),
		SuccessRate:         o.AvgSuccessRate,
		TotalRequests:       o.Requests,
		RequestSuccessRate:  o.RequestSuccess,
		AvgResponseTimeMS:   float64(o.AvgResponseTime.Milliseconds()),
		PendingJobs:         o.PendingJobs,
		Timestamp:           time.Now().UTC(),
	}
}

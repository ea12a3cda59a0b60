package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salonsuite/bella"
	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/infrastructure/api/middleware"
	"github.com/salonsuite/bella/infrastructure/api/v1/dto"
	"github.com/salonsuite/bella/internal/domain"
)

// BatchRouter handles batch generation API endpoints.
type BatchRouter struct {
	client *bella.Client
	logger *slog.Logger
}

// NewBatchRouter creates a new BatchRouter.
func NewBatchRouter(client *bella.Client) *BatchRouter {
	return &BatchRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for batch endpoints.
func (r *BatchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Submit)
	router.Get("/{id}", r.Status)

	return router
}

// Submit handles POST /api/v1/batch.
//
//	@Summary		Submit batch generation
//	@Description	Generate calendars for multiple businesses. Small batches run inline; large ones are queued and return 202 with a job id.
//	@Tags			batch
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.BatchCreateRequest	true	"Batch request"
//	@Success		200		{object}	dto.BatchCompletedResponse
//	@Success		202		{object}	dto.BatchAcceptedResponse
//	@Failure		400		{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/batch [post]
func (r *BatchRouter) Submit(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.BatchCreateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body", domain.ErrValidation), r.logger)
		return
	}
	if err := validate.Struct(body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %s", domain.ErrValidation, err), r.logger)
		return
	}

	businesses := make([]service.Business, 0, len(body.Businesses))
	for _, b := range body.Businesses {
		businesses = append(businesses, service.Business{Niche: b.Niche, City: b.City})
	}

	outcome, accepted, err := r.client.Batches.Submit(ctx, 0, businesses, body.Days)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if accepted != nil {
		middleware.WriteJSON(w, http.StatusAccepted, dto.BatchAcceptedResponse{
			Status:           "queued",
			JobID:            accepted.JobID,
			EstimatedSeconds: accepted.Estimate.Seconds(),
			StatusURL:        fmt.Sprintf("/api/v1/batch/%s", accepted.JobID),
		})
		return
	}

	results := make([]dto.BatchBusinessResult, 0, len(outcome.Results))
	for _, res := range outcome.Results {
		results = append(results, dto.BatchBusinessResult{
			Niche:      res.Niche,
			City:       res.City,
			Status:     res.Status,
			CalendarID: res.CalendarID,
			Posts:      res.Posts,
			Error:      res.Error,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, dto.BatchCompletedResponse{
		Status:         "completed",
		Total:          len(results),
		Succeeded:      outcome.Succeeded,
		Failed:         outcome.Failed,
		ElapsedSeconds: outcome.Elapsed.Seconds(),
		Results:        results,
	})
}

// Status handles GET /api/v1/batch/{id}.
//
//	@Summary		Get batch status
//	@Description	Poll a queued batch job by its id
//	@Tags			batch
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"Job ID"
//	@Success		200	{object}	dto.JobStatusResponse
//	@Failure		404	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/batch/{id} [get]
func (r *BatchRouter) Status(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	jobID := chi.URLParam(req, "id")
	j, err := r.client.Queue.Status(ctx, jobID)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	response := dto.JobStatusResponse{
		JobID:     j.CorrelationID(),
		Operation: string(j.Operation()),
		Status:    string(j.Status()),
		Priority:  j.Priority(),
		Result:    j.Result(),
		Error:     j.ErrorMessage(),
		CreatedAt: j.CreatedAt(),
	}
	if started := j.StartedAt(); !started.IsZero() {
		response.StartedAt = &started
	}
	if completed := j.CompletedAt(); !completed.IsZero() {
		response.CompletedAt = &completed
	}

	middleware.WriteJSON(w, http.StatusOK, response)
}

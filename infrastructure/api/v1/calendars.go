// Package v1 provides the v1 API routes.
package v1

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/salonsuite/bella"
	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/infrastructure/api/jsonapi"
	"github.com/salonsuite/bella/infrastructure/api/middleware"
	"github.com/salonsuite/bella/infrastructure/api/v1/dto"
	"github.com/salonsuite/bella/internal/domain"
)

// validate checks request DTOs against their struct tags.
var validate = validator.New(validator.WithRequiredStructEnabled())

// CalendarsRouter handles calendar API endpoints.
type CalendarsRouter struct {
	client *bella.Client
	logger *slog.Logger
}

// NewCalendarsRouter creates a new CalendarsRouter.
func NewCalendarsRouter(client *bella.Client) *CalendarsRouter {
	return &CalendarsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for calendar endpoints.
func (r *CalendarsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Get("/{id}", r.Get)
	router.Delete("/{id}", r.Delete)
	router.Get("/{id}/export", r.Export)

	return router
}

// List handles GET /api/v1/calendars.
//
//	@Summary		List calendars
//	@Description	Get generated content calendars, newest first
//	@Tags			calendars
//	@Accept			json
//	@Produce		json
//	@Param			niche		query	string	false	"Filter by niche"
//	@Param			city		query	string	false	"Filter by city"
//	@Param			page		query	int		false	"Page number (default: 1)"
//	@Param			page_size	query	int		false	"Results per page (default: 20, max: 100)"
//	@Success		200	{object}	jsonapi.Document
//	@Failure		500	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/calendars [get]
func (r *CalendarsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	calendars, total, err := r.client.Calendars.List(ctx, service.CalendarListParams{
		Niche:  req.URL.Query().Get("niche"),
		City:   req.URL.Query().Get("city"),
		Limit:  pagination.Limit(),
		Offset: pagination.Offset(),
	})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	document := jsonapi.CalendarListDocument(
		calendars,
		PaginationMeta(pagination, total),
		PaginationLinks(req, pagination, total),
	)
	middleware.WriteJSON(w, http.StatusOK, document)
}

// Create handles POST /api/v1/calendars.
//
//	@Summary		Generate calendar
//	@Description	Generate a content calendar for a niche and city
//	@Tags			calendars
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.CalendarCreateRequest	true	"Generation request"
//	@Success		201		{object}	dto.CalendarResponse
//	@Failure		400		{object}	middleware.ErrorResponse
//	@Failure		429		{object}	middleware.ErrorResponse
//	@Failure		503		{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/calendars [post]
func (r *CalendarsRouter) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.CalendarCreateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body", domain.ErrValidation), r.logger)
		return
	}
	if err := validate.Struct(body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %s", domain.ErrValidation, err), r.logger)
		return
	}

	skipPersist := body.Persist != nil && !*body.Persist

	cal, err := r.client.Calendars.Generate(ctx, service.GenerateParams{
		Niche:       body.Niche,
		City:        body.City,
		Days:        body.Days,
		SkipPersist: skipPersist,
	})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	resource, included := jsonapi.CalendarDetailResource(cal)
	middleware.WriteJSON(w, http.StatusCreated, dto.CalendarResponse{Data: resource, Included: included})
}

// Get handles GET /api/v1/calendars/{id}.
//
//	@Summary		Get calendar
//	@Description	Get a calendar with its entries by ID
//	@Tags			calendars
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Calendar ID"
//	@Success		200	{object}	dto.CalendarResponse
//	@Failure		404	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/calendars/{id} [get]
func (r *CalendarsRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid calendar id", domain.ErrValidation), r.logger)
		return
	}

	cal, err := r.client.Calendars.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	resource, included := jsonapi.CalendarDetailResource(cal)
	middleware.WriteJSON(w, http.StatusOK, dto.CalendarResponse{Data: resource, Included: included})
}

// Delete handles DELETE /api/v1/calendars/{id}.
//
//	@Summary		Delete calendar
//	@Description	Delete a calendar and its entries
//	@Tags			calendars
//	@Accept			json
//	@Produce		json
//	@Param			id	path	int	true	"Calendar ID"
//	@Success		204
//	@Failure		404	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/calendars/{id} [delete]
func (r *CalendarsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid calendar id", domain.ErrValidation), r.logger)
		return
	}

	if err := r.client.Calendars.Delete(ctx, id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/v1/calendars/{id}/export.
//
//	@Summary		Export calendar
//	@Description	Download a calendar's entries as JSON or CSV
//	@Tags			calendars
//	@Produce		json
//	@Param			id		path	int		true	"Calendar ID"
//	@Param			format	query	string	false	"Export format: json or csv (default: json)"
//	@Success		200	{array}	dto.CalendarExportRow
//	@Failure		400	{object}	middleware.ErrorResponse
//	@Failure		404	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/calendars/{id}/export [get]
func (r *CalendarsRouter) Export(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid calendar id", domain.ErrValidation), r.logger)
		return
	}

	format := req.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		middleware.WriteError(w, req, fmt.Errorf("%w: format must be json or csv", domain.ErrValidation), r.logger)
		return
	}

	cal, err := r.client.Calendars.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	filename := fmt.Sprintf("calendar_%s_%s_%s.%s",
		sanitizeFilename(cal.Niche()), sanitizeFilename(cal.City()),
		time.Now().Format("20060102"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == "csv" {
		r.exportCSV(w, cal.Entries())
		return
	}

	rows := make([]dto.CalendarExportRow, 0, len(cal.Entries()))
	for _, e := range cal.Entries() {
		rows = append(rows, dto.CalendarExportRow{
			Day:         e.Day(),
			Activity:    e.Activity(),
			Script:      e.Script(),
			Visual:      e.Visual(),
			Caption:     e.Caption(),
			Hashtags:    e.Hashtags(),
			PostTime:    e.PostTime(),
			CTA:         e.CTA(),
			ImagePrompt: e.ImagePrompt(),
		})
	}
	middleware.WriteJSON(w, http.StatusOK, rows)
}

func (r *CalendarsRouter) exportCSV(w http.ResponseWriter, entries []calendar.Entry) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"day", "activity", "script", "visual", "caption", "hashtags", "post_time", "cta", "image_prompt"})
	for _, e := range entries {
		_ = writer.Write([]string{
			strconv.Itoa(e.Day()), e.Activity(), e.Script(), e.Visual(),
			e.Caption(), e.Hashtags(), e.PostTime(), e.CTA(), e.ImagePrompt(),
		})
	}
	writer.Flush()
}

// sanitizeFilename replaces characters unsafe for attachment filenames.
func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

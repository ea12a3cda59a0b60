package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/salonsuite/bella"
	"github.com/salonsuite/bella/application/service"
	"github.com/salonsuite/bella/domain/template"
	"github.com/salonsuite/bella/infrastructure/api/middleware"
	"github.com/salonsuite/bella/infrastructure/api/v1/dto"
	"github.com/salonsuite/bella/internal/domain"
)

// TemplatesRouter handles content template API endpoints.
type TemplatesRouter struct {
	client *bella.Client
	logger *slog.Logger
}

// NewTemplatesRouter creates a new TemplatesRouter.
func NewTemplatesRouter(client *bella.Client) *TemplatesRouter {
	return &TemplatesRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for template endpoints.
func (r *TemplatesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Get("/{id}", r.Get)
	router.Delete("/{id}", r.Delete)

	return router
}

// List handles GET /api/v1/templates.
//
//	@Summary		List templates
//	@Description	List reusable content templates
//	@Tags			templates
//	@Accept			json
//	@Produce		json
//	@Param			niche		query	string	false	"Filter by niche"
//	@Param			theme		query	string	false	"Filter by theme"
//	@Param			most_used	query	bool	false	"Order by usage count"
//	@Param			page		query	int		false	"Page number (default: 1)"
//	@Param			page_size	query	int		false	"Results per page (default: 20, max: 100)"
//	@Success		200	{object}	dto.TemplateListResponse
//	@Failure		400	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/templates [get]
func (r *TemplatesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	templates, err := r.client.Templates.List(ctx, service.TemplateListParams{
		Niche:    req.URL.Query().Get("niche"),
		Theme:    req.URL.Query().Get("theme"),
		MostUsed: req.URL.Query().Get("most_used") == "true",
		Limit:    pagination.Limit(),
		Offset:   pagination.Offset(),
	})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.TemplateData, 0, len(templates))
	for _, t := range templates {
		data = append(data, templateToDTO(t))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.TemplateListResponse{Data: data, Total: len(data)})
}

// Create handles POST /api/v1/templates.
//
//	@Summary		Create template
//	@Description	Create a reusable content template
//	@Tags			templates
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.TemplateCreateRequest	true	"Template"
//	@Success		201		{object}	dto.TemplateResponse
//	@Failure		400		{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/templates [post]
func (r *TemplatesRouter) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.TemplateCreateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid request body", domain.ErrValidation), r.logger)
		return
	}
	if err := validate.Struct(body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %s", domain.ErrValidation, err), r.logger)
		return
	}

	created, err := r.client.Templates.Create(ctx, service.CreateTemplateParams{
		Name:        body.Name,
		Niche:       body.Niche,
		Theme:       body.Theme,
		Activity:    body.Activity,
		Script:      body.Script,
		Visual:      body.Visual,
		Caption:     body.Caption,
		Hashtags:    body.Hashtags,
		PostTime:    body.PostTime,
		CTA:         body.CTA,
		ImagePrompt: body.ImagePrompt,
	})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.TemplateResponse{Data: templateToDTO(created)})
}

// Get handles GET /api/v1/templates/{id}.
//
//	@Summary		Get template
//	@Description	Get a template by ID
//	@Tags			templates
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Template ID"
//	@Success		200	{object}	dto.TemplateResponse
//	@Failure		404	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/templates/{id} [get]
func (r *TemplatesRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid template id", domain.ErrValidation), r.logger)
		return
	}

	t, err := r.client.Templates.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.TemplateResponse{Data: templateToDTO(t)})
}

// Delete handles DELETE /api/v1/templates/{id}.
//
//	@Summary		Delete template
//	@Description	Delete a template by ID
//	@Tags			templates
//	@Accept			json
//	@Produce		json
//	@Param			id	path	int	true	"Template ID"
//	@Success		204
//	@Failure		404	{object}	middleware.ErrorResponse
//	@Security		APIKeyAuth
//	@Router			/templates/{id} [delete]
func (r *TemplatesRouter) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: invalid template id", domain.ErrValidation), r.logger)
		return
	}

	if err := r.client.Templates.Delete(ctx, id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func templateToDTO(t template.Template) dto.TemplateData {
	return dto.TemplateData{
		ID:          t.ID(),
		Name:        t.Name(),
		Niche:       t.Niche(),
		Theme:       string(t.Theme()),
		Activity:    t.Activity(),
		Script:      t.Script(),
		Visual:      t.Visual(),
		Caption:     t.Caption(),
		Hashtags:    t.Hashtags(),
		PostTime:    t.PostTime(),
		CTA:         t.CTA(),
		ImagePrompt: t.ImagePrompt(),
		UsageCount:  t.UsageCount(),
		IsPublic:    t.IsPublic(),
		CreatedAt:   t.CreatedAt(),
	}
}

package dto

import "time"

// TemplateCreateRequest is the POST /templates request body.
type TemplateCreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Niche       string `json:"niche" validate:"required,max=100"`
	Theme       string `json:"theme" validate:"required"`
	Activity    string `json:"activity" validate:"required"`
	Script      string `json:"script" validate:"required"`
	Visual      string `json:"visual"`
	Caption     string `json:"caption"`
	Hashtags    string `json:"hashtags"`
	PostTime    string `json:"post_time"`
	CTA         string `json:"cta"`
	ImagePrompt string `json:"image_prompt"`
}

// TemplateData is one template in API responses.
type TemplateData struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Niche       string    `json:"niche"`
	Theme       string    `json:"theme"`
	Activity    string    `json:"activity"`
	Script      string    `json:"script"`
	Visual      string    `json:"visual"`
	Caption     string    `json:"caption"`
	Hashtags    string    `json:"hashtags"`
	PostTime    string    `json:"post_time"`
	CTA         string    `json:"cta"`
	ImagePrompt string    `json:"image_prompt"`
	UsageCount  int64     `json:"usage_count"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

// TemplateListResponse is the GET /templates response body.
type TemplateListResponse struct {
	Data  []TemplateData `json:"data"`
	Total int            `json:"total"`
}

// TemplateResponse wraps a single template.
type TemplateResponse struct {
	Data TemplateData `json:"data"`
}

// ImageCreateRequest is the POST /images request body.
type ImageCreateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Count  int    `json:"num_images" validate:"omitempty,min=1"`
	Size   string `json:"size" validate:"omitempty,oneof=1024x1024 1792x1024 1024x1792"`
}

// ImageData is one generated image in API responses.
type ImageData struct {
	Index         int    `json:"index"`
	URL           string `json:"url,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Size          string `json:"size"`
	Error         string `json:"error,omitempty"`
}

// ImageResponse is the POST /images response body.
type ImageResponse struct {
	Images    []ImageData `json:"images"`
	Requested int         `json:"requested"`
	Generated int         `json:"generated"`
}

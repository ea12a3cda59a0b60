package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/salonsuite/bella/infrastructure/provider"
	"github.com/salonsuite/bella/internal/domain"
	"github.com/salonsuite/bella/internal/metrics"
)

// MaxImagesPerRequest caps one image request; larger counts are clamped.
const MaxImagesPerRequest = 3

// imagePacing is the delay between consecutive image calls in one request.
const imagePacing = time.Second

// ImageResult is the outcome of one image in a request. A failed image
// carries an error message and a zero URL; the rest of the request still
// completes.
type ImageResult struct {
	Index         int
	URL           string
	RevisedPrompt string
	Size          string
	Error         string
}

// Images generates branded marketing images one call at a time, tolerating
// per-image failures.
type Images struct {
	provider provider.ImageGenerator
	logger   *slog.Logger
}

// NewImages creates the image service. A nil provider disables the surface.
func NewImages(p provider.ImageGenerator, logger *slog.Logger) *Images {
	return &Images{
		provider: p,
		logger:   logger,
	}
}

// Enabled reports whether image generation is available.
func (s *Images) Enabled() bool {
	return s.provider != nil && s.provider.SupportsImageGeneration()
}

// Generate produces count images for the prompt. The prompt is validated
// before any API call; individual call failures become placeholder results.
func (s *Images) Generate(ctx context.Context, prompt string, count int, size string) ([]ImageResult, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("%w: image generation is not configured", domain.ErrUnavailable)
	}

	req := provider.NewImageRequest(prompt, size)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := provider.ScreenPrompt(prompt); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if count < 1 {
		count = 1
	}
	if count > MaxImagesPerRequest {
		s.logger.Warn("image count clamped",
			slog.Int("requested", count),
			slog.Int("limit", MaxImagesPerRequest),
		)
		count = MaxImagesPerRequest
	}

	results := make([]ImageResult, 0, count)
	for i := 1; i <= count; i++ {
		result := ImageResult{Index: i, Size: req.Size()}

		resp, err := s.provider.GenerateImage(ctx, req)
		if err != nil {
			metrics.ProviderCalls.WithLabelValues("image_generation", "failure").Inc()
			s.logger.Error("image generation failed",
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			result.Error = "Image generation temporarily unavailable"
		} else {
			metrics.ProviderCalls.WithLabelValues("image_generation", "success").Inc()
			result.URL = resp.URL()
			result.RevisedPrompt = resp.RevisedPrompt()
		}
		results = append(results, result)

		if i < count {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(imagePacing):
			}
		}
	}

	return results, nil
}

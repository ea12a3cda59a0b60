package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// BrandingTag is appended to every image prompt so each generated image
// carries the studio handle somewhere visible in the scene.
const BrandingTag = "@salonsuitedigitalstudio"

// prohibitedWords are rejected before any image API call is made.
var prohibitedWords = []string{"nude", "nsfw", "violent", "illegal", "harmful"}

// OpenAIProvider implements text and image generation using the OpenAI API.
type OpenAIProvider struct {
	client         *openai.Client
	chatModel      string
	imageModel     string
	maxRetries     int
	initialDelay   time.Duration
	backoffFactor  float64
	supportsText   bool
	supportsImages bool
}

// OpenAIOption is a functional option for OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithChatModel sets the chat completion model.
func WithChatModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.chatModel = model
		p.supportsText = true
	}
}

// WithImageModel sets the image generation model.
func WithImageModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.imageModel = model
		p.supportsImages = true
	}
}

// WithoutImages disables the image endpoint. Used by hardened deployments.
func WithoutImages() OpenAIOption {
	return func(p *OpenAIProvider) { p.supportsImages = false }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) OpenAIOption {
	return func(p *OpenAIProvider) { p.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) OpenAIOption {
	return func(p *OpenAIProvider) { p.initialDelay = d }
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) OpenAIOption {
	return func(p *OpenAIProvider) { p.backoffFactor = f }
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) *OpenAIProvider {
	client := openai.NewClient(apiKey)

	p := &OpenAIProvider{
		client:         client,
		chatModel:      "gpt-4o",
		imageModel:     "dall-e-3",
		maxRetries:     3,
		initialDelay:   2 * time.Second,
		backoffFactor:  2.0,
		supportsText:   true,
		supportsImages: true,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	ChatModel     string
	ImageModel    string
	Timeout       time.Duration
	MaxRetries    int
	InitialDelay  time.Duration
	BackoffFactor float64

	// CacheDir enables on-disk response caching when non-empty.
	// Intended for local development and deterministic tests.
	CacheDir string

	// DisableImages turns off the image endpoint regardless of model config.
	DisableImages bool
}

// NewOpenAIProviderFromConfig creates a provider from configuration.
func NewOpenAIProviderFromConfig(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)

	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	httpClient := &http.Client{}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}
	if cfg.CacheDir != "" {
		httpClient.Transport = NewCachingTransport(cfg.CacheDir, nil)
	}
	config.HTTPClient = httpClient

	client := openai.NewClientWithConfig(config)

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o"
	}

	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = "dall-e-3"
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	initialDelay := cfg.InitialDelay
	if initialDelay == 0 {
		initialDelay = 2 * time.Second
	}

	backoffFactor := cfg.BackoffFactor
	if backoffFactor == 0 {
		backoffFactor = 2.0
	}

	return &OpenAIProvider{
		client:         client,
		chatModel:      chatModel,
		imageModel:     imageModel,
		maxRetries:     maxRetries,
		initialDelay:   initialDelay,
		backoffFactor:  backoffFactor,
		supportsText:   true,
		supportsImages: !cfg.DisableImages,
	}
}

// SupportsTextGeneration reports whether chat completion is available.
func (p *OpenAIProvider) SupportsTextGeneration() bool {
	return p.supportsText
}

// SupportsImageGeneration reports whether the image endpoint is available.
func (p *OpenAIProvider) SupportsImageGeneration() bool {
	return p.supportsImages
}

// Close is a no-op for the OpenAI provider.
func (p *OpenAIProvider) Close() error {
	return nil
}

// ChatCompletion generates a chat completion.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	if !p.supportsText {
		return ChatCompletionResponse{}, ErrUnsupportedOperation
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages()))
	for i, m := range req.Messages() {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role(),
			Content: m.Content(),
		}
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:    p.chatModel,
		Messages: messages,
	}

	if req.MaxTokens() > 0 {
		openaiReq.MaxTokens = req.MaxTokens()
	}
	if req.Temperature() > 0 {
		openaiReq.Temperature = req.Temperature()
	}

	var resp openai.ChatCompletionResponse
	var err error

	err = p.withRetry(ctx, func() error {
		resp, err = p.client.CreateChatCompletion(ctx, openaiReq)
		return err
	})

	if err != nil {
		return ChatCompletionResponse{}, p.wrapError("chat_completion", err)
	}

	if len(resp.Choices) == 0 {
		return ChatCompletionResponse{}, NewProviderError(
			"chat_completion", 0, "no choices in response", nil,
		)
	}

	usage := NewUsage(
		resp.Usage.PromptTokens,
		resp.Usage.CompletionTokens,
		resp.Usage.TotalTokens,
	)

	return NewChatCompletionResponse(
		resp.Choices[0].Message.Content,
		string(resp.Choices[0].FinishReason),
		usage,
	), nil
}

// GenerateImage generates a single image. DALL-E 3 only supports n=1, so
// multi-image requests are paced one call at a time by the caller.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, req ImageRequest) (ImageResponse, error) {
	if !p.supportsImages {
		return ImageResponse{}, ErrUnsupportedOperation
	}

	if err := req.Validate(); err != nil {
		return ImageResponse{}, err
	}
	if err := ScreenPrompt(req.Prompt()); err != nil {
		return ImageResponse{}, err
	}

	openaiReq := openai.ImageRequest{
		Model:   p.imageModel,
		Prompt:  EnhanceWithBranding(req.Prompt()),
		Size:    req.Size(),
		Quality: openai.CreateImageQualityStandard,
		N:       1,
	}

	var resp openai.ImageResponse
	var err error

	err = p.withRetry(ctx, func() error {
		resp, err = p.client.CreateImage(ctx, openaiReq)
		return err
	})

	if err != nil {
		return ImageResponse{}, p.wrapError("image_generation", err)
	}

	if len(resp.Data) == 0 {
		return ImageResponse{}, NewProviderError(
			"image_generation", 0, "no image data in response", nil,
		)
	}

	return NewImageResponse(resp.Data[0].URL, resp.Data[0].RevisedPrompt), nil
}

// EnhanceWithBranding appends the studio branding instruction to an image
// prompt. Every generated image carries the handle regardless of input.
func EnhanceWithBranding(prompt string) string {
	return fmt.Sprintf(
		"%s. MANDATORY: Include '%s' prominently and clearly visible in the image "+
			"(on a sign, window display, wall art, business card, or digital screen). "+
			"Make the branding professional and naturally integrated into the scene "+
			"as if it's the business name.",
		prompt, BrandingTag,
	)
}

// ScreenPrompt rejects prompts containing prohibited content.
func ScreenPrompt(prompt string) error {
	lower := strings.ToLower(prompt)
	for _, word := range prohibitedWords {
		if strings.Contains(lower, word) {
			return fmt.Errorf("prompt contains prohibited content")
		}
	}
	return nil
}

// withRetry executes the function with exponential backoff retry.
func (p *OpenAIProvider) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !p.isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func (p *OpenAIProvider) isRetryable(err error) bool {
	// HTTP client timeouts are retryable
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// Network errors are retryable
		return true
	}

	return false
}

// wrapError wraps an OpenAI error into a ProviderError.
func (p *OpenAIProvider) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(operation, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return NewProviderError(operation, 0, err.Error(), err)
}

// Ensure OpenAIProvider implements the interfaces.
var (
	_ Provider       = (*OpenAIProvider)(nil)
	_ TextGenerator  = (*OpenAIProvider)(nil)
	_ ImageGenerator = (*OpenAIProvider)(nil)
)

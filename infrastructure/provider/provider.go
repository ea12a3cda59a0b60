package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedOperation indicates the provider does not support the
// requested operation.
var ErrUnsupportedOperation = errors.New("operation not supported by this provider")

// Message is a single chat message.
type Message struct {
	role    string
	content string
}

// NewMessage creates a chat message.
func NewMessage(role, content string) Message {
	return Message{role: role, content: content}
}

// Role returns the message role (system, user, assistant).
func (m Message) Role() string { return m.role }

// Content returns the message content.
func (m Message) Content() string { return m.content }

// ChatCompletionRequest is a request for text generation.
type ChatCompletionRequest struct {
	messages    []Message
	maxTokens   int
	temperature float32
}

// NewChatCompletionRequest creates a chat completion request.
func NewChatCompletionRequest(messages []Message, maxTokens int, temperature float32) ChatCompletionRequest {
	return ChatCompletionRequest{
		messages:    messages,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Messages returns the conversation messages.
func (r ChatCompletionRequest) Messages() []Message { return r.messages }

// MaxTokens returns the completion token limit.
func (r ChatCompletionRequest) MaxTokens() int { return r.maxTokens }

// Temperature returns the sampling temperature.
func (r ChatCompletionRequest) Temperature() float32 { return r.temperature }

// Usage holds token accounting for a provider call.
type Usage struct {
	promptTokens     int
	completionTokens int
	totalTokens      int
}

// NewUsage creates a Usage record.
func NewUsage(prompt, completion, total int) Usage {
	return Usage{promptTokens: prompt, completionTokens: completion, totalTokens: total}
}

// PromptTokens returns the prompt token count.
func (u Usage) PromptTokens() int { return u.promptTokens }

// CompletionTokens returns the completion token count.
func (u Usage) CompletionTokens() int { return u.completionTokens }

// TotalTokens returns the total token count.
func (u Usage) TotalTokens() int { return u.totalTokens }

// ChatCompletionResponse is the result of a text generation call.
type ChatCompletionResponse struct {
	content      string
	finishReason string
	usage        Usage
}

// NewChatCompletionResponse creates a chat completion response.
func NewChatCompletionResponse(content, finishReason string, usage Usage) ChatCompletionResponse {
	return ChatCompletionResponse{content: content, finishReason: finishReason, usage: usage}
}

// Content returns the generated text.
func (r ChatCompletionResponse) Content() string { return r.content }

// FinishReason reports why generation stopped.
func (r ChatCompletionResponse) FinishReason() string { return r.finishReason }

// Usage returns token accounting for the call.
func (r ChatCompletionResponse) Usage() Usage { return r.usage }

// ImageRequest is a request for image generation.
type ImageRequest struct {
	prompt string
	size   string
}

// Image sizes accepted by the image endpoint.
const (
	ImageSizeSquare    = "1024x1024"
	ImageSizeLandscape = "1792x1024"
	ImageSizePortrait  = "1024x1792"
)

// Prompt length bounds enforced before any API call is made.
const (
	MinPromptLength = 10
	MaxPromptLength = 4000
)

// NewImageRequest creates an image generation request. An empty size
// defaults to square.
func NewImageRequest(prompt, size string) ImageRequest {
	if size == "" {
		size = ImageSizeSquare
	}
	return ImageRequest{prompt: prompt, size: size}
}

// Prompt returns the image prompt.
func (r ImageRequest) Prompt() string { return r.prompt }

// Size returns the requested image size.
func (r ImageRequest) Size() string { return r.size }

// Validate checks the prompt length and size against endpoint limits.
func (r ImageRequest) Validate() error {
	if len(r.prompt) < MinPromptLength {
		return fmt.Errorf("image prompt too short: %d characters, minimum %d", len(r.prompt), MinPromptLength)
	}
	if len(r.prompt) > MaxPromptLength {
		return fmt.Errorf("image prompt too long: %d characters, maximum %d", len(r.prompt), MaxPromptLength)
	}
	switch r.size {
	case ImageSizeSquare, ImageSizeLandscape, ImageSizePortrait:
		return nil
	default:
		return fmt.Errorf("unsupported image size %q", r.size)
	}
}

// ImageResponse is the result of an image generation call.
type ImageResponse struct {
	url           string
	revisedPrompt string
}

// NewImageResponse creates an image response.
func NewImageResponse(url, revisedPrompt string) ImageResponse {
	return ImageResponse{url: url, revisedPrompt: revisedPrompt}
}

// URL returns the hosted image URL.
func (r ImageResponse) URL() string { return r.url }

// RevisedPrompt returns the prompt the provider actually rendered,
// if it rewrote the input.
func (r ImageResponse) RevisedPrompt() string { return r.revisedPrompt }

// TextGenerator generates chat completions.
type TextGenerator interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error)
	SupportsTextGeneration() bool
}

// ImageGenerator generates images from prompts.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResponse, error)
	SupportsImageGeneration() bool
}

// Provider combines all generation capabilities.
type Provider interface {
	TextGenerator
	ImageGenerator
	Close() error
}

// ProviderError wraps a provider failure with operation context.
type ProviderError struct {
	operation  string
	statusCode int
	message    string
	cause      error
}

// NewProviderError creates a ProviderError.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		cause:      cause,
	}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.operation, e.message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.cause }

// Operation returns the failed operation name.
func (e *ProviderError) Operation() string { return e.operation }

// StatusCode returns the HTTP status from the provider, if any.
func (e *ProviderError) StatusCode() int { return e.statusCode }

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeChatServer mimics the OpenAI chat completions endpoint and tracks
// how many requests it received via the counter.
func fakeChatServer(t *testing.T, counter *atomic.Int64, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.Add(1)

		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]string{
						"role":    "assistant",
						"content": content,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{
				"prompt_tokens":     12,
				"completion_tokens": 34,
				"total_tokens":      46,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_ChatCompletion(t *testing.T) {
	var counter atomic.Int64
	srv := fakeChatServer(t, &counter, "Day 1 | Hair showcase | See our work | Video | Book today | #Hair | Morning (9-11am) | Book now! | Salon interior")
	defer srv.Close()

	p := NewOpenAIProviderFromConfig(OpenAIConfig{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		ChatModel: "gpt-4o",
	})

	req := NewChatCompletionRequest([]Message{
		NewMessage("system", "You are a salon content strategist."),
		NewMessage("user", "Generate day 1 for a hair salon in Austin."),
	}, 500, 0.7)

	resp, err := p.ChatCompletion(context.Background(), req)
	require.NoError(t, err)
	require.Contains(t, resp.Content(), "Day 1 |")
	require.Equal(t, "stop", resp.FinishReason())
	require.Equal(t, 46, resp.Usage().TotalTokens())
	require.EqualValues(t, 1, counter.Load())
}

func TestOpenAIProvider_ChatCompletionRetriesServerErrors(t *testing.T) {
	var counter atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if counter.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProviderFromConfig(OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
	})

	resp, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest(
		[]Message{NewMessage("user", "hi")}, 0, 0,
	))
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Content())
	require.EqualValues(t, 2, counter.Load())
}

func TestOpenAIProvider_ChatCompletionWrapsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProviderFromConfig(OpenAIConfig{
		APIKey:       "bad-key",
		BaseURL:      srv.URL,
		InitialDelay: time.Millisecond,
	})

	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest(
		[]Message{NewMessage("user", "hi")}, 0, 0,
	))
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, "chat_completion", provErr.Operation())
	require.Equal(t, http.StatusUnauthorized, provErr.StatusCode())
}

func TestOpenAIProvider_GenerateImage(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt string `json:"prompt"`
			N      int    `json:"n"`
			Size   string `json:"size"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPrompt = body.Prompt
		require.Equal(t, 1, body.N)
		require.Equal(t, ImageSizeSquare, body.Size)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://images.test/1.png","revised_prompt":"a salon"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProviderFromConfig(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})

	resp, err := p.GenerateImage(context.Background(), NewImageRequest("Modern salon interior with warm lighting", ""))
	require.NoError(t, err)
	require.Equal(t, "https://images.test/1.png", resp.URL())
	require.Contains(t, gotPrompt, BrandingTag)
}

func TestOpenAIProvider_GenerateImageValidatesPrompt(t *testing.T) {
	p := NewOpenAIProvider("test-key")

	_, err := p.GenerateImage(context.Background(), NewImageRequest("short", ""))
	require.ErrorContains(t, err, "too short")

	_, err = p.GenerateImage(context.Background(), NewImageRequest(strings.Repeat("a", MaxPromptLength+1), ""))
	require.ErrorContains(t, err, "too long")

	_, err = p.GenerateImage(context.Background(), NewImageRequest("salon interior shoot", "640x480"))
	require.ErrorContains(t, err, "unsupported image size")

	_, err = p.GenerateImage(context.Background(), NewImageRequest("violent salon scene please", ""))
	require.ErrorContains(t, err, "prohibited content")
}

func TestOpenAIProvider_ImagesDisabled(t *testing.T) {
	p := NewOpenAIProvider("test-key", WithoutImages())
	require.False(t, p.SupportsImageGeneration())

	_, err := p.GenerateImage(context.Background(), NewImageRequest("Modern salon interior", ""))
	require.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestEnhanceWithBranding(t *testing.T) {
	enhanced := EnhanceWithBranding("A stylist at work")
	require.True(t, strings.HasPrefix(enhanced, "A stylist at work."))
	require.Contains(t, enhanced, BrandingTag)
}

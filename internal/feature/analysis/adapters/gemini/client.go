// Package gemini provides image analysis and text summarization backed
// by the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"imagevault_backend/internal/feature/analysis/usecase"
	"imagevault_backend/internal/shared/ratelimiter"
)

const (
	// DefaultModel is the Gemini model used for both vision and text.
	DefaultModel = "gemini-2.5-flash"
)

// GeminiClient calls the Gemini API for image analysis and summarization.
type GeminiClient struct {
	client  *genai.Client
	model   string
	limiter ratelimiter.RateLimiterInterface
}

// Compile-time checks that GeminiClient satisfies the usecase ports.
var (
	_ usecase.ImageAnalyzer  = (*GeminiClient)(nil)
	_ usecase.TextSummarizer = (*GeminiClient)(nil)
)

// NewGeminiClient creates a client authenticated with the given API key.
// limiter may be nil to disable throttling.
func NewGeminiClient(ctx context.Context, apiKey string, limiter ratelimiter.RateLimiterInterface) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: DefaultModel, limiter: limiter}, nil
}

// AnalyzeImage sends the image bytes with the prompt and returns the
// model's free-text analysis.
func (g *GeminiClient) AnalyzeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	g.wait()

	parts := []*genai.Part{
		genai.NewPartFromBytes(image, http.DetectContentType(image)),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}

// Summarize generates a text completion for the prompt.
func (g *GeminiClient) Summarize(ctx context.Context, prompt string) (string, error) {
	g.wait()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiClient) wait() {
	if g.limiter != nil {
		g.limiter.WaitIfNeeded()
	}
}

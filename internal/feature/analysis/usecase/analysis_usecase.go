// Package usecase implements the business logic for the analysis feature.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"imagevault_backend/internal/feature/analysis/domain/entity"
)

const (
	// MaxImageSize is the upload size cap (10MB).
	MaxImageSize = 10 * 1024 * 1024

	// MaxCategories caps the number of categories attached to a result.
	MaxCategories = 5

	// maxCaptionLength truncates the extracted caption.
	maxCaptionLength = 100

	// summarizeThreshold is the analysis length above which a separate
	// summarization pass runs.
	summarizeThreshold = 500

	// maxLinkTextLength bounds how much fetched page text is summarized.
	maxLinkTextLength = 5000

	// defaultTimeout guards the external model calls. A hanging remote
	// call degrades to the fallback result instead of blocking the request.
	defaultTimeout = 30 * time.Second
)

// analysisPrompt is the base prompt sent with every image.
const analysisPrompt = `Analyze this image in detail and provide:
1. A comprehensive description of what you see
2. Identify key objects, people, activities, or scenes
3. Note colors, composition, and visual elements
4. Suggest 3-5 relevant categories/tags`

// Fallback texts used when no model backend is configured. They are
// deliberately recognizable in content; the response carries no separate
// fallback flag.
const (
	mockAnalysis = "Mock analysis: This appears to be an interesting image. The AI analysis is currently unavailable because the GEMINI_API_KEY is not configured."
	mockSummary  = "Mock summary: This text discusses various topics. The AI summarization is currently unavailable because the GEMINI_API_KEY is not configured."
)

// categoryKeywords is the keyword-dictionary classifier used when no
// label-detection backend is configured. Any case-insensitive substring
// match on the analysis text includes the category.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"nature", []string{"tree", "flower", "plant", "landscape", "mountain", "water", "sky", "outdoor"}},
	{"people", []string{"person", "people", "human", "face", "portrait", "group"}},
	{"animal", []string{"dog", "cat", "bird", "animal", "pet", "wildlife"}},
	{"food", []string{"food", "meal", "cooking", "restaurant", "kitchen", "eating"}},
	{"technology", []string{"computer", "phone", "device", "screen", "technology", "digital"}},
	{"vehicle", []string{"car", "truck", "bike", "plane", "vehicle", "transportation"}},
	{"building", []string{"building", "house", "architecture", "structure", "urban"}},
	{"art", []string{"painting", "artwork", "drawing", "artistic", "creative"}},
	{"sport", []string{"sport", "game", "playing", "exercise", "athletic"}},
	{"indoor", []string{"indoor", "inside", "room", "interior"}},
	{"outdoor", []string{"outdoor", "outside", "exterior", "landscape"}},
}

// ImageAnalyzer generates free-text analysis from image bytes and a prompt.
// Following Go convention, the interface is defined by the consumer
// (usecase) rather than the provider (adapters).
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, prompt string) (string, error)
}

// TextSummarizer generates a summary for a text prompt.
type TextSummarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// LabelDetector returns short keyword labels for an image. Optional; the
// keyword dictionary above is the fallback categorizer.
type LabelDetector interface {
	DetectLabels(ctx context.Context, image []byte) ([]string, error)
}

// LinkFetcher retrieves the readable text of a web page.
type LinkFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// analysisUsecase orchestrates the external AI boundary. Nothing raises
// past it: every failure mode maps to a labelled fallback result.
type analysisUsecase struct {
	analyzer   ImageAnalyzer
	summarizer TextSummarizer
	labels     LabelDetector
	links      LinkFetcher
	timeout    time.Duration
}

// NewAnalysisUsecase creates a new analysisUsecase. analyzer, summarizer
// and labels may all be nil; mock results are produced in that case.
func NewAnalysisUsecase(analyzer ImageAnalyzer, summarizer TextSummarizer, labels LabelDetector, links LinkFetcher, timeout time.Duration) *analysisUsecase {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &analysisUsecase{
		analyzer:   analyzer,
		summarizer: summarizer,
		labels:     labels,
		links:      links,
		timeout:    timeout,
	}
}

// AnalyzeImage analyzes raw image bytes with optional user context and
// always returns a populated result.
func (u *analysisUsecase) AnalyzeImage(ctx context.Context, image []byte, description, link string) *entity.ImageAnalysis {
	if len(image) > MaxImageSize {
		return errorResult(fmt.Errorf("image size exceeds maximum of %d bytes", MaxImageSize))
	}

	prompt := analysisPrompt
	if description != "" {
		prompt += "\n\nAdditional context provided by user: " + description
	}
	if link != "" {
		prompt += "\n\nRelated link context: " + link
	}

	analysis := mockAnalysis
	if u.analyzer != nil {
		callCtx, cancel := context.WithTimeout(ctx, u.timeout)
		defer cancel()

		text, err := u.analyzer.AnalyzeImage(callCtx, image, prompt)
		if err != nil {
			slog.Warn("image analysis call failed", "error", err)
			return errorResult(err)
		}
		analysis = strings.TrimSpace(text)
	}

	result := &entity.ImageAnalysis{
		FullAnalysis: analysis,
		Categories:   u.extractCategories(ctx, image, analysis),
		Caption:      extractCaption(analysis),
		Summary:      analysis,
	}

	// Long analyses get a dedicated summarization pass.
	if len(analysis) > summarizeThreshold {
		result.Summary = u.summarize(ctx, "Provide a concise summary of this image analysis: "+analysis)
	}

	return result
}

// errorResult is the clearly-labelled fallback for a failed analysis.
func errorResult(err error) *entity.ImageAnalysis {
	msg := err.Error()
	return &entity.ImageAnalysis{
		Summary:      "Image analysis encountered an error: " + msg,
		Categories:   []string{"error", "fallback"},
		Caption:      "Analysis failed",
		FullAnalysis: "Error details: " + msg,
	}
}

// extractCategories prefers the label-detection backend when configured
// and falls back to the keyword dictionary, capped at MaxCategories with
// "general" as the last resort.
func (u *analysisUsecase) extractCategories(ctx context.Context, image []byte, analysis string) []string {
	if u.labels != nil {
		callCtx, cancel := context.WithTimeout(ctx, u.timeout)
		defer cancel()

		labels, err := u.labels.DetectLabels(callCtx, image)
		if err != nil {
			slog.Warn("label detection failed, using keyword classifier", "error", err)
		} else if len(labels) > 0 {
			out := make([]string, 0, MaxCategories)
			for _, l := range labels {
				out = append(out, strings.ToLower(l))
				if len(out) == MaxCategories {
					break
				}
			}
			return out
		}
	}
	return classifyByKeywords(analysis)
}

// classifyByKeywords matches the keyword dictionary against the analysis
// text, case-insensitively.
func classifyByKeywords(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(lower, kw) {
				found = append(found, ck.category)
				break
			}
		}
		if len(found) == MaxCategories {
			break
		}
	}
	if len(found) == 0 {
		return []string{"general"}
	}
	return found
}

// extractCaption returns the first sentence longer than 10 characters,
// truncated to maxCaptionLength.
func extractCaption(text string) string {
	for _, sentence := range strings.Split(text, ".") {
		trimmed := strings.TrimSpace(sentence)
		if len(trimmed) > 10 {
			if len(trimmed) > maxCaptionLength {
				return trimmed[:maxCaptionLength] + "..."
			}
			return trimmed
		}
	}
	return "Image analysis"
}

// SummarizeLink fetches a reference link and summarizes its page text.
// Fetch and summarization failures yield an error-text fallback, never
// an error.
func (u *analysisUsecase) SummarizeLink(ctx context.Context, url string) string {
	if u.links == nil {
		return "Error fetching link: no link fetcher configured"
	}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	text, err := u.links.FetchText(callCtx, url)
	if err != nil {
		return fmt.Sprintf("Error fetching link: %v", err)
	}
	if len(text) > maxLinkTextLength {
		text = text[:maxLinkTextLength]
	}
	return u.summarize(ctx, "Summarize this page:\n"+text)
}

// summarize runs the text summarizer with the timeout guard, degrading
// to the original text or a mock when the backend is missing or fails.
func (u *analysisUsecase) summarize(ctx context.Context, prompt string) string {
	if u.summarizer == nil {
		return mockSummary
	}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	out, err := u.summarizer.Summarize(callCtx, prompt)
	if err != nil {
		slog.Warn("text summarization failed", "error", err)
		return fmt.Sprintf("Text summarization failed: %v", err)
	}
	return strings.TrimSpace(out)
}

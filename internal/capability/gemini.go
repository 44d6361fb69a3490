package capability

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/meetwrap/meetwrap/internal/logger"
)

const chunkPrompt = `Summarize the following meeting transcript excerpt in 50 to 150 words. Keep the original chronological order of events, keep speaker attributions where they matter, and do not add information that is not in the excerpt.

Excerpt:
---
%s
---`

// maxSummaryTokens bounds per-chunk generation so merged summaries stay
// proportional to the transcript.
const maxSummaryTokens = 150

type geminiSummarizer struct {
	name   string
	model  string
	apiKey string
	logger logger.Logger
}

// NewGeminiSummarizer creates a Summarizer that sends each chunk to the
// Gemini model identified by modelID. It is registered under alias, the
// model name callers select at upload time.
func NewGeminiSummarizer(alias, modelID, apiKey string, log logger.Logger) Summarizer {
	return &geminiSummarizer{
		name:   alias,
		model:  modelID,
		apiKey: apiKey,
		logger: log,
	}
}

func (g *geminiSummarizer) Name() string {
	return g.name
}

// Summarize condenses one transcript chunk. Decoding is deterministic
// (temperature zero) so repeated runs over the same audio produce the
// same summary.
func (g *geminiSummarizer) Summarize(ctx context.Context, chunk string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: maxSummaryTokens,
	}

	prompt := fmt.Sprintf(chunkPrompt, chunk)
	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from %s", g.model)
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	summary := strings.TrimSpace(text.String())
	if summary == "" {
		return "", fmt.Errorf("empty summary from %s", g.model)
	}
	return summary, nil
}

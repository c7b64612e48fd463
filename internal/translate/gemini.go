// Package translate produces the Korean/Chinese bilingual pair for
// submitted listings using Gemini structured output.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"yanjihub/internal/observability"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Input is the submitter-provided text in whichever language they wrote.
type Input struct {
	Title       string
	Description string
}

// Result is the bilingual rendering stored on the post.
type Result struct {
	TitleKR       string `json:"title_kr"`
	TitleCN       string `json:"title_cn"`
	DescriptionKR string `json:"description_kr"`
	DescriptionCN string `json:"description_cn"`
}

// Translator renders submissions into both display languages.
type Translator interface {
	Translate(ctx context.Context, in Input) (*Result, error)
}

// Client is the Gemini-backed Translator. A nil Client degrades to
// passthrough, mirroring the text into both languages; submissions keep
// working without an API key.
type Client struct {
	model     *genai.GenerativeModel
	modelName string
}

// NewClient creates a Gemini translation client. Returns nil when no API
// key is configured.
func NewClient(ctx context.Context, apiKey, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelID)
	model.SetTemperature(0.1) // Low temperature for deterministic output
	model.ResponseMIMEType = "application/json"

	// Define the schema for Structured Outputs
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title_kr": {
				Type:        genai.TypeString,
				Description: "The listing title in natural Korean. Translate if the source is Chinese, otherwise lightly clean up.",
			},
			"title_cn": {
				Type:        genai.TypeString,
				Description: "The listing title in natural Simplified Chinese. Translate if the source is Korean, otherwise lightly clean up.",
			},
			"description_kr": {
				Type:        genai.TypeString,
				Description: "The listing description in Korean, preserving phone numbers, prices and addresses verbatim.",
			},
			"description_cn": {
				Type:        genai.TypeString,
				Description: "The listing description in Simplified Chinese, preserving phone numbers, prices and addresses verbatim.",
			},
		},
		Required: []string{"title_kr", "title_cn", "description_kr", "description_cn"},
	}

	return &Client{model: model, modelName: modelID}, nil
}

// Translate renders the submission into both languages. Errors mean the
// submission must not be persisted; the caller surfaces them as a
// translation failure.
func (c *Client) Translate(ctx context.Context, in Input) (*Result, error) {
	if c == nil || c.model == nil {
		// Graceful degradation: mirror the source text into both slots.
		return &Result{
			TitleKR:       in.Title,
			TitleCN:       in.Title,
			DescriptionKR: in.Description,
			DescriptionCN: in.Description,
		}, nil
	}

	ctx, span := observability.GetTraceLayer().TraceTranslation(ctx, c.modelName)
	defer span.End()

	prompt := fmt.Sprintf(`
Translate this classifieds listing for a bilingual Korean/Chinese portal serving Yanji:
Title: %q
Description: %q

Task:
1. Produce the title and description in both Korean and Simplified Chinese.
2. Keep phone numbers, WeChat IDs, prices and addresses exactly as written.
3. Do not add information that is not in the source.

Output JSON adhering to the schema.
`, in.Title, in.Description)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		observability.TranslationFailures.Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		observability.TranslationFailures.Inc()
		return nil, fmt.Errorf("no response candidates from gemini")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			// Clean up potential markdown formatting just in case
			jsonStr := strings.TrimSpace(string(txt))
			jsonStr = strings.TrimPrefix(jsonStr, "```json")
			jsonStr = strings.TrimPrefix(jsonStr, "```")
			jsonStr = strings.TrimSuffix(jsonStr, "```")

			var result Result
			if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
				observability.TranslationFailures.Inc()
				return nil, fmt.Errorf("failed to parse gemini response: %w", err)
			}
			return &result, nil
		}
	}

	observability.TranslationFailures.Inc()
	return nil, fmt.Errorf("no text part in response")
}

// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/marketdash/internal/common"
	"github.com/bobmcallan/marketdash/internal/interfaces"
	"github.com/bobmcallan/marketdash/internal/models"
)

const (
	DefaultModel       = "gemini-2.0-flash"
	DefaultMaxArticles = 20
)

// Client implements the GeminiClient interface
type Client struct {
	client      *genai.Client
	model       string
	maxArticles int
	logger      *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxArticles caps the number of headlines included in one prompt
func WithMaxArticles(max int) ClientOption {
	return func(c *Client) {
		if max > 0 {
			c.maxArticles = max
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:      genaiClient,
		model:       DefaultModel,
		maxArticles: DefaultMaxArticles,
		logger:      common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// SummarizeArticles condenses the headlines for one symbol into a short
// narrative paragraph.
func (c *Client) SummarizeArticles(ctx context.Context, symbol string, articles []models.NewsArticle) (string, error) {
	if len(articles) == 0 {
		return "", fmt.Errorf("no articles to summarize for %s", symbol)
	}

	prompt := fmt.Sprintf(`Summarize the following recent news headlines about %s in a single paragraph of at most 80 words. Focus on market-moving facts; do not speculate beyond the headlines.

%s`, symbol, formatArticles(articles, c.maxArticles))

	text, err := c.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// sentimentResult is the JSON shape requested from the model.
type sentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// ClassifySentiment labels the aggregate sentiment of the headlines.
func (c *Client) ClassifySentiment(ctx context.Context, symbol string, articles []models.NewsArticle) (string, float64, error) {
	if len(articles) == 0 {
		return "", 0, fmt.Errorf("no articles to classify for %s", symbol)
	}

	prompt := fmt.Sprintf(`Classify the aggregate market sentiment of the following news headlines about %s.

Respond with JSON only, no prose, in exactly this shape:
{"sentiment": "positive|negative|neutral", "confidence": 0.0}

%s`, symbol, formatArticles(articles, c.maxArticles))

	text, err := c.GenerateContent(ctx, prompt)
	if err != nil {
		return "", 0, err
	}

	return parseSentimentResponse(text)
}

// parseSentimentResponse decodes the model output, tolerating markdown code
// fences around the JSON.
func parseSentimentResponse(text string) (string, float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result sentimentResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return "", 0, fmt.Errorf("failed to parse sentiment response: %w", err)
	}

	switch result.Sentiment {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
	default:
		return "", 0, fmt.Errorf("unexpected sentiment label %q", result.Sentiment)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return "", 0, fmt.Errorf("confidence %v out of range", result.Confidence)
	}

	return result.Sentiment, result.Confidence, nil
}

func formatArticles(articles []models.NewsArticle, max int) string {
	if max > 0 && len(articles) > max {
		articles = articles[:max]
	}
	var sb strings.Builder
	for _, a := range articles {
		sb.WriteString("- ")
		sb.WriteString(a.Title)
		if a.Summary != "" {
			sb.WriteString(": ")
			sb.WriteString(a.Summary)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements GeminiClient
var _ interfaces.GeminiClient = (*Client)(nil)

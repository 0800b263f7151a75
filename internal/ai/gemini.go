package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// GeminiClient scores news articles using the Gemini API
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-3-flash-preview"
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close closes the client connection
func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

const analyzePrompt = `You are screening news for an oil & gas trading company.
Rate the article below for relevance to crude oil, refined products (PMS, AGO,
jet fuel), OPEC policy, or petroleum trading, and classify its market tone.
Respond with ONLY a JSON object: {"relevance": <0.0-1.0>, "sentiment": "positive"|"neutral"|"negative"}.

Title: %s
Summary: %s`

type analyzeResult struct {
	Relevance float64 `json:"relevance"`
	Sentiment string  `json:"sentiment"`
}

// Analyze scores an article's relevance (0..1) and market sentiment
func (c *GeminiClient) Analyze(ctx context.Context, title, summary string) (float64, models.Sentiment, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(analyzePrompt, title, summary)))
	if err != nil {
		return 0, models.SentimentNeutral, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0, models.SentimentNeutral, fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	result, err := parseAnalysis(fullText)
	if err != nil {
		return 0, models.SentimentNeutral, err
	}

	score := result.Relevance
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	sentiment := models.Sentiment(result.Sentiment)
	switch sentiment {
	case models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
	default:
		sentiment = models.SentimentNeutral
	}

	return score, sentiment, nil
}

// parseAnalysis extracts the JSON object from a model response, tolerating
// markdown fences around it
func parseAnalysis(text string) (*analyzeResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var result analyzeResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	return &result, nil
}

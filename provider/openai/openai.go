package openai_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"newsight/models"
)

const (
	openaiAPIURL = "https://api.openai.com/v1/chat/completions"
)

const extractSystemPrompt = `You are a precise data extraction assistant. Your task is to extract individual insights from news articles and format them as a JSON array.

IMPORTANT: Your response must be a valid JSON array containing objects. Each object must have exactly these fields:
- insight: A clear, concise statement of one specific fact or development
- source_title: The title of the source article
- source_link: The URL of the source article

Guidelines:
1. Extract specific, factual insights
2. Include source information for each insight
3. Ensure each insight is unique
4. Focus on recent developments
5. Keep insights concise and clear

Respond ONLY with the JSON array. Do not include any other text or explanation.`

// client implements the Provider interface using OpenAI's chat completions API
type client struct {
	apiKey          string
	completionModel string
	temperature     float64
	maxTokens       int
	httpClient      *http.Client
	logger          *log.Logger
	baseURL         string
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a request to the OpenAI API
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a response from the OpenAI API
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey, completionModel string, temperature float64, maxTokens int, timeout time.Duration) *client {
	return &client{
		apiKey:          apiKey,
		completionModel: completionModel,
		temperature:     temperature,
		maxTokens:       maxTokens,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          log.New(log.Writer(), "[OPENAI] ", log.LstdFlags),
		baseURL:         openaiAPIURL,
	}
}

// ExtractInsights asks the model for a JSON array of attributed factual claims
// drawn from the given articles. Malformed model output degrades to an empty
// or partial list; only transport-level failures return an error.
func (c *client) ExtractInsights(ctx context.Context, topic string, articles []models.Article) ([]models.Insight, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing api key", models.ErrExtractorUnavailable)
	}

	var content strings.Builder
	fmt.Fprintf(&content, "Here are recent news articles about '%s':\n\n", topic)
	for i, article := range articles {
		fmt.Fprintf(&content, "Article %d:\n", i+1)
		fmt.Fprintf(&content, "Title: %s\n", article.Title)
		fmt.Fprintf(&content, "Summary: %s\n", article.Snippet)
		if !article.PublishedAt.IsZero() {
			fmt.Fprintf(&content, "Date: %s\n", article.PublishedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(&content, "Link: %s\n\n", article.Link)
	}

	messages := []Message{
		{Role: "system", Content: extractSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Please extract individual insights from these news articles about %s and format them as a JSON array:\n\n%s", topic, content.String())},
	}

	responseStr, err := c.sendRequest(ctx, messages)
	if err != nil {
		return nil, err
	}
	return c.parseInsights(responseStr), nil
}

// parseInsights validates the model output. A non-array response rejects the
// whole batch; elements missing a required field are dropped individually.
func (c *client) parseInsights(raw string) []models.Insight {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var elements []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		c.logger.Printf("model output is not a JSON array, dropping batch: %v", err)
		return []models.Insight{}
	}

	insights := make([]models.Insight, 0, len(elements))
	for _, el := range elements {
		text, _ := el["insight"].(string)
		title, _ := el["source_title"].(string)
		link, _ := el["source_link"].(string)
		if text == "" || title == "" || link == "" {
			c.logger.Printf("skipping insight with missing fields: %v", el)
			continue
		}
		insights = append(insights, models.Insight{Insight: text, SourceTitle: title, SourceLink: link})
	}
	return insights
}

func (c *client) sendRequest(ctx context.Context, messages []Message) (string, error) {
	requestBody := request{
		Model:       c.completionModel,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrExtractorUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrExtractorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: api status %d", models.ErrExtractorUnavailable, resp.StatusCode)
	}

	var openaiResp response
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", models.ErrExtractorUnavailable, err)
	}
	if len(openaiResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", models.ErrExtractorUnavailable)
	}

	return openaiResp.Choices[0].Message.Content, nil
}

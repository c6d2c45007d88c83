// Package llm provides a row classifier backed by an OpenAI-compatible
// chat-completions endpoint. A single failed or malformed call surfaces
// as an error; the pipeline degrades to its deterministic fallback and
// never retries.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"sheetsense/domain/table"
	apperrors "sheetsense/internal/errors"
)

// Config holds the settings for the classifier's LLM calls.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfig returns settings suitable for header classification:
// low temperature, modest token budget.
func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       model,
		BaseURL:     "https://api.openai.com/v1",
		Temperature: 0.1,
		MaxTokens:   2000,
		Timeout:     60 * time.Second,
	}
}

// Classifier asks the model to split sample rows into decorative labels
// and header rows, forcing a JSON object response.
type Classifier struct {
	config Config
	client *http.Client
}

// NewClassifier creates a model-backed row classifier.
func NewClassifier(config Config) *Classifier {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	log.Printf("[LLMClassifier] Initialized with model=%s, temp=%.2f, timeout=%v",
		config.Model, config.Temperature, config.Timeout)
	return &Classifier{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

const systemMessage = "You are an expert at analyzing Excel spreadsheet structures. " +
	"Your task is to classify rows as either 'labels' (descriptive text to remove) " +
	"or 'header' (table headers to keep and merge). Respond with valid JSON."

// Classify implements ports.RowClassifier.
func (c *Classifier) Classify(ctx context.Context, sample [][]string, sheetName string) (table.RowClassification, error) {
	var zero table.RowClassification
	if c.config.APIKey == "" {
		return zero, apperrors.ClassifierUnavailable(fmt.Errorf("no API key configured"))
	}

	content, err := c.complete(ctx, buildPrompt(sample, sheetName))
	if err != nil {
		return zero, apperrors.ClassifierUnavailable(err)
	}

	classification, err := parseClassification(content)
	if err != nil {
		log.Printf("[LLMClassifier] Malformed response for sheet %q: %v", sheetName, err)
		return zero, apperrors.ClassifierUnavailable(err)
	}

	log.Printf("[LLMClassifier] Sheet %q classified: labels=%v header=%v",
		sheetName, classification.LabelRows, classification.HeaderRows)
	return classification, nil
}

// buildPrompt renders the sample with 1-based row numbers so the model's
// indices line up with the classification contract.
func buildPrompt(sample [][]string, sheetName string) string {
	var sb strings.Builder
	for i, row := range sample {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, strings.Join(row, " | "))
	}

	return fmt.Sprintf(`Analyze the following spreadsheet sample rows and classify each row as either:
1. "labels" - descriptive text, titles, notes, or explanatory rows that should be removed
2. "header" - rows that are part of the table header structure (may be multi-level)

Sheet name: %s

Sample rows (1-based row numbers shown on left):
%s
Return a JSON object with this structure:
{"labels": [row indices that are descriptive labels to remove], "header": [row indices that form the table header]}

Rules:
- Row indices are 1-based (first row is 1, not 0)
- If there are no label rows, use an empty list: "labels": []
- Header rows include all rows that form the table structure (can be multi-level)
- Data rows must NOT appear in either list

Return only valid JSON, no additional text.`, sheetName, sb.String())
}

// complete sends one chat-completions request and returns the message
// content.
func (c *Classifier) complete(ctx context.Context, prompt string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type responseFormat struct {
		Type string `json:"type"`
	}
	type requestBody struct {
		Model               string         `json:"model"`
		Messages            []message      `json:"messages"`
		Temperature         float64        `json:"temperature,omitempty"`
		MaxCompletionTokens int            `json:"max_completion_tokens,omitempty"`
		ResponseFormat      responseFormat `json:"response_format,omitempty"`
	}

	reqBody := requestBody{
		Model: c.config.Model,
		Messages: []message{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
		Temperature:         c.config.Temperature,
		MaxCompletionTokens: c.config.MaxTokens,
		ResponseFormat:      responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("request timeout after %v: %w", c.config.Timeout, err)
		}
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to parse completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion")
	}
	return completion.Choices[0].Message.Content, nil
}

// parseClassification decodes the model's JSON object. A response missing
// either the "labels" or the "header" key is malformed.
func parseClassification(content string) (table.RowClassification, error) {
	var zero table.RowClassification

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return zero, fmt.Errorf("invalid JSON: %w", err)
	}

	labelsRaw, ok := raw["labels"]
	if !ok {
		return zero, fmt.Errorf("response missing \"labels\"")
	}
	headerRaw, ok := raw["header"]
	if !ok {
		return zero, fmt.Errorf("response missing \"header\"")
	}

	var labels, header []int
	if err := json.Unmarshal(labelsRaw, &labels); err != nil {
		return zero, fmt.Errorf("invalid \"labels\" value: %w", err)
	}
	if err := json.Unmarshal(headerRaw, &header); err != nil {
		return zero, fmt.Errorf("invalid \"header\" value: %w", err)
	}

	if labels == nil {
		labels = []int{}
	}
	if header == nil {
		header = []int{}
	}
	sort.Ints(labels)
	sort.Ints(header)

	return table.RowClassification{LabelRows: labels, HeaderRows: header}, nil
}

package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kambuka/storagebot/internal/logger"
)

func init() {
	Register("openai", NewOpenAISuggester)
	Register("zhipu", NewOpenAISuggester) // Z.AI uses OpenAI-compatible API
}

// OpenAISuggester implements Suggester against an OpenAI-compatible
// chat-completions endpoint.
type OpenAISuggester struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	log     *slog.Logger
}

// NewOpenAISuggester creates an OpenAI-compatible suggester.
func NewOpenAISuggester(cfg Config) (Suggester, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAISuggester{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   model,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logger.L().With("component", "suggest", "model", model),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Suggest sends one single-turn completion request and returns the generated
// sentence.
func (s *OpenAISuggester) Suggest(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   80,
		Temperature: 0.9,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("request failed", "error", err)
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	if result.Error != nil {
		s.log.Warn("API error", "message", result.Error.Message, "type", result.Error.Type)
		return "", fmt.Errorf("API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty suggestion")
	}

	s.log.Debug("suggestion received", "duration_ms", time.Since(startTime).Milliseconds())
	return text, nil
}

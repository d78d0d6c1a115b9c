package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// CompletionService talks to an OpenAI-compatible chat completions endpoint.
// Both the primary (Gemini) and secondary (OpenAI) providers are instances
// of this type pointed at different URLs.
type CompletionService struct {
	name   string
	apiURL string
	apiKey string
	model  string
	client *http.Client
	logger *zap.SugaredLogger
}

// NewCompletionService creates a new CompletionService instance
func NewCompletionService(name, apiURL, apiKey, model string, logger *zap.SugaredLogger) *CompletionService {
	return &CompletionService{
		name:   name,
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

// Name identifies the provider in logs and macro result provenance.
func (s *CompletionService) Name() string {
	return s.name
}

// chatMessage represents a message in the chat
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest represents a request to the completion API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns the raw text reply.
func (s *CompletionService) Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Warnw("completion provider returned error status",
			"provider", s.name, "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("%s request failed with status %d", s.name, resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", s.name)
	}

	return result.Choices[0].Message.Content, nil
}

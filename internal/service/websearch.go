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

	"github.com/mealwise/mealwise-backend/internal/types"
)

// WebAnswerService answers prompts through a search-grounded completion
// endpoint that returns citations alongside the text.
type WebAnswerService struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
	logger *zap.SugaredLogger
}

// NewWebAnswerService creates a new WebAnswerService instance
func NewWebAnswerService(apiURL, apiKey, model string, logger *zap.SugaredLogger) *WebAnswerService {
	return &WebAnswerService{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

type webSearchResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations     []string `json:"citations"`
	SearchResults []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"search_results"`
}

// Answer returns a web-grounded reply with the first citation, when the
// provider supplies one. Errors propagate so the caller can fall back to a
// plain completion with a disclosure.
func (s *WebAnswerService) Answer(ctx context.Context, prompt string) (*types.WebAnswer, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "Answer concisely using current web information. Cite sources."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call web answer provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Warnw("web answer provider returned error status",
			"status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("web answer request failed with status %d", resp.StatusCode)
	}

	var result webSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from web answer provider")
	}

	answer := &types.WebAnswer{Text: result.Choices[0].Message.Content}
	if len(result.SearchResults) > 0 {
		answer.CitationURL = result.SearchResults[0].URL
		answer.CitationTitle = result.SearchResults[0].Title
	} else if len(result.Citations) > 0 {
		answer.CitationURL = result.Citations[0]
	}

	return answer, nil
}

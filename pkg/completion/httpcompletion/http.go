// Package httpcompletion adapts an HTTP chat-completion endpoint (any
// provider speaking a {messages, model} request / {content} response
// JSON shape) to completion.Service.
package httpcompletion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ninthcircle/conclave/pkg/completion"
)

// Service calls a single chat-completion HTTP endpoint.
type Service struct {
	baseURL string
	apiKey  string
	httpC   *http.Client
}

// New creates a Service against the given endpoint, authenticated with a
// bearer token.
func New(baseURL, apiKey string) *Service {
	return &Service{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpC:   &http.Client{Timeout: 60 * time.Second},
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type wireResponse struct {
	Content    string `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete POSTs the conversation to the configured endpoint and decodes
// the provider's reply.
func (s *Service) Complete(ctx context.Context, req completion.Request) (completion.Response, error) {
	wireMsgs := make([]wireMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		wireMsgs = append(wireMsgs, wireMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(wireRequest{
		Model:       req.Model,
		Messages:    wireMsgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return completion.Response{}, fmt.Errorf("httpcompletion: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/complete", bytes.NewReader(payload))
	if err != nil {
		return completion.Response{}, fmt.Errorf("httpcompletion: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpC.Do(httpReq)
	if err != nil {
		return completion.Response{}, fmt.Errorf("httpcompletion: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return completion.Response{}, fmt.Errorf("httpcompletion: status %d: %s", resp.StatusCode, body)
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return completion.Response{}, fmt.Errorf("httpcompletion: decode response: %w", err)
	}

	stop := completion.StopEndTurn
	if wr.StopReason == "max_tokens" {
		stop = completion.StopMaxTokens
	}

	return completion.Response{
		Content:    wr.Content,
		StopReason: stop,
		Usage: completion.Usage{
			InputTokens:  wr.Usage.InputTokens,
			OutputTokens: wr.Usage.OutputTokens,
		},
	}, nil
}

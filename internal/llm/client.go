package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patternworks/tess/internal/domain"
)

// RolePrompt is the fixed role prompt sent with every request.
const RolePrompt = "You are Tess, an expert UI Patterns 2 developer specializing in Drupal. " +
	"You have deep knowledge of component architecture, Twig templating, and Tailwind CSS. " +
	"Your primary goal is to help developers implement UI Patterns 2 components correctly. " +
	"You understand the critical differences between UI Patterns 1.x and 2.x, especially that " +
	"UI Patterns 2.x uses props (not settings) which are accessed directly in Twig via " +
	"{{ prop_name }} (not {{ settings.prop_name }})."

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a provider client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// chatCompletionRequest is the chat completion request body.
type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is one message on the wire.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the chat completion response body.
type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Index        int          `json:"index"`
	Message      *chatMessage `json:"message,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// errorResponse is an API error response.
type errorResponse struct {
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// Invoke sends the conversation to the provider and returns the reply
// text. The role prompt rides along as a system message unless the
// history already opens with one.
func (c *Client) Invoke(ctx context.Context, messages []domain.Message) (string, error) {
	wire := make([]chatMessage, 0, len(messages)+1)
	if len(messages) == 0 || messages[0].Role != domain.RoleSystem {
		wire = append(wire, chatMessage{Role: string(domain.RoleSystem), Content: RolePrompt})
	}
	for _, m := range messages {
		wire = append(wire, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(chatCompletionRequest{Model: c.model, Messages: wire})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrProvider, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrProvider, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: send request: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return "", fmt.Errorf("%w: API error [%d]: %s (type: %s)",
				domain.ErrProvider, resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return "", fmt.Errorf("%w: API error [%d]: %s", domain.ErrProvider, resp.StatusCode, string(respBody))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", domain.ErrProvider, err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message == nil {
		return "", fmt.Errorf("%w: response contained no choices", domain.ErrProvider)
	}

	return result.Choices[0].Message.Content, nil
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
)

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	client    *http.Client
	endpoint  string
	apiKey    string
	model     string
	maxTokens int64
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator wires a chat completions client rooted at baseURL (e.g. https://api.openai.com/v1).
func NewOpenAIGenerator(client *http.Client, baseURL, apiKey, model string, maxTokens int64) *OpenAIGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIGenerator{
		client:    client,
		endpoint:  strings.TrimRight(baseURL, "/") + "/chat/completions",
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int64         `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt as the only user message and returns the trimmed first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", eris.New("openai: api key is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:     g.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "openai: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "openai: new request")
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "openai: send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", eris.Wrap(err, "openai: read response")
	}

	var data chatResponse
	if jsonErr := json.Unmarshal(raw, &data); jsonErr != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", eris.Errorf("openai: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
		}
		return "", eris.Wrap(jsonErr, "openai: decode response")
	}
	if data.Error != nil && data.Error.Message != "" {
		return "", eris.Errorf("openai: %s", data.Error.Message)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", eris.Errorf("openai: %s", resp.Status)
	}
	if len(data.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return strings.TrimSpace(data.Choices[0].Message.Content), nil
}

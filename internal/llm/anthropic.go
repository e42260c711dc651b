package llm

import (
	"context"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultAnthropicMaxTokens = 150

// AnthropicGenerator drafts completions through the Anthropic Messages API.
type AnthropicGenerator struct {
	client    sdk.Client
	model     string
	maxTokens int64
	hasKey    bool
}

var _ Generator = (*AnthropicGenerator)(nil)

// NewAnthropicGenerator builds a generator backed by the official SDK. SDK retries are
// disabled so a failed call surfaces immediately.
func NewAnthropicGenerator(apiKey, model string, maxTokens int64, timeout time.Duration, opts ...option.RequestOption) *AnthropicGenerator {
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		base = append(base, option.WithRequestTimeout(timeout))
	}
	return &AnthropicGenerator{
		client:    sdk.NewClient(append(base, opts...)...),
		model:     model,
		maxTokens: maxTokens,
		hasKey:    apiKey != "",
	}
}

// Generate sends prompt as a single user message and joins the returned text blocks.
func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.hasKey {
		return "", eris.New("anthropic: api key is not configured")
	}

	msg, err := g.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	zap.L().Debug("anthropic: message created",
		zap.String("model", string(msg.Model)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

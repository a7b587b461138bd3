package adapter

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"
)

const defaultClaudeMaxTokens = 1024

// ClaudeClient wraps the Anthropic SDK as a TextGenerator. Claude does not
// offer image generation; callers needing images go through another provider.
type ClaudeClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

type ClaudeOption func(*ClaudeClient)

// WithClaudeModel overrides the default model
func WithClaudeModel(model string) ClaudeOption {
	return func(c *ClaudeClient) {
		c.model = anthropic.Model(model)
	}
}

// NewClaude creates a new Claude adapter
func NewClaude(apiKey string, opts ...ClaudeOption) *ClaudeClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	c := &ClaudeClient{
		client: &client,
		model:  anthropic.ModelClaudeSonnet4_0,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ClaudeClient) GenerateText(ctx context.Context, prompt string, opts ...TextOption) (string, error) {
	o := applyTextOptions(opts)

	maxTokens := int64(defaultClaudeMaxTokens)
	if o.MaxTokens > 0 {
		maxTokens = int64(o.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if o.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*o.Temperature))
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call claude")
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", goerr.New("no text content in claude response")
}

var _ TextGenerator = (*ClaudeClient)(nil)

package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient wraps the OpenAI API for text (GPT) and image (DALL-E)
// generation.
type OpenAIClient struct {
	client     *openai.Client
	textModel  string
	imageModel string
}

type OpenAIOption func(*OpenAIClient)

// WithOpenAITextModel overrides the default chat model
func WithOpenAITextModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.textModel = model
	}
}

// WithOpenAIImageModel overrides the default image model
func WithOpenAIImageModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.imageModel = model
	}
}

// NewOpenAI creates a new OpenAI adapter
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		client:     openai.NewClient(apiKey),
		textModel:  openai.GPT4oMini,
		imageModel: openai.CreateImageModelDallE3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string, opts ...TextOption) (string, error) {
	o := applyTextOptions(opts)

	req := openai.ChatCompletionRequest{
		Model: c.textModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if o.Temperature != nil {
		req.Temperature = *o.Temperature
	}
	if o.MaxTokens > 0 {
		req.MaxTokens = o.MaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", goerr.New("empty response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call openai image generation")
	}
	if len(resp.Data) == 0 {
		return nil, goerr.New("no image data from openai")
	}
	return &Image{URL: resp.Data[0].URL, MIMEType: "image/png"}, nil
}

var (
	_ TextGenerator  = (*OpenAIClient)(nil)
	_ ImageGenerator = (*OpenAIClient)(nil)
)

package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	ollama "github.com/ollama/ollama/api"
)

// OllamaClient runs text generation against a local Ollama daemon. Useful as a
// no-API-key fallback in the provider chain.
type OllamaClient struct {
	client *ollama.Client
	model  string
}

// NewOllama creates a new Ollama adapter for the given host (e.g.
// "http://localhost:11434").
func NewOllama(host, model string) (*OllamaClient, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid ollama host", goerr.V("host", host))
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	return &OllamaClient{
		client: ollama.NewClient(u, httpClient),
		model:  model,
	}, nil
}

func (c *OllamaClient) GenerateText(ctx context.Context, prompt string, opts ...TextOption) (string, error) {
	o := applyTextOptions(opts)

	options := map[string]any{}
	if o.Temperature != nil {
		options["temperature"] = *o.Temperature
	}
	if o.MaxTokens > 0 {
		options["num_predict"] = o.MaxTokens
	}

	req := &ollama.GenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Options: options,
	}

	var text strings.Builder
	if err := c.client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		if gr.Response != "" {
			text.WriteString(gr.Response)
		}
		return nil
	}); err != nil {
		return "", goerr.Wrap(err, "failed to call ollama", goerr.V("model", c.model))
	}
	return text.String(), nil
}

var _ TextGenerator = (*OllamaClient)(nil)

package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// GeminiClient wraps the genai SDK as a TextGenerator. It can run against the
// Gemini API (API key) or Vertex AI (project/location).
type GeminiClient struct {
	client          *genai.Client
	generativeModel string
}

type GeminiOption func(*geminiConfig)

type geminiConfig struct {
	apiKey    string
	projectID string
	location  string
	model     string
}

// WithGeminiAPIKey selects the Gemini API backend
func WithGeminiAPIKey(key string) GeminiOption {
	return func(c *geminiConfig) {
		c.apiKey = key
	}
}

// WithGeminiVertex selects the Vertex AI backend
func WithGeminiVertex(projectID, location string) GeminiOption {
	return func(c *geminiConfig) {
		c.projectID = projectID
		c.location = location
	}
}

// WithGenerativeModel overrides the default generation model
func WithGenerativeModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		c.model = model
	}
}

// NewGemini creates a new Gemini adapter
func NewGemini(ctx context.Context, opts ...GeminiOption) (*GeminiClient, error) {
	cfg := geminiConfig{
		model: "gemini-2.5-flash",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientConfig := &genai.ClientConfig{}
	if cfg.apiKey != "" {
		clientConfig.APIKey = cfg.apiKey
		clientConfig.Backend = genai.BackendGeminiAPI
	} else {
		clientConfig.Project = cfg.projectID
		clientConfig.Location = cfg.location
		clientConfig.Backend = genai.BackendVertexAI
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	return &GeminiClient{
		client:          client,
		generativeModel: cfg.model,
	}, nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, opts ...TextOption) (string, error) {
	o := applyTextOptions(opts)

	config := &genai.GenerateContentConfig{}
	if o.Temperature != nil {
		config.Temperature = genai.Ptr(*o.Temperature)
	}
	if o.MaxTokens > 0 {
		config.MaxOutputTokens = int32(o.MaxTokens)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content")
	}

	if len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", goerr.New("empty response from gemini")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

var _ TextGenerator = (*GeminiClient)(nil)

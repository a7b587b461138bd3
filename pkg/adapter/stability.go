package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultStabilityBaseURL = "https://api.stability.ai/v1"
	defaultStabilityEngine  = "stable-diffusion-v1-6"
)

// StabilityClient generates images through the Stability AI REST API. There is
// no official Go SDK, so this is a plain HTTP client.
type StabilityClient struct {
	apiKey     string
	baseURL    string
	engine     string
	httpClient *http.Client
}

type StabilityOption func(*StabilityClient)

// WithStabilityBaseURL overrides the API endpoint (for tests)
func WithStabilityBaseURL(u string) StabilityOption {
	return func(c *StabilityClient) {
		c.baseURL = u
	}
}

// WithStabilityEngine selects the generation engine
func WithStabilityEngine(engine string) StabilityOption {
	return func(c *StabilityClient) {
		c.engine = engine
	}
}

// NewStability creates a new Stability AI adapter
func NewStability(apiKey string, opts ...StabilityOption) *StabilityClient {
	c := &StabilityClient{
		apiKey:  apiKey,
		baseURL: defaultStabilityBaseURL,
		engine:  defaultStabilityEngine,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type stabilityRequest struct {
	TextPrompts []stabilityPrompt `json:"text_prompts"`
	CfgScale    int               `json:"cfg_scale"`
	Height      int               `json:"height"`
	Width       int               `json:"width"`
	Steps       int               `json:"steps"`
	Samples     int               `json:"samples"`
}

type stabilityPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

func (c *StabilityClient) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	payload := stabilityRequest{
		TextPrompts: []stabilityPrompt{{Text: prompt, Weight: 1}},
		CfgScale:    7,
		Height:      768,
		Width:       768,
		Steps:       30,
		Samples:     1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal stability request")
	}

	url := c.baseURL + "/generation/" + c.engine + "/text-to-image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build stability request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call stability api")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, goerr.New("stability api error",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(msg)))
	}

	var parsed stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode stability response")
	}
	if len(parsed.Artifacts) == 0 {
		return nil, goerr.New("no artifacts in stability response")
	}

	return &Image{
		B64:      parsed.Artifacts[0].Base64,
		MIMEType: "image/png",
	}, nil
}

var _ ImageGenerator = (*StabilityClient)(nil)

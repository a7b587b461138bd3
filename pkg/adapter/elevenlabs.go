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
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	defaultElevenLabsVoice   = "21m00Tcm4TlvDq8ikWAM"
	defaultElevenLabsModel   = "eleven_monolingual_v1"
)

// ElevenLabsClient synthesizes speech through the ElevenLabs REST API.
type ElevenLabsClient struct {
	apiKey     string
	baseURL    string
	voiceID    string
	modelID    string
	httpClient *http.Client
}

type ElevenLabsOption func(*ElevenLabsClient)

// WithElevenLabsBaseURL overrides the API endpoint (for tests)
func WithElevenLabsBaseURL(u string) ElevenLabsOption {
	return func(c *ElevenLabsClient) {
		c.baseURL = u
	}
}

// WithElevenLabsVoice selects the voice used for synthesis
func WithElevenLabsVoice(voiceID string) ElevenLabsOption {
	return func(c *ElevenLabsClient) {
		c.voiceID = voiceID
	}
}

// NewElevenLabs creates a new ElevenLabs adapter
func NewElevenLabs(apiKey string, opts ...ElevenLabsOption) *ElevenLabsClient {
	c := &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: defaultElevenLabsBaseURL,
		voiceID: defaultElevenLabsVoice,
		modelID: defaultElevenLabsModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type elevenLabsRequest struct {
	Text          string              `json:"text"`
	ModelID       string              `json:"model_id"`
	VoiceSettings elevenLabsSettings `json:"voice_settings"`
}

type elevenLabsSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text to speech and returns the raw audio bytes (mp3).
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload := elevenLabsRequest{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: elevenLabsSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal elevenlabs request")
	}

	url := c.baseURL + "/text-to-speech/" + c.voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build elevenlabs request")
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call elevenlabs api")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, goerr.New("elevenlabs api error",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(msg)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read elevenlabs response")
	}
	return audio, nil
}

var _ SpeechSynthesizer = (*ElevenLabsClient)(nil)

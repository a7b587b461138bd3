package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNoProvider is returned when no registered provider offers the requested
// capability.
var ErrNoProvider = goerr.New("no provider available")

type Capability string

const (
	CapabilityText   Capability = "text"
	CapabilityImage  Capability = "image"
	CapabilitySpeech Capability = "speech"
	CapabilityVideo  Capability = "video"
)

// TextOptions carries per-request generation settings.
type TextOptions struct {
	Temperature *float32
	MaxTokens   int
}

type TextOption func(*TextOptions)

// WithTemperature sets the sampling temperature. Zero is a valid value (used by
// intent detection), hence the pointer.
func WithTemperature(v float32) TextOption {
	return func(o *TextOptions) {
		o.Temperature = &v
	}
}

// WithMaxTokens caps the response length
func WithMaxTokens(n int) TextOption {
	return func(o *TextOptions) {
		o.MaxTokens = n
	}
}

func applyTextOptions(opts []TextOption) TextOptions {
	var o TextOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TextGenerator produces a text completion for a prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts ...TextOption) (string, error)
}

// Image is a generated image: either a URL or inline base64 data, depending on
// what the provider returns.
type Image struct {
	URL      string
	B64      string
	MIMEType string
}

// ImageGenerator produces an image for a prompt
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// SpeechSynthesizer converts text into audio bytes
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// VideoJob reports the outcome of a video generation request. Video backends
// are asynchronous, so the job may be pending rather than complete.
type VideoJob struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Provider string `json:"provider,omitempty"`
}

// VideoGenerator starts a video generation job for a prompt
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, prompt string) (*VideoJob, error)
}

type registration struct {
	name   string
	text   TextGenerator
	image  ImageGenerator
	speech SpeechSynthesizer
	video  VideoGenerator
}

// Manager routes generation requests to named providers by capability. When no
// provider is named explicitly it tries the primary first, then the remaining
// providers in registration order until one succeeds.
type Manager struct {
	primary  string
	fallback bool
	entries  []*registration
}

type ManagerOption func(*Manager)

// WithPrimary names the provider tried first for unqualified requests
func WithPrimary(name string) ManagerOption {
	return func(m *Manager) {
		m.primary = name
	}
}

// WithFallback enables trying other providers when the preferred one fails
func WithFallback(enabled bool) ManagerOption {
	return func(m *Manager) {
		m.fallback = enabled
	}
}

// NewManager creates a provider manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		fallback: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) entry(name string) *registration {
	for _, e := range m.entries {
		if e.name == name {
			return e
		}
	}
	return nil
}

func (m *Manager) register(name string) *registration {
	if e := m.entry(name); e != nil {
		return e
	}
	e := &registration{name: name}
	m.entries = append(m.entries, e)
	return e
}

// RegisterText adds a text generation provider
func (m *Manager) RegisterText(name string, g TextGenerator) {
	m.register(name).text = g
}

// RegisterImage adds an image generation provider
func (m *Manager) RegisterImage(name string, g ImageGenerator) {
	m.register(name).image = g
}

// RegisterSpeech adds a speech synthesis provider
func (m *Manager) RegisterSpeech(name string, s SpeechSynthesizer) {
	m.register(name).speech = s
}

// RegisterVideo adds a video generation provider
func (m *Manager) RegisterVideo(name string, v VideoGenerator) {
	m.register(name).video = v
}

// candidates returns providers to try, honoring the explicit name, the primary
// and the fallback setting.
func (m *Manager) candidates(name string, has func(*registration) bool) []*registration {
	if name != "" {
		if e := m.entry(name); e != nil && has(e) {
			return []*registration{e}
		}
		return nil
	}

	var out []*registration
	if e := m.entry(m.primary); e != nil && has(e) {
		out = append(out, e)
	}
	if m.fallback || len(out) == 0 {
		for _, e := range m.entries {
			if e.name == m.primary || !has(e) {
				continue
			}
			out = append(out, e)
			if !m.fallback {
				break
			}
		}
	}
	return out
}

// GenerateText generates a completion using the named provider, or the
// primary/fallback chain when name is empty. Returns the provider that served
// the request.
func (m *Manager) GenerateText(ctx context.Context, name, prompt string, opts ...TextOption) (string, string, error) {
	cands := m.candidates(name, func(r *registration) bool { return r.text != nil })
	if len(cands) == 0 {
		return "", "", goerr.Wrap(ErrNoProvider, "no text generation provider", goerr.V("requested", name))
	}

	var lastErr error
	for _, e := range cands {
		resp, err := e.text.GenerateText(ctx, prompt, opts...)
		if err == nil {
			return resp, e.name, nil
		}
		lastErr = err
	}
	return "", "", goerr.Wrap(lastErr, "all text providers failed")
}

// GenerateImage generates an image, with the same provider selection rules as
// GenerateText.
func (m *Manager) GenerateImage(ctx context.Context, name, prompt string) (*Image, string, error) {
	cands := m.candidates(name, func(r *registration) bool { return r.image != nil })
	if len(cands) == 0 {
		return nil, "", goerr.Wrap(ErrNoProvider, "no image generation provider", goerr.V("requested", name))
	}

	var lastErr error
	for _, e := range cands {
		img, err := e.image.GenerateImage(ctx, prompt)
		if err == nil {
			return img, e.name, nil
		}
		lastErr = err
	}
	return nil, "", goerr.Wrap(lastErr, "all image providers failed")
}

// Synthesize converts text to speech
func (m *Manager) Synthesize(ctx context.Context, name, text string) ([]byte, string, error) {
	cands := m.candidates(name, func(r *registration) bool { return r.speech != nil })
	if len(cands) == 0 {
		return nil, "", goerr.Wrap(ErrNoProvider, "no speech synthesis provider", goerr.V("requested", name))
	}

	var lastErr error
	for _, e := range cands {
		audio, err := e.speech.Synthesize(ctx, text)
		if err == nil {
			return audio, e.name, nil
		}
		lastErr = err
	}
	return nil, "", goerr.Wrap(lastErr, "all speech providers failed")
}

// GenerateVideo starts a video generation job. With no video provider
// registered the request is answered with a queued placeholder instead of an
// error, so the caller's flow continues.
func (m *Manager) GenerateVideo(ctx context.Context, name, prompt string) (*VideoJob, error) {
	cands := m.candidates(name, func(r *registration) bool { return r.video != nil })
	if len(cands) == 0 {
		return &VideoJob{
			Status:  "pending",
			Message: "video generation queued",
		}, nil
	}

	var lastErr error
	for _, e := range cands {
		job, err := e.video.GenerateVideo(ctx, prompt)
		if err == nil {
			job.Provider = e.name
			return job, nil
		}
		lastErr = err
	}
	return nil, goerr.Wrap(lastErr, "all video providers failed")
}

// ProviderInfo describes one registered provider for status reporting
type ProviderInfo struct {
	Name         string
	Capabilities []Capability
}

// Providers lists registered providers and their capabilities in registration
// order.
func (m *Manager) Providers() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(m.entries))
	for _, e := range m.entries {
		info := ProviderInfo{Name: e.name}
		if e.text != nil {
			info.Capabilities = append(info.Capabilities, CapabilityText)
		}
		if e.image != nil {
			info.Capabilities = append(info.Capabilities, CapabilityImage)
		}
		if e.speech != nil {
			info.Capabilities = append(info.Capabilities, CapabilitySpeech)
		}
		if e.video != nil {
			info.Capabilities = append(info.Capabilities, CapabilityVideo)
		}
		infos = append(infos, info)
	}
	return infos
}

// Primary returns the configured primary provider name
func (m *Manager) Primary() string {
	return m.primary
}

package cli

import (
	"context"
	"os"
	"time"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/aura-ai/aura/pkg/repository"
	"github.com/aura-ai/aura/pkg/usecase/memory"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	configPath string

	// Repository
	project  string
	database string

	// Storage
	bucket  string
	dataDir string

	// Providers
	provider        string
	noFallback      bool
	geminiAPIKey    string
	anthropicAPIKey string
	openaiAPIKey    string
	stabilityAPIKey string
	elevenLabsKey   string
	ollamaHost      string
	ollamaModel     string

	// Memory
	noMemory      bool
	memoryTopK    int64
	memoryTimeout time.Duration

	// Chat
	language string
	persona  string
}

// fileConfig mirrors the optional YAML config file. Flags and environment
// variables take precedence over file values.
type fileConfig struct {
	Project  string `yaml:"project"`
	Database string `yaml:"database"`
	Bucket   string `yaml:"bucket"`
	DataDir  string `yaml:"data_dir"`
	Provider string `yaml:"provider"`
	Language string `yaml:"language"`
	Persona  string `yaml:"persona"`

	GeminiAPIKey    string `yaml:"gemini_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	StabilityAPIKey string `yaml:"stability_api_key"`
	ElevenLabsKey   string `yaml:"elevenlabs_api_key"`
	OllamaHost      string `yaml:"ollama_host"`
	OllamaModel     string `yaml:"ollama_model"`
}

// load merges values from the YAML config file into unset fields
func (cfg *config) load() error {
	if cfg.configPath == "" {
		return nil
	}

	data, err := os.ReadFile(cfg.configPath)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configPath))
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configPath))
	}

	merge := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	merge(&cfg.project, fc.Project)
	merge(&cfg.database, fc.Database)
	merge(&cfg.bucket, fc.Bucket)
	merge(&cfg.dataDir, fc.DataDir)
	merge(&cfg.provider, fc.Provider)
	merge(&cfg.language, fc.Language)
	merge(&cfg.persona, fc.Persona)
	merge(&cfg.geminiAPIKey, fc.GeminiAPIKey)
	merge(&cfg.anthropicAPIKey, fc.AnthropicAPIKey)
	merge(&cfg.openaiAPIKey, fc.OpenAIAPIKey)
	merge(&cfg.stabilityAPIKey, fc.StabilityAPIKey)
	merge(&cfg.elevenLabsKey, fc.ElevenLabsKey)
	merge(&cfg.ollamaHost, fc.OllamaHost)
	merge(&cfg.ollamaModel, fc.OllamaModel)
	return nil
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("AURA_CONFIG"),
			Destination: &cfg.configPath,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID (empty: in-process memory store)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for transcripts and snapshots (empty: local data dir)",
			Sources:     cli.EnvVars("AURA_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Local directory for transcripts and snapshots",
			Value:       ".aura",
			Sources:     cli.EnvVars("AURA_DATA_DIR"),
			Destination: &cfg.dataDir,
		},
	}
}

// providerFlags returns flags for AI provider configuration with destination config
func providerFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "provider",
			Usage:       "Preferred provider (gemini, claude, openai, ollama)",
			Value:       "gemini",
			Sources:     cli.EnvVars("AURA_PROVIDER"),
			Destination: &cfg.provider,
		},
		&cli.BoolFlag{
			Name:        "no-fallback",
			Usage:       "Fail instead of trying other providers",
			Sources:     cli.EnvVars("AURA_NO_FALLBACK"),
			Destination: &cfg.noFallback,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
			Destination: &cfg.anthropicAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("OPENAI_API_KEY"),
			Destination: &cfg.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "stability-api-key",
			Usage:       "Stability AI API key",
			Sources:     cli.EnvVars("STABILITY_API_KEY"),
			Destination: &cfg.stabilityAPIKey,
		},
		&cli.StringFlag{
			Name:        "elevenlabs-api-key",
			Usage:       "ElevenLabs API key",
			Sources:     cli.EnvVars("ELEVENLABS_API_KEY"),
			Destination: &cfg.elevenLabsKey,
		},
		&cli.StringFlag{
			Name:        "ollama-host",
			Usage:       "Ollama server URL",
			Sources:     cli.EnvVars("OLLAMA_HOST"),
			Destination: &cfg.ollamaHost,
		},
		&cli.StringFlag{
			Name:        "ollama-model",
			Usage:       "Ollama model name",
			Value:       "llama3",
			Sources:     cli.EnvVars("OLLAMA_MODEL"),
			Destination: &cfg.ollamaModel,
		},
	}
}

// memoryFlags returns flags for the memory service with destination config
func memoryFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-memory",
			Usage:       "Disable long-term memory",
			Sources:     cli.EnvVars("AURA_NO_MEMORY"),
			Destination: &cfg.noMemory,
		},
		&cli.IntFlag{
			Name:        "memory-top-k",
			Usage:       "Number of memory records folded into context",
			Value:       int64(memory.DefaultTopK),
			Sources:     cli.EnvVars("AURA_MEMORY_TOP_K"),
			Destination: &cfg.memoryTopK,
		},
		&cli.DurationFlag{
			Name:        "memory-timeout",
			Usage:       "Timeout for remote memory store calls",
			Value:       memory.DefaultTimeout,
			Sources:     cli.EnvVars("AURA_MEMORY_TIMEOUT"),
			Destination: &cfg.memoryTimeout,
		},
	}
}

// newRepository creates the memory store: Firestore when a project is
// configured, an in-process store otherwise.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		return repository.NewMemory(), nil
	}

	repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newStorage creates the blob storage: GCS when a bucket is configured, the
// local data directory otherwise.
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket != "" {
		storage, err := adapter.NewStorage(ctx, cfg.bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage")
		}
		return storage, nil
	}

	storage, err := adapter.NewLocalStorage(cfg.dataDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create local storage")
	}
	return storage, nil
}

// newProviderManager registers every provider with credentials configured
func (cfg *config) newProviderManager(ctx context.Context) (*adapter.Manager, error) {
	manager := adapter.NewManager(
		adapter.WithPrimary(cfg.provider),
		adapter.WithFallback(!cfg.noFallback),
	)

	if cfg.geminiAPIKey != "" {
		gemini, err := adapter.NewGemini(ctx, adapter.WithGeminiAPIKey(cfg.geminiAPIKey))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create gemini client")
		}
		manager.RegisterText("gemini", gemini)
	}
	if cfg.anthropicAPIKey != "" {
		manager.RegisterText("claude", adapter.NewClaude(cfg.anthropicAPIKey))
	}
	if cfg.openaiAPIKey != "" {
		openai := adapter.NewOpenAI(cfg.openaiAPIKey)
		manager.RegisterText("openai", openai)
		manager.RegisterImage("openai", openai)
	}
	if cfg.ollamaHost != "" {
		ollama, err := adapter.NewOllama(cfg.ollamaHost, cfg.ollamaModel)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create ollama client")
		}
		manager.RegisterText("ollama", ollama)
	}
	if cfg.stabilityAPIKey != "" {
		manager.RegisterImage("stability", adapter.NewStability(cfg.stabilityAPIKey))
	}
	if cfg.elevenLabsKey != "" {
		manager.RegisterSpeech("elevenlabs", adapter.NewElevenLabs(cfg.elevenLabsKey))
	}

	return manager, nil
}

// newMemoryService wires the memory façade over an already-built repository
// and storage, so commands share one client with the service.
func (cfg *config) newMemoryService(ctx context.Context, repo repository.Repository, storage adapter.Storage) *memory.Service {
	opts := []memory.Option{
		memory.WithSnapshot(storage),
	}
	if cfg.memoryTopK > 0 {
		opts = append(opts, memory.WithTopK(int(cfg.memoryTopK)))
	}
	if cfg.memoryTimeout > 0 {
		opts = append(opts, memory.WithTimeout(cfg.memoryTimeout))
	}
	return memory.New(ctx, repo, opts...)
}

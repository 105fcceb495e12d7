package intent

import (
	"fmt"
	"time"

	"cinefind/pkg/config"
)

// Supported extractor providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderNoop   = "noop"
)

// Defaults for the OpenAI-compatible provider. Groq exposes the OpenAI
// chat completions API, so the default base URL points there.
const (
	defaultBaseURL     = "https://api.groq.com/openai/v1"
	defaultOpenAIModel = "llama-3.3-70b-versatile"
	defaultClaudeModel = "claude-3-5-haiku-latest"
	defaultMaxTokens   = 512
	defaultTimeout     = 10 * time.Second
	defaultTemperature = 0.2
)

// Config holds configuration for an intent extractor.
type Config struct {
	// Provider selects the extractor implementation: "openai" (any
	// OpenAI-compatible endpoint, Groq by default), "claude", or "noop".
	Provider string

	// APIKey authenticates against the selected provider.
	APIKey string

	// Model is the provider model identifier.
	Model string

	// BaseURL overrides the API endpoint for the openai provider.
	// Ignored by other providers.
	BaseURL string

	// MaxTokens caps the model response size.
	MaxTokens int

	// Timeout bounds a single extraction call.
	Timeout time.Duration

	// Temperature controls sampling randomness. Kept low so repeated
	// queries extract the same intent.
	Temperature float64
}

// LoadConfig loads extractor configuration from environment variables.
//
// Environment variables:
//   - EXTRACTOR_PROVIDER: "openai" (default), "claude", or "noop"
//   - EXTRACTOR_API_KEY: provider API key; falls back to GROQ_API_KEY for
//     the openai provider and ANTHROPIC_API_KEY for claude
//   - EXTRACTOR_MODEL: model identifier (provider-specific default)
//   - EXTRACTOR_BASE_URL: OpenAI-compatible endpoint (default: Groq)
//   - EXTRACTOR_MAX_TOKENS: response token cap (default: 512)
//   - EXTRACTOR_TIMEOUT: per-call timeout (default: 10s)
func LoadConfig() Config {
	provider := config.GetEnvString("EXTRACTOR_PROVIDER", ProviderOpenAI)

	apiKey := config.GetEnvString("EXTRACTOR_API_KEY", "")
	if apiKey == "" {
		switch provider {
		case ProviderClaude:
			apiKey = config.GetEnvString("ANTHROPIC_API_KEY", "")
		default:
			apiKey = config.GetEnvString("GROQ_API_KEY", "")
		}
	}

	model := defaultOpenAIModel
	if provider == ProviderClaude {
		model = defaultClaudeModel
	}

	return Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       config.GetEnvString("EXTRACTOR_MODEL", model),
		BaseURL:     config.GetEnvString("EXTRACTOR_BASE_URL", defaultBaseURL),
		MaxTokens:   config.GetEnvInt("EXTRACTOR_MAX_TOKENS", defaultMaxTokens),
		Timeout:     config.GetEnvDuration("EXTRACTOR_TIMEOUT", defaultTimeout),
		Temperature: defaultTemperature,
	}
}

// Validate checks that the configuration can produce a working extractor.
// The noop provider needs no credentials.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderClaude:
		if c.APIKey == "" {
			return fmt.Errorf("extractor provider %q requires an API key", c.Provider)
		}
	case ProviderNoop:
	default:
		return fmt.Errorf("unknown extractor provider %q", c.Provider)
	}

	if c.Provider != ProviderNoop {
		if c.Model == "" {
			return fmt.Errorf("extractor model cannot be empty")
		}
		if c.MaxTokens <= 0 {
			return fmt.Errorf("extractor max tokens must be positive, got %d", c.MaxTokens)
		}
		if c.Timeout <= 0 {
			return fmt.Errorf("extractor timeout must be positive, got %v", c.Timeout)
		}
	}

	return nil
}

// New builds the extractor selected by the configuration.
func New(cfg Config) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderClaude:
		return NewClaude(cfg), nil
	default:
		return NewNoop(), nil
	}
}

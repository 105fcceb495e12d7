package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("EXTRACTOR_PROVIDER", "")
	t.Setenv("EXTRACTOR_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg := LoadConfig()

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gsk-test", cfg.APIKey)
	assert.Equal(t, defaultOpenAIModel, cfg.Model)
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, defaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.InDelta(t, 0.2, cfg.Temperature, 0.001)
}

func TestLoadConfig_ClaudeKeyFallback(t *testing.T) {
	t.Setenv("EXTRACTOR_PROVIDER", "claude")
	t.Setenv("EXTRACTOR_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg := LoadConfig()

	assert.Equal(t, ProviderClaude, cfg.Provider)
	assert.Equal(t, "sk-ant-test", cfg.APIKey)
	assert.Equal(t, defaultClaudeModel, cfg.Model)
}

func TestLoadConfig_ExplicitKeyWins(t *testing.T) {
	t.Setenv("EXTRACTOR_PROVIDER", "openai")
	t.Setenv("EXTRACTOR_API_KEY", "explicit")
	t.Setenv("GROQ_API_KEY", "fallback")

	cfg := LoadConfig()

	assert.Equal(t, "explicit", cfg.APIKey)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Provider:  ProviderOpenAI,
		APIKey:    "key",
		Model:     "model",
		MaxTokens: 512,
		Timeout:   10 * time.Second,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.APIKey = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "gemini" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_NoopNeedsNoKey(t *testing.T) {
	cfg := Config{Provider: ProviderNoop}
	assert.NoError(t, cfg.Validate())
}

func TestNew_SelectsProvider(t *testing.T) {
	noop, err := New(Config{Provider: ProviderNoop})
	require.NoError(t, err)
	assert.IsType(t, &Noop{}, noop)

	oa, err := New(Config{
		Provider:  ProviderOpenAI,
		APIKey:    "key",
		Model:     "model",
		MaxTokens: 512,
		Timeout:   time.Second,
	})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, oa)

	_, err = New(Config{Provider: "bogus"})
	assert.Error(t, err)
}

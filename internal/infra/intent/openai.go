package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"cinefind/internal/domain/entity"
	"cinefind/internal/resilience/circuitbreaker"
)

// OpenAI implements Extractor against any OpenAI-compatible chat
// completions endpoint. The default configuration targets Groq.
// Calls go through a circuit breaker so a failing provider degrades to
// fallback intents instead of stalling every request.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	config          Config
	metricsRecorder MetricsRecorder
}

// NewOpenAI creates an OpenAI-compatible extractor from the given
// configuration.
func NewOpenAI(cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("Initialized OpenAI-compatible intent extractor",
		slog.String("model", cfg.Model),
		slog.String("base_url", clientCfg.BaseURL))

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientCfg),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ExtractorAPIConfig()),
		config:          cfg,
		metricsRecorder: NewPrometheusMetrics(),
	}
}

// Extract implements Extractor. Provider errors, timeouts, and an open
// circuit all resolve to the fallback intent for the query.
func (o *OpenAI) Extract(ctx context.Context, query string) entity.QueryIntent {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
		return o.doExtract(ctx, query)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("extractor circuit breaker open, using fallback intent",
				slog.String("provider", ProviderOpenAI),
				slog.String("state", o.circuitBreaker.State().String()))
		} else {
			slog.WarnContext(ctx, "intent extraction failed, using fallback intent",
				slog.String("provider", ProviderOpenAI),
				slog.String("error", err.Error()))
		}
		o.metricsRecorder.RecordOutcome(ProviderOpenAI, OutcomeProviderError)
		return fallbackIntent(query)
	}

	res := parseModelOutput(cbResult.(string))
	if res.malformed {
		slog.WarnContext(ctx, "model output was not a JSON object, using fallback intent",
			slog.String("provider", ProviderOpenAI),
			slog.Int("output_length", len(res.raw)))
		o.metricsRecorder.RecordOutcome(ProviderOpenAI, OutcomeMalformed)
	} else {
		o.metricsRecorder.RecordOutcome(ProviderOpenAI, OutcomeOK)
	}

	return normalizeIntent(res, query)
}

// doExtract performs the actual API call without the circuit breaker.
func (o *OpenAI) doExtract(ctx context.Context, query string) (string, error) {
	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.config.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: buildPrompt(query),
		}},
		MaxTokens:   o.config.MaxTokens,
		Temperature: float32(o.config.Temperature),
	})

	duration := time.Since(start)
	o.metricsRecorder.RecordDuration(ProviderOpenAI, duration)

	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	slog.DebugContext(ctx, "intent extraction completed",
		slog.String("model", o.config.Model),
		slog.Duration("duration", duration))

	return resp.Choices[0].Message.Content, nil
}

package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"cinefind/internal/domain/entity"
	"cinefind/internal/resilience/circuitbreaker"
)

// Claude implements Extractor using Anthropic's Claude API.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	config          Config
	metricsRecorder MetricsRecorder
}

// NewClaude creates a Claude extractor from the given configuration.
func NewClaude(cfg Config) *Claude {
	slog.Info("Initialized Claude intent extractor",
		slog.String("model", cfg.Model))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ExtractorAPIConfig()),
		config:          cfg,
		metricsRecorder: NewPrometheusMetrics(),
	}
}

// Extract implements Extractor. Provider errors, timeouts, and an open
// circuit all resolve to the fallback intent for the query.
func (c *Claude) Extract(ctx context.Context, query string) entity.QueryIntent {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doExtract(ctx, query)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("extractor circuit breaker open, using fallback intent",
				slog.String("provider", ProviderClaude),
				slog.String("state", c.circuitBreaker.State().String()))
		} else {
			slog.WarnContext(ctx, "intent extraction failed, using fallback intent",
				slog.String("provider", ProviderClaude),
				slog.String("error", err.Error()))
		}
		c.metricsRecorder.RecordOutcome(ProviderClaude, OutcomeProviderError)
		return fallbackIntent(query)
	}

	res := parseModelOutput(cbResult.(string))
	if res.malformed {
		slog.WarnContext(ctx, "model output was not a JSON object, using fallback intent",
			slog.String("provider", ProviderClaude),
			slog.Int("output_length", len(res.raw)))
		c.metricsRecorder.RecordOutcome(ProviderClaude, OutcomeMalformed)
	} else {
		c.metricsRecorder.RecordOutcome(ProviderClaude, OutcomeOK)
	}

	return normalizeIntent(res, query)
}

// doExtract performs the actual API call without the circuit breaker.
func (c *Claude) doExtract(ctx context.Context, query string) (string, error) {
	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(c.config.MaxTokens),
		Temperature: anthropic.Float(c.config.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(buildPrompt(query)),
			),
		},
	})

	duration := time.Since(start)
	c.metricsRecorder.RecordDuration(ProviderClaude, duration)

	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	slog.DebugContext(ctx, "intent extraction completed",
		slog.String("model", c.config.Model),
		slog.Duration("duration", duration))

	return textBlock.Text, nil
}

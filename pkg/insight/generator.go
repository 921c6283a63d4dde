package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/zeromicro/go-zero/core/logx"

	"traderep-api/pkg/analytics"
)

// Insights is the structured qualitative read on a trader's profile, produced
// by the LLM from the quantitative report.
type Insights struct {
	Strengths                 []string `json:"strengths"`
	Weaknesses                []string `json:"weaknesses"`
	ActionableRecommendations []string `json:"actionable_recommendations"`
	RiskAssessment            string   `json:"risk_assessment"`
	CopytradeWorthiness       string   `json:"copytrade_worthiness"`
	TraderPersonality         string   `json:"trader_personality"`
}

// Generator turns a finished analytics report into narrative insights.
type Generator struct {
	config *Config
	client *openai.Client
}

// GeneratorOption configures optional generator behaviour.
type GeneratorOption func(*generatorOptions)

type generatorOptions struct {
	client *openai.Client
}

// WithOpenAIClient injects a pre-configured client (primarily for testing).
func WithOpenAIClient(client *openai.Client) GeneratorOption {
	return func(opts *generatorOptions) {
		opts.client = client
	}
}

// NewGenerator constructs a Generator from the provided configuration.
func NewGenerator(cfg *Config, opts ...GeneratorOption) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("insight: config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	optState := generatorOptions{}
	for _, opt := range opts {
		opt(&optState)
	}

	client := optState.client
	if client == nil {
		oaOpts := []option.RequestOption{
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithMaxRetries(cfg.MaxRetries),
		}
		if cfg.Timeout > 0 {
			oaOpts = append(oaOpts, option.WithRequestTimeout(cfg.Timeout))
		}
		clientVal := openai.NewClient(oaOpts...)
		client = &clientVal
	}

	return &Generator{config: cfg, client: client}, nil
}

// Generate asks the model for a qualitative assessment of the report and
// decodes the strict-JSON answer.
func (g *Generator) Generate(ctx context.Context, report *analytics.Report) (*Insights, error) {
	if report == nil {
		return nil, errors.New("insight: report cannot be nil")
	}

	prompt, err := buildPrompt(report)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if g.config.Temperature != nil {
		params.Temperature = openai.Float(*g.config.Temperature)
	}

	start := time.Now()
	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("insight: chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("insight: completion returned no choices")
	}

	content := completion.Choices[0].Message.Content
	insights, err := parseInsights(content)
	if err != nil {
		logx.WithContext(ctx).Errorf("insight: unparseable completion for %s: %v", report.Address, err)
		return nil, err
	}

	logx.WithContext(ctx).Infof("insight generated address=%s model=%s elapsed=%s",
		report.Address, g.config.Model, time.Since(start).Round(time.Millisecond))
	return insights, nil
}

// parseInsights decodes the model output, tolerating markdown code fences
// around the JSON body.
func parseInsights(content string) (*Insights, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	var insights Insights
	if err := json.Unmarshal([]byte(trimmed), &insights); err != nil {
		return nil, fmt.Errorf("insight: decode completion: %w", err)
	}
	return &insights, nil
}

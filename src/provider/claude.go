package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/quillforge/quillforge/src/config"
	"github.com/quillforge/quillforge/src/models"
	"github.com/quillforge/quillforge/src/utils"
)

// ClaudeProvider backs completions with the Anthropic API through
// langchaingo. It owns its health tracker and usage counters.
type ClaudeProvider struct {
	model  string
	llm    llms.Model
	caps   models.ModelCapabilities
	health *ProviderHealth
	stats  *AtomicUsageStats
}

// NewClaudeProvider validates the credential and builds the client. No
// network call happens until the first Complete.
func NewClaudeProvider(cfg *config.ProviderConfig) (*ClaudeProvider, error) {
	if cfg.APIKey == "" {
		return nil, &models.ConfigurationError{Reason: "Anthropic API key not configured"}
	}

	llm, err := anthropic.New(
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic client: %w", err)
	}

	return &ClaudeProvider{
		model: cfg.Model,
		llm:   llm,
		caps: models.ModelCapabilities{
			MaxTokens:          100000,
			ContextWindow:      200000,
			SupportsStreaming:  true,
			SupportsFunctions:  false,
			SupportsVision:     true,
			InputCostPerToken:  0.00001,
			OutputCostPerToken: 0.00003,
		},
		health: NewProviderHealth(),
		stats:  NewAtomicUsageStats(),
	}, nil
}

func (p *ClaudeProvider) Name() string {
	return "claude"
}

func (p *ClaudeProvider) Capabilities() models.ModelCapabilities {
	return p.caps
}

func (p *ClaudeProvider) Health() models.HealthStatus {
	return p.health.Snapshot()
}

func (p *ClaudeProvider) UsageStats() models.UsageStats {
	return p.stats.ToUsageStats()
}

func (p *ClaudeProvider) Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	start := time.Now()

	resp, err := p.generate(ctx, req)
	if err != nil {
		// An abandoned call has no definite outcome; only completed calls
		// move the circuit breaker.
		if ctx.Err() != nil {
			return nil, err
		}
		p.health.RecordFailure()
		return nil, &models.ProviderError{Provider: p.Name(), Err: err}
	}

	latency := time.Since(start)
	p.health.RecordSuccess(latency)
	p.stats.IncrementRequest(uint64(resp.Usage.TotalTokens), utils.CompletionCost(resp.Usage, p.caps))

	resp.Latency = latency
	return resp, nil
}

func (p *ClaudeProvider) generate(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	content := make([]llms.MessageContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		content = append(content, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	opts := []llms.CallOption{}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature != nil {
		opts = append(opts, llms.WithTemperature(float64(*req.Temperature)))
	}
	if req.TopP != nil {
		opts = append(opts, llms.WithTopP(float64(*req.TopP)))
	}

	result, err := p.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return nil, fmt.Errorf("anthropic generation failed: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("anthropic returned no choices")
	}

	choices := make([]models.Choice, 0, len(result.Choices))
	for i, c := range result.Choices {
		choices = append(choices, models.Choice{
			Index:        i,
			Message:      models.AssistantMessage(c.Content),
			FinishReason: c.StopReason,
		})
	}

	usage := extractUsage(result.Choices[0].GenerationInfo, req, result.Choices[0].Content)

	return &models.CompletionResponse{
		ID:      "cmpl_" + uuid.New().String(),
		Choices: choices,
		Usage:   usage,
		Model:   req.Model,
		Created: time.Now().Unix(),
	}, nil
}

func chatMessageType(role models.MessageRole) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// extractUsage pulls token counts from the generation info when the backend
// reports them; otherwise it falls back to a character-based estimate.
func extractUsage(info map[string]any, req *models.CompletionRequest, output string) models.Usage {
	prompt := intFromInfo(info, "InputTokens")
	completion := intFromInfo(info, "OutputTokens")

	if prompt == 0 {
		prompt = utils.EstimateRequestTokens(req)
	}
	if completion == 0 {
		completion = utils.EstimateTokenCount(output)
	}

	return models.Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

func intFromInfo(info map[string]any, key string) int {
	if info == nil {
		return 0
	}
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/quillforge/quillforge/src/config"
	"github.com/quillforge/quillforge/src/models"
	"github.com/quillforge/quillforge/src/utils"
)

// OpenAIProvider backs completions with the OpenAI chat completions API.
// It owns its health tracker and usage counters.
type OpenAIProvider struct {
	model  string
	client *openai.Client
	caps   models.ModelCapabilities
	health *ProviderHealth
	stats  *AtomicUsageStats
}

// NewOpenAIProvider validates the credential and builds the client. No
// network call happens until the first Complete.
func NewOpenAIProvider(cfg *config.ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, &models.ConfigurationError{Reason: "OpenAI API key not configured"}
	}

	return &OpenAIProvider{
		model:  cfg.Model,
		client: openai.NewClient(cfg.APIKey),
		caps: models.ModelCapabilities{
			MaxTokens:          4096,
			ContextWindow:      128000,
			SupportsStreaming:  true,
			SupportsFunctions:  true,
			SupportsVision:     true,
			InputCostPerToken:  0.00001,
			OutputCostPerToken: 0.00003,
		},
		health: NewProviderHealth(),
		stats:  NewAtomicUsageStats(),
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Capabilities() models.ModelCapabilities {
	return p.caps
}

func (p *OpenAIProvider) Health() models.HealthStatus {
	return p.health.Snapshot()
}

func (p *OpenAIProvider) UsageStats() models.UsageStats {
	return p.stats.ToUsageStats()
}

func (p *OpenAIProvider) Complete(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	start := time.Now()

	resp, err := p.generate(ctx, req)
	if err != nil {
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

func (p *OpenAIProvider) generate(ctx context.Context, req *models.CompletionRequest) (*models.CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openaiRole(msg.Role),
			Content: msg.Content,
			Name:    msg.Name,
		})
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	oreq := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != nil {
		oreq.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		oreq.TopP = *req.TopP
	}

	result, err := p.client.CreateChatCompletion(ctx, oreq)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	choices := make([]models.Choice, 0, len(result.Choices))
	for _, c := range result.Choices {
		choices = append(choices, models.Choice{
			Index:        c.Index,
			Message:      models.AssistantMessage(c.Message.Content),
			FinishReason: string(c.FinishReason),
		})
	}

	return &models.CompletionResponse{
		ID:      result.ID,
		Choices: choices,
		Usage: models.Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
		Model:   result.Model,
		Created: result.Created,
	}, nil
}

func openaiRole(role models.MessageRole) string {
	switch role {
	case models.RoleSystem:
		return openai.ChatMessageRoleSystem
	case models.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

package models

import "time"

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single entry in a chat exchange. Ordering within a request is
// chronological and meaningful.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
	Name    string      `json:"name,omitempty"`
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// CompletionRequest describes one chat completion call. The WithX builders
// return updated copies so a request can be assembled incrementally without
// mutating what the caller already holds.
type CompletionRequest struct {
	Messages    []Message         `json:"messages" binding:"required"`
	Model       string            `json:"model"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature *float32          `json:"temperature,omitempty"`
	TopP        *float32          `json:"top_p,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func NewCompletionRequest(messages []Message, model string) CompletionRequest {
	return CompletionRequest{
		Messages: messages,
		Model:    model,
	}
}

func (r CompletionRequest) WithMaxTokens(maxTokens int) CompletionRequest {
	r.MaxTokens = maxTokens
	return r
}

func (r CompletionRequest) WithTemperature(temperature float32) CompletionRequest {
	r.Temperature = &temperature
	return r
}

func (r CompletionRequest) WithTopP(topP float32) CompletionRequest {
	r.TopP = &topP
	return r
}

func (r CompletionRequest) WithMetadata(key, value string) CompletionRequest {
	metadata := make(map[string]string, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		metadata[k] = v
	}
	metadata[key] = value
	r.Metadata = metadata
	return r
}

// Usage is the token accounting a provider reports after a call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

type CompletionResponse struct {
	ID       string            `json:"id"`
	Choices  []Choice          `json:"choices"`
	Usage    Usage             `json:"usage"`
	Model    string            `json:"model"`
	Created  int64             `json:"created"`
	Metadata map[string]string `json:"metadata,omitempty"`
	CacheHit bool              `json:"cache_hit"`
	Latency  time.Duration     `json:"latency"`
}

// Content returns the text of the first choice, or "" when the response
// carries no choices.
func (r *CompletionResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// ModelCapabilities is the static descriptor of what a backend model can do
// and what it costs per token.
type ModelCapabilities struct {
	MaxTokens          int     `json:"max_tokens"`
	ContextWindow      int     `json:"context_window"`
	SupportsStreaming  bool    `json:"supports_streaming"`
	SupportsFunctions  bool    `json:"supports_functions"`
	SupportsVision     bool    `json:"supports_vision"`
	InputCostPerToken  float64 `json:"input_cost_per_token"`
	OutputCostPerToken float64 `json:"output_cost_per_token"`
}

// HealthStatus is a point-in-time snapshot of a provider's circuit-breaker
// state.
type HealthStatus struct {
	IsHealthy           bool          `json:"is_healthy"`
	ConsecutiveFailures uint32        `json:"consecutive_failures"`
	LastSuccess         time.Time     `json:"last_success"`
	LastFailure         time.Time     `json:"last_failure"`
	AverageLatency      time.Duration `json:"average_latency"`
}

// UsageStats is a point-in-time snapshot of a provider's running counters.
// Lifetime counters are always >= the today window.
type UsageStats struct {
	TotalRequests uint64  `json:"total_requests"`
	RequestsToday uint64  `json:"requests_today"`
	TotalTokens   uint64  `json:"total_tokens"`
	TokensToday   uint64  `json:"tokens_today"`
	TotalCost     float64 `json:"total_cost"`
	CostToday     float64 `json:"cost_today"`
}

// Package storage holds the persisted aggregates of the AI domain and the
// repository contracts their persistence layer must satisfy. Backends live
// outside this module.
package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quillforge/quillforge/src/models"
)

type CompletionStatus string

const (
	StatusPending    CompletionStatus = "pending"
	StatusInProgress CompletionStatus = "in_progress"
	StatusCompleted  CompletionStatus = "completed"
	StatusFailed     CompletionStatus = "failed"
	StatusCancelled  CompletionStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s CompletionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Conversation accumulates message, token and cost totals across exchanges.
// The version counter increments on every mutation for optimistic locking.
type Conversation struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ProviderName string    `json:"provider_name"`
	ModelName    string    `json:"model_name"`
	MessageCount int       `json:"message_count"`
	TotalTokens  int       `json:"total_tokens"`
	TotalCost    float64   `json:"total_cost"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      uint64    `json:"version"`
}

func NewConversation(title, providerName, modelName string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:           uuid.New(),
		Title:        title,
		ProviderName: providerName,
		ModelName:    modelName,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// AddExchange folds one request/response pair into the running totals.
func (c *Conversation) AddExchange(req *models.CompletionRequest, resp *models.CompletionResponse, cost float64) {
	c.MessageCount += len(req.Messages) + 1 // +1 for the response
	c.TotalTokens += resp.Usage.TotalTokens
	c.TotalCost += cost
	c.UpdatedAt = time.Now()
	c.Version++
}

// Completion records one request/response pair along with its lifecycle
// status.
type Completion struct {
	ID             uuid.UUID                  `json:"id"`
	ConversationID uuid.UUID                  `json:"conversation_id"`
	ProviderName   string                     `json:"provider_name"`
	ModelName      string                     `json:"model_name"`
	Request        models.CompletionRequest   `json:"request"`
	Response       *models.CompletionResponse `json:"response,omitempty"`
	Status         CompletionStatus           `json:"status"`
	ErrorMessage   string                     `json:"error_message,omitempty"`
	Cost           float64                    `json:"cost"`
	CreatedAt      time.Time                  `json:"created_at"`
	CompletedAt    *time.Time                 `json:"completed_at,omitempty"`
}

func NewCompletion(conversationID uuid.UUID, providerName, modelName string, req models.CompletionRequest) *Completion {
	return &Completion{
		ID:             uuid.New(),
		ConversationID: conversationID,
		ProviderName:   providerName,
		ModelName:      modelName,
		Request:        req,
		Status:         StatusPending,
		CreatedAt:      time.Now(),
	}
}

// Start moves a pending completion into progress.
func (c *Completion) Start() error {
	if c.Status != StatusPending {
		return fmt.Errorf("cannot start completion in status %s", c.Status)
	}
	c.Status = StatusInProgress
	return nil
}

// Complete records a successful outcome. Terminal states reject further
// transitions.
func (c *Completion) Complete(resp *models.CompletionResponse, cost float64) error {
	if c.Status.Terminal() {
		return fmt.Errorf("completion already %s", c.Status)
	}
	now := time.Now()
	c.Response = resp
	c.Cost = cost
	c.Status = StatusCompleted
	c.CompletedAt = &now
	return nil
}

// Fail records a failed outcome.
func (c *Completion) Fail(message string) error {
	if c.Status.Terminal() {
		return fmt.Errorf("completion already %s", c.Status)
	}
	now := time.Now()
	c.ErrorMessage = message
	c.Status = StatusFailed
	c.CompletedAt = &now
	return nil
}

// Cancel records caller abandonment.
func (c *Completion) Cancel() error {
	if c.Status.Terminal() {
		return fmt.Errorf("completion already %s", c.Status)
	}
	now := time.Now()
	c.Status = StatusCancelled
	c.CompletedAt = &now
	return nil
}

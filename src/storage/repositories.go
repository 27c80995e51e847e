package storage

import (
	"context"

	"github.com/google/uuid"
)

// Pagination bounds list queries.
type Pagination struct {
	Offset int
	Limit  int
}

func NewPagination(offset, limit int) Pagination {
	if limit <= 0 {
		limit = 50
	}
	return Pagination{Offset: offset, Limit: limit}
}

// ConversationRepository is the persistence contract for conversations.
type ConversationRepository interface {
	Save(ctx context.Context, conversation *Conversation) (*Conversation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	FindByProvider(ctx context.Context, providerName string, page Pagination) ([]*Conversation, error)
	FindRecentlyActive(ctx context.Context, page Pagination) ([]*Conversation, error)
	TotalCost(ctx context.Context) (float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompletionRepository is the persistence contract for completion records.
type CompletionRepository interface {
	Save(ctx context.Context, completion *Completion) (*Completion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Completion, error)
	FindByConversation(ctx context.Context, conversationID uuid.UUID, page Pagination) ([]*Completion, error)
	FindByStatus(ctx context.Context, status CompletionStatus, page Pagination) ([]*Completion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

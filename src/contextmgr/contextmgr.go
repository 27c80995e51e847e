// Package contextmgr trims conversation history to fit a model's context
// budget, measured in characters of message content.
package contextmgr

import (
	"github.com/quillforge/quillforge/src/models"
)

// Rough character-per-token ratio used to translate a model's token context
// window into a character budget.
const charsPerToken = 4

// Service trims an ordered message sequence so its total content length
// stays within a budget. System messages are never dropped; among the rest,
// the most recent messages win.
type Service struct {
	maxContextLength int
}

// New fails with a ContextError when the budget is not positive. Trimming
// itself never fails.
func New(maxContextLength int) (*Service, error) {
	if maxContextLength <= 0 {
		return nil, &models.ContextError{Reason: "max context length must be positive"}
	}
	return &Service{maxContextLength: maxContextLength}, nil
}

// ManageContext trims messages against the configured budget.
func (s *Service) ManageContext(messages []models.Message) []models.Message {
	return trim(messages, s.maxContextLength)
}

// ManageContextForWindow trims against the smaller of the configured budget
// and the target model's context window (translated from tokens to
// characters).
func (s *Service) ManageContextForWindow(messages []models.Message, contextWindow int) []models.Message {
	budget := s.maxContextLength
	if windowChars := contextWindow * charsPerToken; windowChars > 0 && windowChars < budget {
		budget = windowChars
	}
	return trim(messages, budget)
}

// trim keeps every system message regardless of budget pressure, then walks
// the non-system messages newest to oldest, keeping each one that still
// fits. The walk stops at the first overflow even if an older message would
// fit, so the kept history has no gaps. Original relative order is
// preserved in the result.
func trim(messages []models.Message, budget int) []models.Message {
	total := 0
	for _, msg := range messages {
		total += len(msg.Content)
	}
	if total <= budget {
		return messages
	}

	keep := make([]bool, len(messages))
	committed := 0
	for i, msg := range messages {
		if msg.Role == models.RoleSystem {
			keep[i] = true
			committed += len(msg.Content)
		}
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleSystem {
			continue
		}
		if committed+len(messages[i].Content) > budget {
			break
		}
		keep[i] = true
		committed += len(messages[i].Content)
	}

	result := make([]models.Message, 0, len(messages))
	for i, msg := range messages {
		if keep[i] {
			result = append(result, msg)
		}
	}
	return result
}

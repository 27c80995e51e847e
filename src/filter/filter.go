// Package filter screens text for prohibited content before it reaches a
// model and before a response reaches the caller.
package filter

import (
	"regexp"
	"strings"

	"github.com/quillforge/quillforge/src/models"
)

const defaultMaxContentLength = 100000

var prohibitedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:text/html`),
}

// Service is a pure, synchronous content screen. It holds no state beyond
// its configuration and is safe for concurrent use.
type Service struct {
	maxContentLength int
}

func New() *Service {
	return &Service{maxContentLength: defaultMaxContentLength}
}

func NewWithMaxLength(maxContentLength int) *Service {
	return &Service{maxContentLength: maxContentLength}
}

// FilterContent returns the text unchanged when it passes, or a
// ValidationError naming the rejection when it does not.
func (s *Service) FilterContent(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &models.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if len(text) > s.maxContentLength {
		return "", &models.ValidationError{Field: "content", Reason: "exceeds maximum length"}
	}

	for _, pattern := range prohibitedPatterns {
		if pattern.MatchString(text) {
			return "", &models.ValidationError{Field: "content", Reason: "contains prohibited content"}
		}
	}

	return text, nil
}

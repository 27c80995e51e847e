package utils

import (
	"strings"

	"github.com/quillforge/quillforge/src/models"
)

// EstimateTokenCount estimates token count from text. Roughly 1 token per 4
// characters of English, with a small floor for special tokens.
func EstimateTokenCount(text string) int {
	text = strings.TrimSpace(text)

	tokenCount := len(text) / 4
	if tokenCount < 10 {
		tokenCount = 10
	}

	return tokenCount
}

// CompletionCost prices a finished call using the per-token rates from the
// provider's capability descriptor.
func CompletionCost(usage models.Usage, caps models.ModelCapabilities) float64 {
	inputCost := float64(usage.PromptTokens) * caps.InputCostPerToken
	outputCost := float64(usage.CompletionTokens) * caps.OutputCostPerToken
	return inputCost + outputCost
}

// EstimateRequestTokens estimates the prompt size of a request before it is
// sent, for pre-flight budget decisions.
func EstimateRequestTokens(req *models.CompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += EstimateTokenCount(msg.Content)
	}
	return total
}

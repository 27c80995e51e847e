package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"

	"github.com/quillforge/quillforge/src/models"
)

const keyPrefix = "completion:"

// GenerateCacheKey fingerprints a request into a deterministic cache key.
// Every field that affects model output feeds the hash: the ordered
// messages, the model name and the sampling parameters. Identical requests
// always map to the same key; a change to any of those fields yields a
// different one.
func GenerateCacheKey(req *models.CompletionRequest) string {
	h := sha256.New()

	io.WriteString(h, req.Model)
	for _, msg := range req.Messages {
		// Unit separators keep adjacent fields from running together,
		// so ("a","bc") and ("ab","c") hash differently.
		io.WriteString(h, "\x1e")
		io.WriteString(h, string(msg.Role))
		io.WriteString(h, "\x1f")
		io.WriteString(h, msg.Name)
		io.WriteString(h, "\x1f")
		io.WriteString(h, msg.Content)
	}

	io.WriteString(h, "\x1e")
	io.WriteString(h, strconv.Itoa(req.MaxTokens))
	io.WriteString(h, "\x1f")
	io.WriteString(h, formatOptionalFloat(req.Temperature))
	io.WriteString(h, "\x1f")
	io.WriteString(h, formatOptionalFloat(req.TopP))

	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func formatOptionalFloat(f *float32) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(float64(*f), 'g', -1, 32)
}

package usecase

import (
	"encoding/json"
	"strings"

	"crowdfund-service/infrastructure/logger"
)

// ParseOrEmpty decodes raw as a JSON array of T. Blank input, malformed JSON
// or a non-array value all give an empty, non-nil slice; the last two are
// logged as warnings.
func ParseOrEmpty[T any](raw string) []T {
	out := make([]T, 0)
	if strings.TrimSpace(raw) == "" {
		return out
	}
	var parsed []T
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Ignoring malformed JSON array field")
		return out
	}
	if parsed == nil {
		return out
	}
	return parsed
}

package helpers

import (
	"time"

	"github.com/yigit/edudirectory/internal/pkg/logger"
)

// PositiveDuration parses value and falls back when it is malformed, zero or negative
func PositiveDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Unusable duration, using fallback")
		return fallback
	}
	return d
}

// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/projfile/internal/log"
	"github.com/rs/zerolog"
)

// lookup resolves key against the environment and parses it. Unset and empty
// variables yield def; values parse rejects are logged and also yield def.
func lookup[T any](logger zerolog.Logger, key string, def T, parse func(string) (T, bool)) T {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().
			Str("key", key).
			Interface("default", def).
			Str("source", "default").
			Msg("using default value")
		return def
	}
	parsed, ok := parse(v)
	if !ok {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Interface("default", def).
			Msg("invalid value in environment variable, using default")
		return def
	}
	logger.Debug().
		Str("key", key).
		Interface("value", parsed).
		Str("source", "environment").
		Msg("using environment variable")
	return parsed
}

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return lookup(log.WithComponent("config"), key, defaultValue, func(v string) (string, bool) {
		return v, true
	})
}

// ParseInt reads an integer from environment variable or returns default value.
// It validates the input and falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	return lookup(log.WithComponent("config"), key, defaultValue, func(v string) (int, bool) {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		return i, err == nil
	})
}

// ParseInt64 is ParseInt for byte sizes and other 64-bit quantities.
func ParseInt64(key string, defaultValue int64) int64 {
	return lookup(log.WithComponent("config"), key, defaultValue, func(v string) (int64, bool) {
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	})
}

// ParseDuration reads a duration in Go duration format (e.g. "5s").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return lookup(log.WithComponent("config"), key, defaultValue, func(v string) (time.Duration, bool) {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		return d, err == nil
	})
}

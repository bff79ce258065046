// SPDX-License-Identifier: MIT

// Package config loads runtime settings for the projfile tools from the
// environment. Command-line flags override what is loaded here.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/projfile/internal/project"
)

// Environment variables read by LoadSettings.
const (
	EnvLogLevel            = "PROJFILE_LOG_LEVEL"
	EnvMaxDocumentBytes    = "PROJFILE_MAX_DOCUMENT_BYTES"
	EnvWatchDebounce       = "PROJFILE_WATCH_DEBOUNCE"
	EnvValidateConcurrency = "PROJFILE_VALIDATE_CONCURRENCY"
)

// DefaultValidateConcurrency bounds how many files validate reads at once.
const DefaultValidateConcurrency = 4

// Settings are the tunables shared by every command.
type Settings struct {
	LogLevel            string
	MaxDocumentBytes    int64
	WatchDebounce       time.Duration
	ValidateConcurrency int
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		LogLevel:            "info",
		MaxDocumentBytes:    project.DefaultMaxDocumentBytes,
		WatchDebounce:       project.DefaultDebounce,
		ValidateConcurrency: DefaultValidateConcurrency,
	}
}

// LoadSettings reads Settings from the environment on top of Defaults.
func LoadSettings() (Settings, error) {
	def := Defaults()
	s := Settings{
		LogLevel:            ParseString(EnvLogLevel, def.LogLevel),
		MaxDocumentBytes:    ParseInt64(EnvMaxDocumentBytes, def.MaxDocumentBytes),
		WatchDebounce:       ParseDuration(EnvWatchDebounce, def.WatchDebounce),
		ValidateConcurrency: ParseInt(EnvValidateConcurrency, def.ValidateConcurrency),
	}
	if err := s.Validate(); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// Validate reports every out-of-range setting at once.
func (s Settings) Validate() error {
	var errs []error
	if s.MaxDocumentBytes <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvMaxDocumentBytes, s.MaxDocumentBytes))
	}
	if s.WatchDebounce <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", EnvWatchDebounce, s.WatchDebounce))
	}
	if s.ValidateConcurrency < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", EnvValidateConcurrency, s.ValidateConcurrency))
	}
	return errors.Join(errs...)
}

// Package config reads the uploader settings from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-resumable-upload/resumable"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"
)

// Environment variable keys.
const (
	ChunkSizeKey          = "RESUMABLE_CHUNK_SIZE"
	CursorModeKey         = "RESUMABLE_CURSOR_MODE"
	ChunkCountKey         = "RESUMABLE_CHUNK_COUNT"
	EscapeQueryKey        = "RESUMABLE_ESCAPE_QUERY"
	DebugKey              = "RESUMABLE_DEBUG"
	AWSRegionKey          = "AWS_REGION"
	AWSAccessKeyIDKey     = "AWS_ACCESS_KEY_ID"
	AWSSecretAccessKeyKey = "AWS_SECRET_ACCESS_KEY"
)

// Settings ...
type Settings struct {
	ChunkSize          int64
	CursorMode         resumable.CursorMode
	ChunkCount         resumable.ChunkCountMode
	EscapeQuery        bool
	Debug              bool
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey Secret
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	engine := resumable.DefaultConfig()
	return Settings{
		ChunkSize:   engine.ChunkSize,
		CursorMode:  engine.CursorMode,
		ChunkCount:  engine.ChunkCount,
		EscapeQuery: engine.EscapeQuery,
	}
}

// Load reads the settings from envRepo, falling back to Defaults for unset keys.
func Load(envRepo env.Repository) (Settings, error) {
	settings := Defaults()

	if value := strings.TrimSpace(envRepo.Get(ChunkSizeKey)); value != "" {
		chunkSize, err := ParseChunkSize(value)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", ChunkSizeKey, err)
		}
		settings.ChunkSize = chunkSize
	}

	if value := strings.TrimSpace(envRepo.Get(CursorModeKey)); value != "" {
		settings.CursorMode = resumable.CursorMode(strings.ToLower(value))
	}

	if value := strings.TrimSpace(envRepo.Get(ChunkCountKey)); value != "" {
		settings.ChunkCount = resumable.ChunkCountMode(strings.ToLower(value))
	}

	escapeQuery, err := parseBool(envRepo.Get(EscapeQueryKey), settings.EscapeQuery)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", EscapeQueryKey, err)
	}
	settings.EscapeQuery = escapeQuery

	debug, err := parseBool(envRepo.Get(DebugKey), settings.Debug)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", DebugKey, err)
	}
	settings.Debug = debug

	settings.AWSRegion = envRepo.Get(AWSRegionKey)
	settings.AWSAccessKeyID = envRepo.Get(AWSAccessKeyIDKey)
	settings.AWSSecretAccessKey = Secret(envRepo.Get(AWSSecretAccessKeyKey))

	if err := settings.Engine().Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// ParseChunkSize accepts plain byte counts and human sizes like 5MiB, 5MB or 512k.
// Units are binary: 1MB == 1MiB.
func ParseChunkSize(value string) (int64, error) {
	size, err := units.RAMInBytes(value)
	if err != nil {
		return 0, fmt.Errorf("invalid chunk size %q: %w", value, err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("chunk size must be positive, got %q", value)
	}
	return size, nil
}

// Engine returns the uploader configuration these settings describe.
func (s Settings) Engine() resumable.Config {
	engine := resumable.DefaultConfig()
	engine.ChunkSize = s.ChunkSize
	engine.CursorMode = s.CursorMode
	engine.ChunkCount = s.ChunkCount
	engine.EscapeQuery = s.EscapeQuery
	return engine
}

// Print logs the settings, secrets masked.
func Print(s Settings, logger log.Logger) {
	logger.Infof("Settings:")
	logger.Printf("- chunk_size: %s", units.BytesSize(float64(s.ChunkSize)))
	logger.Printf("- cursor_mode: %s", s.CursorMode)
	logger.Printf("- chunk_count: %s", s.ChunkCount)
	logger.Printf("- escape_query: %t", s.EscapeQuery)
	logger.Printf("- debug: %t", s.Debug)
	logger.Printf("- aws_region: %s", valueOrUnset(s.AWSRegion))
	logger.Printf("- aws_access_key_id: %s", valueOrUnset(s.AWSAccessKeyID))
	logger.Printf("- aws_secret_access_key: %s", valueOrUnset(s.AWSSecretAccessKey.String()))
}

func valueOrUnset(value string) string {
	if value == "" {
		return "<unset>"
	}
	return value
}

func parseBool(value string, defaultValue bool) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "":
		return defaultValue, nil
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(value)
}

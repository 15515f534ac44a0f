package resumable

import (
	"fmt"
	"net/http"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
)

// DefaultChunkSize is the chunk size resumable.js servers are usually configured with.
const DefaultChunkSize int64 = 5 * units.MiB

// CursorMode controls what happens to the file read position when the server already has a chunk.
type CursorMode string

const (
	// CursorSeek moves the read position past every skipped chunk, so each uploaded chunk
	// carries the bytes that belong to its index.
	CursorSeek CursorMode = "seek"
	// CursorLegacy only advances the read position on reads. After a skipped chunk the next
	// upload carries the bytes of the skipped one. Kept for servers that were fed by the old clients.
	CursorLegacy CursorMode = "legacy"
)

// ChunkCountMode controls how the number of chunks is derived from the file size.
type ChunkCountMode string

const (
	// ChunkCountLegacy is floor(totalSize/chunkSize)+1. Files whose size is an exact multiple
	// of the chunk size get a trailing empty chunk.
	ChunkCountLegacy ChunkCountMode = "legacy"
	// ChunkCountExact is ceil(totalSize/chunkSize), with at least one chunk for empty files.
	ChunkCountExact ChunkCountMode = "exact"
)

// Config holds configuration for the uploader.
type Config struct {
	// ChunkSize is the fixed size of every chunk but the last one.
	// Default: 5 MiB
	ChunkSize int64

	// CursorMode decides whether skipped chunks advance the file read position.
	// Default: CursorSeek
	CursorMode CursorMode

	// ChunkCount decides how the chunk count is computed.
	// Default: ChunkCountLegacy
	ChunkCount ChunkCountMode

	// EscapeQuery URL-encodes query parameter values.
	// Default: true
	EscapeQuery bool

	// HTTPClient is the HTTP client used for probes and uploads.
	// If nil, DefaultHTTPClient is used.
	HTTPClient *http.Client

	// NewID generates the upload token and the multipart boundaries.
	// If nil, random UUIDs are used.
	NewID IDGenerator
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:   DefaultChunkSize,
		CursorMode:  CursorSeek,
		ChunkCount:  ChunkCountLegacy,
		EscapeQuery: true,
		HTTPClient:  nil, // Will be created by Uploader
		NewID:       uuid.NewString,
	}
}

// DefaultHTTPClient creates an HTTP client for sequential chunk uploads.
func DefaultHTTPClient() *http.Client {
	return &http.Client{
		// No overall timeout, a chunk upload takes as long as the link needs
		Timeout: 0,
		Transport: &http.Transport{
			MaxIdleConns:        2,
			MaxConnsPerHost:     2,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			Proxy:               http.ProxyFromEnvironment,
		},
	}
}

// Validate ...
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}

	switch c.CursorMode {
	case CursorSeek, CursorLegacy:
	default:
		return fmt.Errorf("invalid cursor mode: %q (valid: %s, %s)", c.CursorMode, CursorSeek, CursorLegacy)
	}

	switch c.ChunkCount {
	case ChunkCountLegacy, ChunkCountExact:
	default:
		return fmt.Errorf("invalid chunk count mode: %q (valid: %s, %s)", c.ChunkCount, ChunkCountLegacy, ChunkCountExact)
	}

	return nil
}

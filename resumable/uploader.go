package resumable

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bitrise-io/go-resumable-upload/internal"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"
	"github.com/hashicorp/go-retryablehttp"
)

// Params describes what to upload and where.
type Params struct {
	URL      string
	APIKey   string
	FilePath string
	// Filename is sent to the server as resumableFilename.
	// If empty, the base name of FilePath is used.
	Filename string
}

// Result is the outcome of a completed session.
type Result struct {
	Session Session
	// Body is the server's response to the last chunk's upload.
	// Empty if the server already had the last chunk.
	Body string
	// LastChunkUploaded reports whether Body is set.
	LastChunkUploaded bool
}

// Uploader drives the probe/upload loop of a session, one chunk at a time.
type Uploader struct {
	config     Config
	httpClient *retryablehttp.Client
	osProxy    internal.OsProxy
	logger     log.Logger
	stats      *Stats
}

// New creates a new Uploader with the given configuration.
func New(config Config, logger log.Logger) *Uploader {
	return NewWithOsProxy(config, internal.RealOS{}, logger)
}

// NewWithOsProxy ...
func NewWithOsProxy(config Config, osProxy internal.OsProxy, logger log.Logger) *Uploader {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = DefaultHTTPClient()
	}
	if config.NewID == nil {
		config.NewID = DefaultConfig().NewID
	}

	return &Uploader{
		config:     config,
		httpClient: newHTTPClient(httpClient, logger),
		osProxy:    osProxy,
		logger:     logger,
		stats:      NewStats(),
	}
}

// Stats returns the statistics of the last Upload call.
func (u *Uploader) Stats() *Stats {
	return u.stats
}

// Upload runs the session: every chunk is probed, and the missing ones are read and uploaded.
// The first unexpected status or network error aborts the whole run; the returned
// error is then a *ProtocolError or a *TransportError.
func (u *Uploader) Upload(ctx context.Context, params Params) (Result, error) {
	if err := u.config.Validate(); err != nil {
		return Result{}, err
	}
	u.stats = NewStats()

	file, err := u.osProxy.Open(params.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("file doesn't exist: %s", params.FilePath)
		}
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			u.logger.Errorf("failed to close file: %s", err)
		}
	}(file)

	info, err := file.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return Result{}, fmt.Errorf("%s: %w", params.FilePath, ErrNotRegularFile)
	}

	session := NewSession(params.FilePath, params.Filename, info.Size(), u.config, u.config.NewID())
	u.logger.Debugf("Uploading %s (%s) in %d chunks of %s, token: %s", session.Filename,
		units.HumanSize(float64(session.TotalSize)), session.TotalChunks,
		units.HumanSize(float64(session.ChunkSize)), session.UploadToken)

	transport := NewTransport(u.httpClient, params.URL, params.APIKey, u.config.EscapeQuery, u.config.NewID, u.logger)
	reader := newChunkReader(file, session.ChunkSize, u.config.CursorMode)

	result := Result{Session: session}
	for index := 1; index <= session.TotalChunks; index++ {
		chunk := session.Chunk(index)

		probe, err := transport.Probe(ctx, session, index)
		if err != nil {
			return Result{}, err
		}

		switch probe.Status {
		case ChunkPresent:
			u.logger.Donef("[%d/%d] Chunk exists!", index, session.TotalChunks)
			u.stats.Skip()
			if err := reader.skip(chunk); err != nil {
				return Result{}, err
			}
		case ChunkMissing:
			body, err := u.uploadChunk(ctx, transport, reader, session, chunk)
			if err != nil {
				return Result{}, err
			}
			if index == session.TotalChunks {
				result.Body = body
				result.LastChunkUploaded = true
			}
		default:
			return Result{}, probe.err(index)
		}
	}

	u.logger.Debugf("Uploaded %d chunks (%s), skipped %d, average chunk upload: %s",
		u.stats.UploadedCount(), units.HumanSize(float64(u.stats.BytesSent())),
		u.stats.SkippedCount(), u.stats.Average().Round(time.Millisecond))

	return result, nil
}

func (u *Uploader) uploadChunk(ctx context.Context, transport *Transport, reader *chunkReader, session Session, chunk ChunkDescriptor) (string, error) {
	data, err := reader.read(chunk)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != chunk.ByteLength {
		u.logger.Warnf("chunk %d size mismatch, expected %d, got %d", chunk.Index, chunk.ByteLength, len(data))
	}

	u.logger.Printf("[%d/%d] Uploading chunk of size %d bytes", chunk.Index, session.TotalChunks, len(data))

	start := time.Now()
	upload, err := transport.Upload(ctx, session, chunk.Index, data)
	if err != nil {
		return "", err
	}
	if err := upload.err(chunk.Index); err != nil {
		return "", err
	}
	u.stats.Update(time.Since(start), int64(len(data)))

	return upload.Body, nil
}

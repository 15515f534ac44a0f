// Package source turns the file argument of an upload into a local regular file.
// Besides plain paths it understands file:// paths, glob patterns matching a single file,
// http(s):// URLs and s3://bucket/key objects; remote files are fetched to a temporary directory.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bitrise-io/go-resumable-upload/internal"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
)

const (
	fileScheme  = "file://"
	httpScheme  = "http://"
	httpsScheme = "https://"
	s3Scheme    = "s3://"
)

var (
	// ErrNotFound ...
	ErrNotFound = errors.New("file doesn't exist")
	// ErrNotRegular ...
	ErrNotRegular = errors.New("not a regular file")
	// ErrAmbiguous is returned when a pattern matches more than one file.
	ErrAmbiguous = errors.New("pattern matches more than one file")
)

// File is a local regular file ready to be uploaded.
type File struct {
	Path string
	// Name is the name the file is uploaded under.
	Name string
	Size int64

	cleanup func() error
}

// Cleanup removes the temporary copy of a remote file. It is a no-op for local files.
func (f File) Cleanup() error {
	if f.cleanup == nil {
		return nil
	}
	return f.cleanup()
}

// Resolver ...
type Resolver interface {
	Resolve(ctx context.Context, location string) (File, error)
}

// S3Params ...
type S3Params struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type resolver struct {
	osProxy      internal.OsProxy
	pathModifier pathutil.PathModifier
	httpClient   *http.Client
	s3Params     S3Params
	newS3Client  func(ctx context.Context, params S3Params, logger log.Logger) (s3Client, error)
	logger       log.Logger
}

// NewResolver creates a Resolver. httpClient is used for http(s):// downloads.
func NewResolver(osProxy internal.OsProxy, pathModifier pathutil.PathModifier, httpClient *http.Client, s3Params S3Params, logger log.Logger) Resolver {
	return &resolver{
		osProxy:      osProxy,
		pathModifier: pathModifier,
		httpClient:   httpClient,
		s3Params:     s3Params,
		newS3Client:  newS3Client,
		logger:       logger,
	}
}

// Resolve ...
func (r *resolver) Resolve(ctx context.Context, location string) (File, error) {
	if strings.TrimSpace(location) == "" {
		return File{}, fmt.Errorf("file path is empty")
	}

	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, s3Scheme):
		return r.resolveS3(ctx, location)
	case strings.HasPrefix(lower, httpScheme), strings.HasPrefix(lower, httpsScheme):
		return r.resolveHTTP(ctx, location)
	case strings.HasPrefix(lower, fileScheme):
		return r.resolveLocal(location[len(fileScheme):])
	default:
		return r.resolveLocal(location)
	}
}

// tempFile stats a downloaded file and attaches the removal of its directory.
func (r *resolver) tempFile(dir, path, name string) (File, error) {
	file, err := r.statRegular(path)
	if err != nil {
		r.removeDir(dir)
		return File{}, err
	}
	file.Name = name
	file.cleanup = func() error {
		return r.osProxy.RemoveAll(dir)
	}
	return file, nil
}

func (r *resolver) createTempDir() (string, error) {
	dir, err := r.osProxy.MkdirTemp("", "resumable-upload")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	return dir, nil
}

func (r *resolver) removeDir(dir string) {
	if err := r.osProxy.RemoveAll(dir); err != nil {
		r.logger.Warnf("failed to remove %s: %s", dir, err)
	}
}

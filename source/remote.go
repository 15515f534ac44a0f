package source

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/melbahja/got"
)

func (r *resolver) resolveHTTP(ctx context.Context, location string) (File, error) {
	name, err := fileNameFromURL(location)
	if err != nil {
		return File{}, err
	}

	dir, err := r.createTempDir()
	if err != nil {
		return File{}, err
	}

	localPath := filepath.Join(dir, name)
	r.logger.Infof("Downloading %s", location)
	if err := r.download(ctx, location, localPath); err != nil {
		r.removeDir(dir)
		return File{}, fmt.Errorf("failed to download file from %s: %w", location, err)
	}

	return r.tempFile(dir, localPath, name)
}

func (r *resolver) download(ctx context.Context, url string, dest string) error {
	downloader := got.New()
	downloader.Client = r.httpClient

	return downloader.Do(got.NewDownload(ctx, url, dest))
}

// fileNameFromURL extracts the filename from a URL path.
func fileNameFromURL(location string) (string, error) {
	parsedURL, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", location, err)
	}

	name := path.Base(parsedURL.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("no file name in URL: %s", location)
	}
	return name, nil
}

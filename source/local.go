package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

func (r *resolver) resolveLocal(path string) (File, error) {
	if hasGlobMeta(path) && !r.exists(path) {
		match, err := r.expandPattern(path)
		if err != nil {
			return File{}, err
		}
		path = match
	}

	absPath, err := r.pathModifier.AbsPath(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to expand path %s: %w", path, err)
	}

	return r.statRegular(absPath)
}

// expandPattern returns the single file a glob pattern matches.
func (r *resolver) expandPattern(path string) (string, error) {
	base, pattern := doublestar.SplitPattern(filepath.ToSlash(path))
	absBase, err := r.pathModifier.AbsPath(base)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s: %w", base, err)
	}

	matches, err := doublestar.Glob(os.DirFS(absBase), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("invalid path pattern %s: %w", path, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no match for %s", ErrNotFound, path)
	case 1:
		r.logger.Debugf("Pattern %s matched %s", path, matches[0])
		return filepath.Join(absBase, filepath.FromSlash(matches[0])), nil
	default:
		return "", fmt.Errorf("%w: %s matches %s", ErrAmbiguous, path, strings.Join(matches, ", "))
	}
}

func (r *resolver) statRegular(path string) (File, error) {
	info, err := r.osProxy.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return File{}, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	return File{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
	}, nil
}

// exists reports whether path names an existing entry, so names like report[1].zip are taken literally.
func (r *resolver) exists(path string) bool {
	absPath, err := r.pathModifier.AbsPath(path)
	if err != nil {
		return false
	}
	_, err = r.osProxy.Stat(absPath)
	return !errors.Is(err, os.ErrNotExist)
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

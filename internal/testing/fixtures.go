package testing

import (
	"os"
	"path/filepath"
)

// WriteFileOfSize writes size bytes of a repeating, position dependent pattern to dir/name.
// Every chunk of the file differs from its neighbours, so misplaced chunks are detectable.
func WriteFileOfSize(dir, name string, size int) (string, []byte, error) {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte((i/7 + i) % 251)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nil, err
	}
	return path, data, nil
}

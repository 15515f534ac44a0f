package resumable

import (
	"errors"
	"fmt"
	"io"
)

// chunkReader owns the sequential read position of the session file.
type chunkReader struct {
	file      io.ReadSeeker
	chunkSize int64
	mode      CursorMode
}

func newChunkReader(file io.ReadSeeker, chunkSize int64, mode CursorMode) *chunkReader {
	return &chunkReader{
		file:      file,
		chunkSize: chunkSize,
		mode:      mode,
	}
}

// skip is called for every chunk the server already has.
func (r *chunkReader) skip(chunk ChunkDescriptor) error {
	if r.mode == CursorLegacy {
		return nil
	}

	if _, err := r.file.Seek(r.chunkSize, io.SeekCurrent); err != nil {
		return fmt.Errorf("skip chunk %d: %w", chunk.Index, err)
	}
	return nil
}

// read returns a new buffer with the bytes of the next chunk.
func (r *chunkReader) read(chunk ChunkDescriptor) ([]byte, error) {
	if r.mode == CursorLegacy {
		// Up to a full chunk from wherever the cursor is.
		buffer := make([]byte, r.chunkSize)
		n, err := io.ReadFull(r.file, buffer)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read chunk %d: %w", chunk.Index, err)
		}
		return buffer[:n], nil
	}

	buffer := make([]byte, chunk.ByteLength)
	n, err := io.ReadFull(r.file, buffer)
	if err != nil {
		return nil, fmt.Errorf("read chunk %d: got %d of %d bytes: %w", chunk.Index, n, chunk.ByteLength, err)
	}
	return buffer, nil
}

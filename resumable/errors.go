package resumable

import (
	"errors"
	"fmt"
)

// ErrNotRegularFile is returned when the upload target is a directory or a device.
var ErrNotRegularFile = errors.New("not a regular file")

// ProtocolError is returned when the server answers a probe or an upload with an unexpected status.
// Its message is the response body, which resumable servers use as the human-readable reason.
type ProtocolError struct {
	Op          string
	ChunkNumber int
	StatusCode  int
	Body        string
}

func (e *ProtocolError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s chunk %d: unexpected HTTP status %d", e.Op, e.ChunkNumber, e.StatusCode)
	}
	return e.Body
}

// TransportError wraps network level failures (connection refused, reset, cancelled context, ...).
type TransportError struct {
	Op          string
	ChunkNumber int
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s chunk %d: %s", e.Op, e.ChunkNumber, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (r ProbeResult) err(chunkNumber int) error {
	if r.Status != ProbeFatal {
		return nil
	}
	return &ProtocolError{Op: opProbe, ChunkNumber: chunkNumber, StatusCode: r.StatusCode, Body: r.Body}
}

func (r UploadResult) err(chunkNumber int) error {
	if r.Status != UploadFatal {
		return nil
	}
	return &ProtocolError{Op: opUpload, ChunkNumber: chunkNumber, StatusCode: r.StatusCode, Body: r.Body}
}

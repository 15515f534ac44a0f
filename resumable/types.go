// Package resumable uploads a single file to an HTTP endpoint speaking the resumable.js chunk protocol.
// Every chunk is probed with a GET before transfer and only the chunks the server is missing are sent,
// one multipart/form-data POST at a time.
package resumable

// ChunkDescriptor identifies one chunk of the session.
type ChunkDescriptor struct {
	// Index is 1-based, in the range 1..TotalChunks.
	Index int
	// ByteLength is the number of file bytes that belong to this chunk.
	// It equals the chunk size except for the trailing chunk, which can even be empty.
	ByteLength int64
}

// ProbeStatus is the outcome of a chunk existence check.
type ProbeStatus int

const (
	// ChunkMissing means the server needs the chunk (HTTP 404).
	ChunkMissing ProbeStatus = iota
	// ChunkPresent means the server already has the chunk (HTTP 200).
	ChunkPresent
	// ProbeFatal means any other status, which aborts the session.
	ProbeFatal
)

func (s ProbeStatus) String() string {
	switch s {
	case ChunkMissing:
		return "missing"
	case ChunkPresent:
		return "present"
	default:
		return "fatal"
	}
}

// ProbeResult ...
type ProbeResult struct {
	Status     ProbeStatus
	StatusCode int
	Body       string
}

// UploadStatus is the outcome of a chunk transfer.
type UploadStatus int

const (
	// ChunkAccepted means the server stored the chunk (HTTP 200).
	ChunkAccepted UploadStatus = iota
	// UploadFatal means any other status, which aborts the session.
	UploadFatal
)

// UploadResult ...
type UploadResult struct {
	Status     UploadStatus
	StatusCode int
	Body       string
}

// IDGenerator returns a fresh random identifier on every call.
type IDGenerator func() string

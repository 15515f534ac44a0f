package resumable

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Session describes one upload run. It is created once and never modified.
type Session struct {
	FilePath    string
	Filename    string
	TotalSize   int64
	ChunkSize   int64
	TotalChunks int
	// Identifier lets the server correlate chunks of the same file across runs.
	Identifier string
	// UploadToken correlates the requests of this run only.
	UploadToken string
}

// NewSession plans the chunks of a file. An empty filename defaults to the base name of filePath.
func NewSession(filePath, filename string, totalSize int64, config Config, uploadToken string) Session {
	if filename == "" {
		filename = filepath.Base(filePath)
	}

	return Session{
		FilePath:    filePath,
		Filename:    filename,
		TotalSize:   totalSize,
		ChunkSize:   config.ChunkSize,
		TotalChunks: PlanChunks(totalSize, config.ChunkSize, config.ChunkCount),
		Identifier:  fmt.Sprintf("%d-%s", totalSize, filename),
		UploadToken: uploadToken,
	}
}

// Chunk describes the 1-based chunk index.
func (s Session) Chunk(index int) ChunkDescriptor {
	return ChunkDescriptor{
		Index:      index,
		ByteLength: ChunkLength(index, s.TotalSize, s.ChunkSize),
	}
}

func (s Session) probeQuery(index int) Query {
	return Query{}.
		Add("resumableChunkNumber", strconv.Itoa(index)).
		Add("resumableFilename", s.Filename).
		Add("uploadToken", s.UploadToken)
}

func (s Session) uploadQuery(index int) Query {
	return Query{}.
		Add("resumableChunkNumber", strconv.Itoa(index)).
		Add("resumableFilename", s.Filename).
		Add("resumableChunkSize", strconv.FormatInt(s.ChunkSize, 10)).
		Add("resumableTotalSize", strconv.FormatInt(s.TotalSize, 10)).
		Add("resumableIdentifier", s.Identifier).
		Add("resumableTotalChunks", strconv.Itoa(s.TotalChunks)).
		Add("uploadToken", s.UploadToken)
}

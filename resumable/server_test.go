package resumable

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/require"
)

type recordedProbe struct {
	chunkNumber   int
	rawQuery      string
	authorization string
}

type recordedUpload struct {
	chunkNumber   int
	rawQuery      string
	query         url.Values
	authorization string
	contentType   string
	filename      string
	partType      string
	data          []byte
}

// fakeServer is a scripted resumable endpoint. Probes answer 404 and uploads 200
// unless a chunk number is overridden.
type fakeServer struct {
	*httptest.Server

	mu           sync.Mutex
	probeStatus  map[int]int
	probeBody    map[int]string
	uploadStatus map[int]int
	uploadBody   map[int]string
	probes       []recordedProbe
	uploads      []recordedUpload
	failures     []error
}

func newFakeServer(t *testing.T) *fakeServer {
	s := &fakeServer{
		probeStatus:  map[int]int{},
		probeBody:    map[int]string{},
		uploadStatus: map[int]int{},
		uploadBody:   map[int]string{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(func() {
		s.Close()
		require.Empty(t, s.failures)
	})
	return s
}

func (s *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunkNumber, err := strconv.Atoi(r.URL.Query().Get("resumableChunkNumber"))
	if err != nil {
		s.failures = append(s.failures, fmt.Errorf("invalid chunk number in %s: %w", r.URL.RawQuery, err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.probes = append(s.probes, recordedProbe{
			chunkNumber:   chunkNumber,
			rawQuery:      r.URL.RawQuery,
			authorization: r.Header.Get("Authorization"),
		})
		status, ok := s.probeStatus[chunkNumber]
		if !ok {
			status = http.StatusNotFound
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(s.probeBody[chunkNumber]))
	case http.MethodPost:
		upload, err := readUpload(r)
		if err != nil {
			s.failures = append(s.failures, err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		upload.chunkNumber = chunkNumber
		s.uploads = append(s.uploads, upload)

		status, ok := s.uploadStatus[chunkNumber]
		if !ok {
			status = http.StatusOK
		}
		body, ok := s.uploadBody[chunkNumber]
		if !ok {
			body = fmt.Sprintf("chunk %d stored", chunkNumber)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	default:
		s.failures = append(s.failures, fmt.Errorf("unexpected method: %s", r.Method))
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func readUpload(r *http.Request) (recordedUpload, error) {
	upload := recordedUpload{
		rawQuery:      r.URL.RawQuery,
		query:         r.URL.Query(),
		authorization: r.Header.Get("Authorization"),
		contentType:   r.Header.Get("Content-Type"),
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return recordedUpload{}, fmt.Errorf("multipart reader: %w", err)
	}
	part, err := reader.NextPart()
	if err != nil {
		return recordedUpload{}, fmt.Errorf("first part: %w", err)
	}
	if part.FormName() != "file" {
		return recordedUpload{}, fmt.Errorf("unexpected form name: %s", part.FormName())
	}
	upload.filename = part.FileName()
	upload.partType = part.Header.Get("Content-Type")
	upload.data, err = io.ReadAll(part)
	if err != nil {
		return recordedUpload{}, fmt.Errorf("read part: %w", err)
	}
	if _, err := reader.NextPart(); err != io.EOF {
		return recordedUpload{}, fmt.Errorf("expected a single part, got: %v", err)
	}

	return upload, nil
}

func (s *fakeServer) probeNumbers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	numbers := make([]int, 0, len(s.probes))
	for _, p := range s.probes {
		numbers = append(numbers, p.chunkNumber)
	}
	return numbers
}

func (s *fakeServer) uploadNumbers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	numbers := make([]int, 0, len(s.uploads))
	for _, u := range s.uploads {
		numbers = append(numbers, u.chunkNumber)
	}
	return numbers
}

// sequentialIDs returns a generator producing id-1, id-2, ...
func sequentialIDs() IDGenerator {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestUploader(config Config) *Uploader {
	config.NewID = sequentialIDs()
	return New(config, log.NewLogger())
}

func (s *fakeServer) recordedProbes() []recordedProbe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedProbe(nil), s.probes...)
}

func (s *fakeServer) recordedUploads() []recordedUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedUpload(nil), s.uploads...)
}

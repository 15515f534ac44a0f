package resumable

import (
	"context"
	"io"
	"net/http"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	opProbe  = "probe"
	opUpload = "upload"
)

// Transport performs the two requests of the chunk protocol against a single endpoint.
type Transport struct {
	httpClient  *retryablehttp.Client
	url         string
	apiKey      string
	escapeQuery bool
	newID       IDGenerator
	logger      log.Logger
}

// NewTransport ...
func NewTransport(client *retryablehttp.Client, url, apiKey string, escapeQuery bool, newID IDGenerator, logger log.Logger) *Transport {
	return &Transport{
		httpClient:  client,
		url:         url,
		apiKey:      apiKey,
		escapeQuery: escapeQuery,
		newID:       newID,
		logger:      logger,
	}
}

// newHTTPClient wraps client so that every request is sent exactly once
// and non-2xx responses are handed back with their body intact.
func newHTTPClient(client *http.Client, logger log.Logger) *retryablehttp.Client {
	retryableClient := retryhttp.NewClient(logger)
	retryableClient.HTTPClient = client
	retryableClient.RetryMax = 0
	retryableClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		return false, nil
	}
	retryableClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return retryableClient
}

// Probe asks the server whether it already has the chunk.
func (t *Transport) Probe(ctx context.Context, session Session, index int) (ProbeResult, error) {
	targetURL := AppendQuery(t.url, session.probeQuery(index), t.escapeQuery)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return ProbeResult{}, &TransportError{Op: opProbe, ChunkNumber: index, Err: err}
	}
	req.Header.Set("Authorization", t.apiKey)

	statusCode, body, err := t.do(req)
	if err != nil {
		return ProbeResult{}, &TransportError{Op: opProbe, ChunkNumber: index, Err: err}
	}

	switch statusCode {
	case http.StatusOK:
		return ProbeResult{Status: ChunkPresent, StatusCode: statusCode, Body: body}, nil
	case http.StatusNotFound:
		return ProbeResult{Status: ChunkMissing, StatusCode: statusCode, Body: body}, nil
	default:
		return ProbeResult{Status: ProbeFatal, StatusCode: statusCode, Body: body}, nil
	}
}

// Upload sends the chunk bytes as a multipart/form-data POST.
func (t *Transport) Upload(ctx context.Context, session Session, index int, data []byte) (UploadResult, error) {
	targetURL := AppendQuery(t.url, session.uploadQuery(index), t.escapeQuery)
	boundary := t.newID()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, targetURL, EncodeChunk(boundary, session.Filename, data))
	if err != nil {
		return UploadResult{}, &TransportError{Op: opUpload, ChunkNumber: index, Err: err}
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", MultipartContentType(boundary))

	statusCode, body, err := t.do(req)
	if err != nil {
		return UploadResult{}, &TransportError{Op: opUpload, ChunkNumber: index, Err: err}
	}

	if statusCode != http.StatusOK {
		return UploadResult{Status: UploadFatal, StatusCode: statusCode, Body: body}, nil
	}
	return UploadResult{Status: ChunkAccepted, StatusCode: statusCode, Body: body}, nil
}

func (t *Transport) do(req *retryablehttp.Request) (int, string, error) {
	t.logger.Debugf("%s %s (%d bytes)", req.Method, req.URL, req.ContentLength)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			t.logger.Printf("%s", err)
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	t.logger.Debugf("Chunk response: HTTP %d, %d bytes", resp.StatusCode, len(body))

	return resp.StatusCode, string(body), nil
}

package resumable

import (
	"bytes"
	"fmt"
)

const (
	formFieldName   = "file"
	partContentType = "application/octet-stream"
	crlf            = "\r\n"
)

// EncodeChunk serializes data as a multipart/form-data body with a single file part.
// The filename is written verbatim; servers expect it unescaped.
func EncodeChunk(boundary, filename string, data []byte) []byte {
	var body bytes.Buffer
	body.Grow(len(data) + 2*len(boundary) + len(filename) + 128)

	body.WriteString("--" + boundary + crlf)
	body.WriteString(fmt.Sprintf(`Content-Disposition: form-data; name="%s"; filename="%s"`, formFieldName, filename) + crlf)
	body.WriteString("Content-Type: " + partContentType + crlf)
	body.WriteString(crlf)
	body.Write(data)
	body.WriteString(crlf)
	body.WriteString("--" + boundary + "--" + crlf)

	return body.Bytes()
}

// MultipartContentType returns the Content-Type header value for a body encoded with boundary.
func MultipartContentType(boundary string) string {
	return fmt.Sprintf(`multipart/form-data;boundary="%s"`, boundary)
}

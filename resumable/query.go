package resumable

import (
	"net/url"
	"strings"
)

// QueryParam is a single key/value pair of a request query string.
type QueryParam struct {
	Key   string
	Value string
}

// Query keeps parameters in insertion order so request URLs are deterministic.
type Query []QueryParam

// Add appends a parameter.
func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// Encode joins the parameters with '&'. Values are URL-encoded when escape is set.
func (q Query) Encode(escape bool) string {
	pairs := make([]string, 0, len(q))
	for _, p := range q {
		value := p.Value
		if escape {
			value = url.QueryEscape(value)
		}
		pairs = append(pairs, p.Key+"="+value)
	}
	return strings.Join(pairs, "&")
}

// AppendQuery returns rawURL with the query appended.
// A URL that already carries parameters gets an '&' separator.
func AppendQuery(rawURL string, q Query, escape bool) string {
	encoded := q.Encode(escape)
	if encoded == "" {
		return rawURL
	}

	switch {
	case !strings.Contains(rawURL, "?"):
		return rawURL + "?" + encoded
	case strings.HasSuffix(rawURL, "?"), strings.HasSuffix(rawURL, "&"):
		return rawURL + encoded
	default:
		return rawURL + "&" + encoded
	}
}

package resumable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendQuery(t *testing.T) {
	q := Query{}.Add("a", "1").Add("b", "2")

	tests := []struct {
		name   string
		url    string
		escape bool
		want   string
	}{
		{name: "without question mark", url: "http://localhost:8080", want: "http://localhost:8080?a=1&b=2"},
		{name: "with trailing question mark", url: "http://localhost:8080?", want: "http://localhost:8080?a=1&b=2"},
		{name: "with existing parameters", url: "http://localhost:8080/upload?project=x", want: "http://localhost:8080/upload?project=x&a=1&b=2"},
		{name: "with trailing ampersand", url: "http://localhost:8080/upload?project=x&", want: "http://localhost:8080/upload?project=x&a=1&b=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppendQuery(tt.url, q, tt.escape))
		})
	}
}

func TestAppendQuery_EmptyQuery(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", AppendQuery("http://localhost:8080", Query{}, true))
}

func TestQuery_Encode(t *testing.T) {
	q := Query{}.
		Add("resumableFilename", "my file&co.bin").
		Add("resumableIdentifier", "12-my file&co.bin")

	assert.Equal(t, "resumableFilename=my file&co.bin&resumableIdentifier=12-my file&co.bin", q.Encode(false))
	assert.Equal(t, "resumableFilename=my+file%26co.bin&resumableIdentifier=12-my+file%26co.bin", q.Encode(true))
}

func TestQuery_KeepsInsertionOrder(t *testing.T) {
	q := Query{}.Add("z", "1").Add("a", "2").Add("m", "3")

	assert.Equal(t, "z=1&a=2&m=3", q.Encode(true))
}

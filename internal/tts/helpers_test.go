package tts

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// capture records the last request a stub provider received.
type capture struct {
	calls  atomic.Int32
	path   string
	header http.Header
	body   map[string]any
}

func newStub(t *testing.T, status int, contentType string, reply []byte) (*httptest.Server, *capture) {
	t.Helper()

	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.calls.Add(1)
		c.path = r.URL.Path
		c.header = r.Header.Clone()

		raw, _ := io.ReadAll(r.Body)
		c.body = map[string]any{}
		_ = json.Unmarshal(raw, &c.body)

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write(reply)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

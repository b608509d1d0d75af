// Package tts contains the adapters that turn prompt text into audio through
// the external speech providers.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrSynthesisFailed   = errors.New("synthesis failed")
	ErrMalformedResponse = errors.New("malformed response")
)

// Settings is a provider's resolved generation configuration.
type Settings struct {
	Model string
	Voice string

	// Variant lists the remaining parameters that change the produced audio.
	// They are folded into the cache key after the model.
	Variant []string
}

// CacheModel is the value stored in the cache key's model column: the model
// alone, or the model followed by the variant values joined with "|".
func (s Settings) CacheModel() string {
	if len(s.Variant) == 0 {
		return s.Model
	}
	return s.Model + "|" + strings.Join(s.Variant, "|")
}

// Result is one synthesis with the model and voice the provider actually used.
type Result struct {
	Audio audio.Raw
	Model string
	Voice string
}

// Synthesizer is implemented by every provider adapter.
type Synthesizer interface {
	Name() string
	Settings() Settings
	Synthesize(ctx context.Context, text string) (*Result, error)
}

func missingCredential(provider, setting string) error {
	return fmt.Errorf("%s: %w: %s is not set", provider, ErrMissingCredential, setting)
}

// upstreamError reads the failed response body into the error so callers see
// what the provider said.
func upstreamError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return fmt.Errorf("%s: %w (status %d): %s", provider, ErrSynthesisFailed, resp.StatusCode, strings.TrimSpace(string(body)))
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// postJSON sends body to url and returns the response body of a 2xx reply.
// Any other status becomes ErrSynthesisFailed carrying the upstream body.
func postJSON(ctx context.Context, client *http.Client, provider, url string, header http.Header, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", provider, ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamError(provider, resp)
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", provider, err)
	}
	return out, nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

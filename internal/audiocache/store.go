// Package audiocache persists synthesized audio keyed by the exact generation
// parameters. Entries are written once and never updated.
package audiocache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
)

// Key identifies one cached artifact. Model may be a composite string when a
// provider has further output parameters.
type Key struct {
	ProviderID string
	PromptID   string
	Model      string
	Voice      string
}

// Digest is a stable hex digest of the key, used where backends restrict key
// characters.
func (k Key) Digest() string {
	h := sha256.New()
	for _, part := range []string{k.ProviderID, k.PromptID, k.Model, k.Voice} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type Entry struct {
	Key    Key
	Format audio.Format
	Audio  []byte
}

// Store is the cache contract. Probe reports found=false for absent keys.
// InsertIfAbsent leaves an existing entry untouched and does not report the
// duplicate as an error.
type Store interface {
	Probe(ctx context.Context, key Key) (*Entry, bool, error)
	InsertIfAbsent(ctx context.Context, entry Entry) error
}

// payload is the serialized value for key-value backends.
type payload struct {
	ProviderID  string       `json:"provider_id"`
	PromptID    string       `json:"prompt_id"`
	Model       string       `json:"model"`
	Voice       string       `json:"voice"`
	Format      audio.Format `json:"format"`
	AudioBase64 string       `json:"audio_base64"`
}

func encodePayload(e Entry) ([]byte, error) {
	data, err := json.Marshal(payload{
		ProviderID:  e.Key.ProviderID,
		PromptID:    e.Key.PromptID,
		Model:       e.Key.Model,
		Voice:       e.Key.Voice,
		Format:      e.Format,
		AudioBase64: base64.StdEncoding.EncodeToString(e.Audio),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal entry: %w", err)
	}
	return data, nil
}

func decodePayload(key Key, data []byte) (*Entry, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(p.AudioBase64)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return &Entry{Key: key, Format: p.Format, Audio: raw}, nil
}

package audiocache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/ttsthrowdown/internal/audio"
)

// PostgresStore keeps entries in the tts_audio table created by the migrations.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Probe(ctx context.Context, key Key) (*Entry, bool, error) {
	var encoded, format string
	err := s.db.QueryRow(ctx,
		`SELECT audio_base64, format FROM tts_audio
		 WHERE provider_id = $1 AND prompt_id = $2 AND model = $3 AND voice = $4
		 LIMIT 1`,
		key.ProviderID, key.PromptID, key.Model, key.Voice,
	).Scan(&encoded, &format)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query tts_audio: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached audio: %w", err)
	}
	return &Entry{Key: key, Format: audio.Format(format), Audio: raw}, true, nil
}

func (s *PostgresStore) InsertIfAbsent(ctx context.Context, entry Entry) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tts_audio (provider_id, prompt_id, model, voice, format, audio_base64)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (provider_id, prompt_id, model, voice) DO NOTHING`,
		entry.Key.ProviderID, entry.Key.PromptID, entry.Key.Model, entry.Key.Voice,
		string(entry.Format), base64.StdEncoding.EncodeToString(entry.Audio),
	)
	if err != nil {
		return fmt.Errorf("insert tts_audio: %w", err)
	}
	return nil
}

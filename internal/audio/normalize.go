package audio

import (
	"errors"
	"fmt"
)

var ErrEmptyAudio = errors.New("empty audio payload")

// Raw is provider output before normalization. When PCM is set, Data holds
// headerless samples in that layout and Format is ignored.
type Raw struct {
	Data   []byte
	Format Format
	PCM    *PCMLayout
}

// Clip is normalized audio ready to cache and serve.
type Clip struct {
	Data   []byte
	Format Format
}

// Normalize turns provider output into a Clip. Container formats pass through
// untouched; raw PCM is wrapped in a WAV header.
func Normalize(raw Raw) (Clip, error) {
	if len(raw.Data) == 0 {
		return Clip{}, ErrEmptyAudio
	}

	if raw.PCM != nil {
		data, err := EncodeWAV(raw.Data, *raw.PCM)
		if err != nil {
			return Clip{}, fmt.Errorf("wrap pcm: %w", err)
		}
		return Clip{Data: data, Format: WAV}, nil
	}

	if !raw.Format.Valid() {
		return Clip{}, fmt.Errorf("unknown audio format %q", raw.Format)
	}
	return Clip{Data: raw.Data, Format: raw.Format}, nil
}

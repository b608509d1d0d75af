// Package audio holds the canonical audio formats served to clients and the
// normalization applied to provider output before it is cached.
package audio

import "strings"

// Format is a canonical audio format tag. Only the values declared below are
// ever persisted or served.
type Format string

const (
	MP3   Format = "mp3"
	WAV   Format = "wav"
	OGG   Format = "ogg"
	FLAC  Format = "flac"
	ALAW  Format = "alaw"
	MULAW Format = "mulaw"
)

var contentTypes = map[Format]string{
	MP3:   "audio/mpeg",
	WAV:   "audio/wav",
	OGG:   "audio/ogg",
	FLAC:  "audio/flac",
	ALAW:  "audio/basic",
	MULAW: "audio/basic",
}

// encodingFormats maps provider encoding names to the tag of the bytes they produce.
var encodingFormats = map[string]Format{
	"LINEAR16": WAV,
	"OGG_OPUS": OGG,
	"FLAC":     FLAC,
	"ALAW":     ALAW,
	"MULAW":    MULAW,
}

// Valid reports whether f is one of the canonical tags.
func (f Format) Valid() bool {
	_, ok := contentTypes[f]
	return ok
}

// ContentType returns the MIME type for f, audio/mpeg for anything unknown.
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return contentTypes[MP3]
}

// FormatForEncoding returns the tag for a provider encoding name. Matching is
// case-insensitive and unrecognized names fall back to MP3.
func FormatForEncoding(encoding string) Format {
	if f, ok := encodingFormats[strings.ToUpper(strings.TrimSpace(encoding))]; ok {
		return f
	}
	return MP3
}

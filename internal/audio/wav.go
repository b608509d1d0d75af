package audio

import (
	"encoding/binary"
	"fmt"
)

// WAVHeaderSize is the size of the canonical RIFF/WAVE header written by EncodeWAV.
const WAVHeaderSize = 44

// PCMLayout describes headerless linear PCM samples.
type PCMLayout struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// Mono16 is 16-bit little-endian mono PCM at the given sample rate.
func Mono16(sampleRate int) PCMLayout {
	return PCMLayout{SampleRate: sampleRate, Channels: 1, BitsPerSample: 16}
}

func (l PCMLayout) validate() error {
	if l.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", l.SampleRate)
	}
	if l.Channels <= 0 {
		return fmt.Errorf("invalid channel count %d", l.Channels)
	}
	if l.BitsPerSample <= 0 || l.BitsPerSample%8 != 0 {
		return fmt.Errorf("invalid bits per sample %d", l.BitsPerSample)
	}
	return nil
}

// EncodeWAV prefixes pcm with a 44-byte PCM WAVE header. The samples are
// copied unchanged.
func EncodeWAV(pcm []byte, l PCMLayout) ([]byte, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	blockAlign := l.Channels * l.BitsPerSample / 8
	byteRate := l.SampleRate * blockAlign
	size := len(pcm)

	buf := make([]byte, WAVHeaderSize+size)
	le := binary.LittleEndian

	copy(buf[0:4], "RIFF")
	le.PutUint32(buf[4:8], uint32(36+size))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	le.PutUint32(buf[16:20], 16)
	le.PutUint16(buf[20:22], 1) // linear PCM
	le.PutUint16(buf[22:24], uint16(l.Channels))
	le.PutUint32(buf[24:28], uint32(l.SampleRate))
	le.PutUint32(buf[28:32], uint32(byteRate))
	le.PutUint16(buf[32:34], uint16(blockAlign))
	le.PutUint16(buf[34:36], uint16(l.BitsPerSample))
	copy(buf[36:40], "data")
	le.PutUint32(buf[40:44], uint32(size))
	copy(buf[WAVHeaderSize:], pcm)

	return buf, nil
}

package audiocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSStore keeps entries in a JetStream key-value bucket keyed by the key
// digest. kv.Create only succeeds for new keys.
type NATSStore struct {
	bucket string
	kv     nats.KeyValue
}

// NewNATSStore binds to bucket, creating it when it does not exist yet.
func NewNATSStore(js nats.JetStreamContext, bucket string) (*NATSStore, error) {
	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "Synthesized prompt audio.",
			History:     1,
			Storage:     nats.FileStorage,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("open key-value bucket %q: %w", bucket, err)
	}
	return &NATSStore{bucket: bucket, kv: kv}, nil
}

func (s *NATSStore) Probe(_ context.Context, key Key) (*Entry, bool, error) {
	kve, err := s.kv.Get(key.Digest())
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s from bucket %q: %w", key.Digest(), s.bucket, err)
	}

	e, err := decodePayload(key, kve.Value())
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

func (s *NATSStore) InsertIfAbsent(_ context.Context, entry Entry) error {
	data, err := encodePayload(entry)
	if err != nil {
		return err
	}
	if _, err := s.kv.Create(entry.Key.Digest(), data); err != nil && !errors.Is(err, nats.ErrKeyExists) {
		return fmt.Errorf("create %s in bucket %q: %w", entry.Key.Digest(), s.bucket, err)
	}
	return nil
}

// Package nats provides tree.Watcher implementations over NATS JetStream
// key-value buckets.
package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/zoobzio/treehouse/tree"
)

// Watcher watches a single NATS KV key and emits its value as a document.
type Watcher struct {
	kv  jetstream.KeyValue
	key string
}

var _ tree.Watcher = (*Watcher)(nil)

// New creates a new Watcher for the given NATS KV key.
func New(kv jetstream.KeyValue, key string) *Watcher {
	return &Watcher{
		kv:  kv,
		key: key,
	}
}

// Watch begins watching the key and returns a channel that emits the value
// whenever it changes. The current value is emitted first. Deletes and
// purges are not emitted.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	watcher, err := w.kv.Watch(ctx, w.key)
	if err != nil {
		return nil, fmt.Errorf("watch key %s: %w", w.key, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				// nil marks the end of the initial values.
				if entry == nil {
					continue
				}
				if entry.Operation() == jetstream.KeyValueDelete || entry.Operation() == jetstream.KeyValuePurge {
					continue
				}

				select {
				case out <- entry.Value():
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// BucketWatcher watches every key of a bucket and emits the whole bucket as
// one JSON object keyed by KV key. Values that hold JSON are embedded as
// decoded values, anything else as a string. Each KV key therefore becomes
// a top-level tree channel.
type BucketWatcher struct {
	kv jetstream.KeyValue
}

var _ tree.Watcher = (*BucketWatcher)(nil)

// NewBucket creates a BucketWatcher for kv.
func NewBucket(kv jetstream.KeyValue) *BucketWatcher {
	return &BucketWatcher{kv: kv}
}

// Watch emits the bucket once the initial values have been read, then again
// after every put, delete or purge.
func (w *BucketWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	watcher, err := w.kv.WatchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("watch bucket: %w", err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Stop()

		doc := map[string]any{}
		initial := true
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				if entry != nil {
					apply(doc, entry)
					if initial {
						continue
					}
				}
				initial = false

				data, err := json.Marshal(doc)
				if err != nil {
					continue
				}
				select {
				case out <- data:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func apply(doc map[string]any, entry jetstream.KeyValueEntry) {
	switch entry.Operation() {
	case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
		delete(doc, entry.Key())
		return
	}
	var v any
	if err := json.Unmarshal(entry.Value(), &v); err != nil {
		v = string(entry.Value())
	}
	doc[entry.Key()] = v
}

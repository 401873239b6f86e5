// Package redis provides a tree.Watcher that streams state documents from a
// Redis key using keyspace notifications.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zoobzio/treehouse/tree"
)

// Watcher watches a Redis key for changes using keyspace notifications.
// Requires Redis to have keyspace notifications enabled:
//
//	CONFIG SET notify-keyspace-events KEA
//
// Or in redis.conf:
//
//	notify-keyspace-events KEA
//
// A string key is emitted as is. With AsHash the key is read as a hash and
// emitted as a JSON object, one top-level field per hash field, so each
// field lands on its own tree channel. A deleted or expired key is emitted
// as the empty document.
type Watcher struct {
	client *redis.Client
	key    string
	db     int
	hash   bool
}

var _ tree.Watcher = (*Watcher)(nil)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDB sets the database number used for the keyspace channel. Defaults
// to 0.
func WithDB(db int) Option {
	return func(w *Watcher) {
		w.db = db
	}
}

// AsHash reads the key as a hash.
func AsHash() Option {
	return func(w *Watcher) {
		w.hash = true
	}
}

// New creates a new Watcher for the given Redis key.
func New(client *redis.Client, key string, opts ...Option) *Watcher {
	w := &Watcher{
		client: client,
		key:    key,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch begins watching the Redis key and returns a channel that emits the
// document whenever it changes. The current value, if any, is emitted first.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	channel := fmt.Sprintf("__keyspace@%d__:%s", w.db, w.key)
	pubsub := w.client.Subscribe(ctx, channel)

	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to keyspace notifications: %w", err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer pubsub.Close()

		emit := func(data []byte) bool {
			select {
			case out <- data:
				return true
			case <-ctx.Done():
				return false
			}
		}

		val, err := w.read(ctx)
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return
		default:
			if !emit(val) {
				return
			}
		}

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				switch msg.Payload {
				case "set", "setex", "psetex", "setnx", "mset", "hset", "hdel", "hmset", "hsetnx", "hincrby":
					val, err := w.read(ctx)
					if err != nil {
						continue
					}
					if !emit(val) {
						return
					}
				case "del", "expired":
					if !emit([]byte("{}")) {
						return
					}
				}
			}
		}
	}()

	return out, nil
}

// read fetches the current document. It returns redis.Nil when the key is
// absent.
func (w *Watcher) read(ctx context.Context) ([]byte, error) {
	if !w.hash {
		return w.client.Get(ctx, w.key).Bytes()
	}
	fields, err := w.client.HGetAll(ctx, w.key).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, redis.Nil
	}
	return json.Marshal(fields)
}

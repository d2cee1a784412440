// Package redis provides a Redis backed implementation of the core.Map
// backing-map contract for deployments that want session state shared across
// processes or surviving restarts. Sessions round-trip through JSON under a
// configurable key prefix; Range scans the prefix with the server-side cursor.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/agentsession/core"
)

const defaultKeyPrefix = "session:"

// Options configures a Map.
type Options struct {
	// KeyPrefix namespaces all session keys. Defaults to "session:".
	KeyPrefix string
	// TTL, when positive, is applied to every written key. The store itself
	// has no expiry semantics; leave zero unless the deployment wants Redis to
	// reap stale sessions on its own.
	TTL time.Duration
}

// Map is a core.Map backed by a Redis instance. Concurrency safety is provided
// by Redis itself; the value is cheap to share across stores.
type Map struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New wraps an existing Redis client.
func New(client *redis.Client, optFns ...func(o *Options)) *Map {
	opts := Options{KeyPrefix: defaultKeyPrefix}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Map{client: client, prefix: opts.KeyPrefix, ttl: opts.TTL}
}

// NewFromURL dials the Redis instance at url (redis://...) and verifies the
// connection with a ping before returning the map.
func NewFromURL(ctx context.Context, url string, optFns ...func(o *Options)) (*Map, error) {
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(redisOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return New(client, optFns...), nil
}

func (m *Map) key(sessionID string) string { return m.prefix + sessionID }

// Get fetches and unmarshals the session for the id.
func (m *Map) Get(ctx context.Context, sessionID string) (*core.Session, bool, error) {
	raw, err := m.client.Get(ctx, m.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get session %q: %w", sessionID, err)
	}

	var sess core.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, false, fmt.Errorf("unmarshal session %q: %w", sessionID, err)
	}

	return &sess, true, nil
}

// Set marshals and writes the session, applying the configured TTL if any.
func (m *Map) Set(ctx context.Context, s *core.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %q: %w", s.ID, err)
	}

	if err := m.client.Set(ctx, m.key(s.ID), raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("set session %q: %w", s.ID, err)
	}

	return nil
}

// Delete removes the key; missing keys are a no-op.
func (m *Map) Delete(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, m.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session %q: %w", sessionID, err)
	}
	return nil
}

// Range iterates every session under the key prefix, stopping early when fn
// returns false. Keys created or deleted mid-scan may or may not be observed,
// matching Redis SCAN semantics.
func (m *Map) Range(ctx context.Context, fn func(*core.Session) bool) error {
	iter := m.client.Scan(ctx, 0, m.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := m.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired or deleted between SCAN and GET
		}
		if err != nil {
			return fmt.Errorf("get key %q: %w", iter.Val(), err)
		}

		var sess core.Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return fmt.Errorf("unmarshal key %q: %w", iter.Val(), err)
		}

		if !fn(&sess) {
			return nil
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan sessions: %w", err)
	}
	return nil
}

// Len counts the keys under the prefix.
func (m *Map) Len(ctx context.Context) (int, error) {
	var n int
	iter := m.client.Scan(ctx, 0, m.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}
	return n, nil
}

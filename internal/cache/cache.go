// Package cache is the local session cache: one serialized profile per active
// session in Redis. It is a convenience copy only; the record store stays the
// source of truth and logout never touches it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
)

// ErrCacheMiss is returned when no profile is cached for a session.
var ErrCacheMiss = errors.New("profile not in cache")

const keyPrefix = "session:"

// ProfileCache stores SubscriptionProfile snapshots keyed by subscription ID.
// Writes are infrequent idempotent snapshots; last writer wins.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*ProfileCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Printf("[ProfileCache] Connected to redis at %s", addr)
	return &ProfileCache{client: client, ttl: ttl}, nil
}

// Save caches a profile snapshot. The proof reference is stripped first: the
// cache holds presentation state only, never anything payment related.
func (c *ProfileCache) Save(ctx context.Context, p *models.SubscriptionProfile) error {
	stripped := *p
	stripped.ProofURL = ""

	data, err := json.Marshal(&stripped)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+p.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}
	return nil
}

// Load restores a cached profile by subscription ID.
func (c *ProfileCache) Load(ctx context.Context, id string) (*models.SubscriptionProfile, error) {
	data, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var p models.SubscriptionProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

// Delete clears a cached session. Missing keys are not an error.
func (c *ProfileCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// SessionIDs lists the subscription IDs with a live cached session. Used by
// the status poller to know which sessions to refresh.
func (c *ProfileCache) SessionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(keyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return ids, nil
}

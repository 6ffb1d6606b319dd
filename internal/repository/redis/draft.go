package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sophialaurans/stockly-go/internal/domain"
	apperrors "github.com/sophialaurans/stockly-go/pkg/errors"
)

const keyPrefix = "draft:"

// DraftRepository implements repository.DraftRepository using Redis. Drafts
// are session state: they live under a TTL and are deleted on submission,
// never archived.
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftRepository creates a new Redis-backed draft repository.
func NewDraftRepository(client *redis.Client, ttl time.Duration) *DraftRepository {
	return &DraftRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the draft for a user from Redis.
func (r *DraftRepository) Get(ctx context.Context, userID string) (*domain.OrderDraft, error) {
	key := keyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("draft", userID)
		}
		return nil, fmt.Errorf("redis get draft: %w", err)
	}

	var draft domain.OrderDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}

	return &draft, nil
}

// SaveIfVersion persists the draft under an optimistic version check. The key
// is watched so a concurrent write between the read and the transactional SET
// aborts the save. Returns false without error when either the version check
// or the transaction fails; the caller decides whether to retry.
func (r *DraftRepository) SaveIfVersion(ctx context.Context, draft *domain.OrderDraft, expectedVersion int) (bool, error) {
	key := keyPrefix + draft.UserID
	saved := false

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			// No stored draft; only a fresh draft (version 0) may create one.
			if expectedVersion != 0 {
				return nil
			}
		case err != nil:
			return fmt.Errorf("redis get draft: %w", err)
		default:
			var current domain.OrderDraft
			if err := json.Unmarshal(data, &current); err != nil {
				return fmt.Errorf("unmarshal stored draft: %w", err)
			}
			if current.Version != expectedVersion {
				return nil
			}
		}

		draft.Version = expectedVersion + 1
		payload, err := json.Marshal(draft)
		if err != nil {
			return fmt.Errorf("marshal draft: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		saved = true
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis save draft: %w", err)
	}
	return saved, nil
}

// Delete removes the draft for a user from Redis.
func (r *DraftRepository) Delete(ctx context.Context, userID string) error {
	key := keyPrefix + userID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}

	return nil
}

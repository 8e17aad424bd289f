package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventhub-dev/eventhub/internal/poll"
)

const draftKeyPrefix = "eventhub:poll:draft:"

// DraftRepository keeps poll drafts while they are being edited.
type DraftRepository interface {
	Save(ctx context.Context, draft *poll.Draft) error
	Get(ctx context.Context, id string) (*poll.Draft, error)
	Delete(ctx context.Context, id string) error
}

type redisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftRepository stores drafts in Redis. Every save refreshes ttl.
func NewDraftRepository(client *redis.Client, ttl time.Duration) DraftRepository {
	return &redisDraftRepository{client: client, ttl: ttl}
}

func (r *redisDraftRepository) Save(ctx context.Context, draft *poll.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, draftKeyPrefix+draft.ID, payload, r.ttl).Err()
}

func (r *redisDraftRepository) Get(ctx context.Context, id string) (*poll.Draft, error) {
	payload, err := r.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var draft poll.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *redisDraftRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, draftKeyPrefix+id).Err()
}

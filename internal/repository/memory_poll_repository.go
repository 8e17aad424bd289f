package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventhub-dev/eventhub/internal/poll"
)

type memoryPollRepository struct {
	mu    sync.RWMutex
	polls map[string]poll.Poll
}

// NewMemoryPollRepository returns a process-local PollRepository.
func NewMemoryPollRepository() PollRepository {
	return &memoryPollRepository{polls: make(map[string]poll.Poll)}
}

func (r *memoryPollRepository) Create(_ context.Context, p *poll.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	p.PublishedAt = time.Now().UTC()
	r.polls[p.ID] = poll.Poll{ID: p.ID, Form: p.Form.Clone(), PublishedAt: p.PublishedAt}
	return nil
}

func (r *memoryPollRepository) GetByID(_ context.Context, id string) (*poll.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Form = p.Form.Clone()
	return &p, nil
}

type memoryDraftRepository struct {
	mu     sync.RWMutex
	drafts map[string]poll.Draft
}

// NewMemoryDraftRepository returns a process-local DraftRepository
// without expiry.
func NewMemoryDraftRepository() DraftRepository {
	return &memoryDraftRepository{drafts: make(map[string]poll.Draft)}
}

func (r *memoryDraftRepository) Save(_ context.Context, draft *poll.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *draft
	stored.Form = draft.Form.Clone()
	r.drafts[draft.ID] = stored
	return nil
}

func (r *memoryDraftRepository) Get(_ context.Context, id string) (*poll.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	d.Form = d.Form.Clone()
	return &d, nil
}

func (r *memoryDraftRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

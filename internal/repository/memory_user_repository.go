package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventhub-dev/eventhub/internal/domain"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	order []string
	now   func() time.Time
}

// NewMemoryUserRepository returns a volatile, process-local user directory.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*domain.User), now: time.Now}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailOwner(user.Email) != "" {
		return ErrEmailTaken
	}

	now := r.now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if owner := r.emailOwner(user.Email); owner != "" && owner != user.ID {
		return ErrEmailTaken
	}

	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = r.now().UTC()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if usr, ok := r.users[id]; ok {
		out := *usr
		return &out, nil
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id := r.emailOwner(email); id != "" {
		out := *r.users[id]
		return &out, nil
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailOwner(email) != "", nil
}

func (r *memoryUserRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]*domain.User)
	r.order = nil
	return nil
}

// emailOwner returns the id of the first user registered with email.
func (r *memoryUserRepository) emailOwner(email string) string {
	for _, id := range r.order {
		if r.users[id].Email == email {
			return id
		}
	}
	return ""
}

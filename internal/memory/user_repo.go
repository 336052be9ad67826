package memory

import (
	"context"
	"sync"

	"github.com/cwrk-planet/course-relay/internal/domain"

	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

// Create assigns a fresh id to u and stores a copy of it.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u == nil {
		return domain.ErrInvalidInput
	}
	u.ID = uuid.NewString()

	stored := *u
	stored.Skills = append([]string{}, u.Skills...)

	r.mu.Lock()
	r.users[stored.ID] = stored
	r.mu.Unlock()

	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	u, ok := r.users[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	u.Skills = append([]string{}, u.Skills...)
	return &u, nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

// Usernames resolves ids to usernames; unknown ids are absent from the result.
func (r *UserRepository) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.Username
		}
	}
	return out, nil
}

// Package memory provides in-process repository implementations used when
// Postgres or Redis are not configured, and by tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qasim12343/MarketPlace-sub002/internal/domain"
	"github.com/qasim12343/MarketPlace-sub002/internal/repository"
)

// UserRepository keeps buyers in a map guarded by a mutex.
type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.User
	phone map[string]string
	email map[string]string
}

// NewUserRepository returns an empty store.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:  make(map[string]domain.User),
		phone: make(map[string]string),
		email: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.phone[user.Phone]; taken {
		return repository.ErrDuplicate
	}
	if user.Email != nil {
		if _, taken := r.email[*user.Email]; taken {
			return repository.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.phone[user.Phone] = user.ID
	if user.Email != nil {
		r.email[*user.Email] = user.ID
	}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.phone[phone]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return nil
}

// OwnerRepository keeps store owners in a map guarded by a mutex.
type OwnerRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.Owner
	phone map[string]string
	email map[string]string
}

// NewOwnerRepository returns an empty store.
func NewOwnerRepository() *OwnerRepository {
	return &OwnerRepository{
		byID:  make(map[string]domain.Owner),
		phone: make(map[string]string),
		email: make(map[string]string),
	}
}

func (r *OwnerRepository) Create(_ context.Context, owner *domain.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.phone[owner.Phone]; taken {
		return repository.ErrDuplicate
	}
	if owner.Email != nil {
		if _, taken := r.email[*owner.Email]; taken {
			return repository.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	owner.ID = uuid.NewString()
	owner.CreatedAt = now
	owner.UpdatedAt = now

	r.byID[owner.ID] = *owner
	r.phone[owner.Phone] = owner.ID
	if owner.Email != nil {
		r.email[*owner.Email] = owner.ID
	}
	return nil
}

func (r *OwnerRepository) GetByID(_ context.Context, id string) (*domain.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &owner, nil
}

func (r *OwnerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Owner, error) {
	r.mu.RLock()
	id, ok := r.phone[phone]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *OwnerRepository) UpdateStatus(_ context.Context, id string, status domain.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	owner.Status = status
	owner.UpdatedAt = time.Now().UTC()
	r.byID[id] = owner
	return nil
}

var (
	_ repository.UserRepository  = (*UserRepository)(nil)
	_ repository.OwnerRepository = (*OwnerRepository)(nil)
)

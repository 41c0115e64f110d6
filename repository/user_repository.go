package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"b2b-catalog/models"

	"golang.org/x/crypto/bcrypt"
)

// IUserRepository defines the user directory operations. Users are never physically removed.
type IUserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// UserRepository implements IUserRepository over the users record.
type UserRepository struct {
	mu    sync.RWMutex
	store IStateStore
	users []models.User
}

// NewUserRepository loads the users record, seeding an admin and a demo customer on first start.
func NewUserRepository(ctx context.Context, store IStateStore) (IUserRepository, error) {
	r := &UserRepository{store: store}
	found, err := store.Load(ctx, KeyUsers, &r.users)
	if err != nil {
		return nil, err
	}
	if !found {
		seed, err := seedUsers(time.Now().UTC())
		if err != nil {
			return nil, err
		}
		if err := r.commit(ctx, seed); err != nil {
			return nil, fmt.Errorf("failed to seed users: %w", err)
		}
	}
	return r, nil
}

func (r *UserRepository) commit(ctx context.Context, next []models.User) error {
	if err := r.store.Save(ctx, KeyUsers, next); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	r.users = next
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.User{}, r.users...), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == user.ID {
			return fmt.Errorf("user %s: %w", user.ID, ErrDuplicate)
		}
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
		}
	}
	next := append(append([]models.User(nil), r.users...), *user)
	return r.commit(ctx, next)
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, u := range r.users {
		if u.ID == user.ID {
			idx = i
			continue
		}
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
		}
	}
	if idx < 0 {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	next := append([]models.User(nil), r.users...)
	next[idx] = *user
	return r.commit(ctx, next)
}

func seedUsers(now time.Time) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}
	discount := 10.0
	return []models.User{
		{
			ID:           "1",
			Email:        "admin@example.com",
			Name:         "Admin User",
			Role:         models.RoleAdmin,
			PasswordHash: string(hash),
			Status:       models.UserActive,
			CreatedAt:    now,
		},
		{
			ID:           "2",
			Email:        "user@example.com",
			Name:         "Regular User",
			Role:         models.RoleUser,
			PasswordHash: string(hash),
			Company:      "Test Company",
			Phone:        "+90 555 123 4567",
			Discount:     &discount,
			Status:       models.UserActive,
			CreatedAt:    now,
		},
	}, nil
}

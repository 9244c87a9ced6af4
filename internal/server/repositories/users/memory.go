package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weynak/weynak/internal/common"
	"github.com/weynak/weynak/internal/server/models"
	"github.com/weynak/weynak/internal/timex"
)

// MemoryRepository keeps users in a map keyed by email. It is meant for
// tests and local runs; nothing survives a restart.
type MemoryRepository struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	now     timex.Clock
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]*models.User), now: timex.SystemClock}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Otp != nil {
		otp := *u.Otp
		c.Otp = &otp
	}
	if u.OtpExpiresAt != nil {
		exp := *u.OtpExpiresAt
		c.OtpExpiresAt = &exp
	}
	return &c
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryRepository) FindByEmailAndOtp(_ context.Context, email, otp string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]
	if !ok || u.Otp == nil || *u.Otp != otp {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	now := r.now().UTC()
	created := *user
	created.ID = uuid.NewString()
	created.Otp, created.OtpExpiresAt = nil, nil
	created.CreatedAt, created.UpdatedAt = now, now

	r.byEmail[created.Email] = &created
	return cloneUser(&created), nil
}

func (r *MemoryRepository) SetOtp(_ context.Context, email, otp string, expiresAt time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}

	exp := expiresAt.UTC()
	u.Otp, u.OtpExpiresAt = &otp, &exp
	u.UpdatedAt = r.now().UTC()
	return cloneUser(u), nil
}

func (r *MemoryRepository) UpdatePasswordAndClearOtp(_ context.Context, userID, otp, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byEmail {
		if u.ID != userID {
			continue
		}
		if u.Otp == nil || *u.Otp != otp {
			return common.ErrorNotFound
		}
		u.PasswordHash = passwordHash
		u.Otp, u.OtpExpiresAt = nil, nil
		u.UpdatedAt = r.now().UTC()
		return nil
	}
	return common.ErrorNotFound
}

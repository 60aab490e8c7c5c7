package repository

import (
	"context"
	"errors"
	"time"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetToken finds the user holding digest as an unexpired ticket.
	GetByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error)
	// Update writes every mutable column of u, reset ticket included.
	Update(ctx context.Context, u *entity.User) error
	// ClearResetTicket drops the reset ticket of user id only while digest is
	// still the stored one. Other columns are left untouched.
	ClearResetTicket(ctx context.Context, id, digest string) error
	// List returns active users only.
	List(ctx context.Context) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}

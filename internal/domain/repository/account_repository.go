package repository

import (
	"context"

	"github.com/oksasatya/stands-ims/internal/domain/entity"
)

// AccountRepository defines the interface for account-related database operations.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetVerified(ctx context.Context, id string) error
	// List returns every account ordered by username.
	List(ctx context.Context) ([]entity.Account, error)
}

// ProfileRepository stores the one-to-one Profile of an Account.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error)
	Update(ctx context.Context, p *entity.Profile) error
}

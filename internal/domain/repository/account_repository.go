package repository

import (
	"context"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
)

// AccountRepository is the credential store. Creation also creates the
// 1:1 profile row in the same transaction; deletion cascades to the
// profile, addresses and tokens. Email lookups are case-insensitive.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByConfirmToken(ctx context.Context, token string) (*entity.Account, error)
	GetByResetToken(ctx context.Context, token string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	Delete(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int, error)
}

// ProfileRepository reads the profile extension rows.
type ProfileRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error)
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creative-rift/arkultur-backend/internal/domain/repository"
)

// TokenRepository persists bearer tokens, one row per account.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Issue stores value for the account unless a token already exists; the
// unique constraint on account_id makes concurrent calls converge on
// one row, whose value is read back and returned.
func (r *TokenRepository) Issue(ctx context.Context, accountID, value string) (string, error) {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO auth_tokens (account_id, token)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO NOTHING
	`, accountID, value); err != nil {
		return "", mapPgErr(err)
	}

	var stored string
	if err := r.pool.QueryRow(ctx, `
		SELECT token FROM auth_tokens WHERE account_id = $1
	`, accountID).Scan(&stored); err != nil {
		return "", mapPgErr(err)
	}
	return stored, nil
}

func (r *TokenRepository) Resolve(ctx context.Context, value string) (string, error) {
	var accountID string
	if err := r.pool.QueryRow(ctx, `
		SELECT account_id FROM auth_tokens WHERE token = $1
	`, value).Scan(&accountID); err != nil {
		return "", mapPgErr(err)
	}
	return accountID, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, accountID string) (string, error) {
	var revoked string
	err := r.pool.QueryRow(ctx, `
		DELETE FROM auth_tokens WHERE account_id = $1 RETURNING token
	`, accountID).Scan(&revoked)
	if err != nil {
		return "", mapPgErr(err)
	}
	return revoked, nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)

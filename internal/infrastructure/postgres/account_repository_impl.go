package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/internal/domain/repository"
)

const uniqueViolation = "23505"

func mapPgErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrConflict
	}
	return err
}

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `
	id, email, username, first_name, last_name, role, password_hash, disabled,
	confirm_token, reset_token, phone,
	twofa_method, twofa_secret, twofa_enabled, twofa_issued_at,
	created_at, updated_at`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	var (
		twofaMethod   *string
		twofaSecret   *string
		twofaEnabled  *bool
		twofaIssuedAt *time.Time
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.Username, &a.FirstName, &a.LastName, &a.Role, &a.PasswordHash, &a.Disabled,
		&a.ConfirmToken, &a.ResetToken, &a.Phone,
		&twofaMethod, &twofaSecret, &twofaEnabled, &twofaIssuedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgErr(err)
	}
	if twofaMethod != nil {
		a.TwoFactor = &entity.TwoFactor{
			Method: entity.TwoFactorMethod(*twofaMethod),
		}
		if twofaSecret != nil {
			a.TwoFactor.Secret = *twofaSecret
		}
		if twofaEnabled != nil {
			a.TwoFactor.Enabled = *twofaEnabled
		}
		if twofaIssuedAt != nil {
			a.TwoFactor.IssuedAt = *twofaIssuedAt
		}
	}
	return a, nil
}

func twofaColumns(a *entity.Account) (method, secret *string, enabled *bool, issuedAt *time.Time) {
	if a.TwoFactor == nil {
		return nil, nil, nil, nil
	}
	m := string(a.TwoFactor.Method)
	s := a.TwoFactor.Secret
	e := a.TwoFactor.Enabled
	t := a.TwoFactor.IssuedAt
	return &m, &s, &e, &t
}

// Create inserts the account and its profile row in one transaction so
// the two records share a lifetime.
func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	method, secret, enabled, issuedAt := twofaColumns(a)
	row := tx.QueryRow(ctx, `
		INSERT INTO accounts (email, username, first_name, last_name, role, password_hash, disabled,
			confirm_token, reset_token, phone, twofa_method, twofa_secret, twofa_enabled, twofa_issued_at)
		VALUES (lower($1), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, a.Email, a.Username, a.FirstName, a.LastName, a.Role, a.PasswordHash, a.Disabled,
		a.ConfirmToken, a.ResetToken, a.Phone, method, secret, enabled, issuedAt)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return mapPgErr(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO profiles (account_id, kind) VALUES ($1, $2)
	`, a.ID, a.Role); err != nil {
		return mapPgErr(err)
	}

	return tx.Commit(ctx)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = lower($1)`, email))
}

func (r *AccountRepository) GetByConfirmToken(ctx context.Context, token string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE confirm_token = $1`, token))
}

func (r *AccountRepository) GetByResetToken(ctx context.Context, token string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE reset_token = $1`, token))
}

// Update persists every mutable field. Role is deliberately absent:
// the authorization tier is fixed at creation.
func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = time.Now()
	method, secret, enabled, issuedAt := twofaColumns(a)
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET email = lower($1), username = $2, first_name = $3, last_name = $4,
			password_hash = $5, disabled = $6, confirm_token = $7, reset_token = $8, phone = $9,
			twofa_method = $10, twofa_secret = $11, twofa_enabled = $12, twofa_issued_at = $13,
			updated_at = $14
		WHERE id = $15
	`, a.Email, a.Username, a.FirstName, a.LastName,
		a.PasswordHash, a.Disabled, a.ConfirmToken, a.ResetToken, a.Phone,
		method, secret, enabled, issuedAt, a.UpdatedAt, a.ID)
	if err != nil {
		return mapPgErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE role = $1`, entity.RoleAdmin).Scan(&n)
	return n, err
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, account_id, kind, created_at FROM profiles WHERE account_id = $1
	`, accountID).Scan(&p.ID, &p.AccountID, &p.Kind, &p.CreatedAt)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return p, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/creative-rift/arkultur-backend/internal/authz"
	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/internal/domain/repository"
	"github.com/creative-rift/arkultur-backend/pkg/hashing"
	"github.com/creative-rift/arkultur-backend/pkg/helpers"
)

const bearerTokenBytes = 32

// tokenCacheTTL bounds staleness of the redis lookup cache; postgres
// stays the source of truth and revocation clears the cache entry.
const tokenCacheTTL = time.Hour

func tokenCacheKey(value string) string { return "auth:token:" + value }

// AuthService is the authenticator and bearer-token issuer. Tokens are
// opaque random values, one per account, minted lazily at first login
// and revoked only by explicit logout.
type AuthService struct {
	Accounts repository.AccountRepository
	Tokens   repository.TokenRepository
	Hasher   *hashing.Hasher
	Redis    *redis.Client // optional resolve cache
	Logger   *logrus.Logger
}

func NewAuthService(accounts repository.AccountRepository, tokens repository.TokenRepository, hasher *hashing.Hasher, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{Accounts: accounts, Tokens: tokens, Hasher: hasher, Redis: rdb, Logger: logger}
}

// Authenticate verifies email+password and returns the account.
// Unknown emails surface as ErrAccountNotFound; any verification
// failure, including a malformed stored digest, is ErrInvalidCredentials.
// Disabled accounts are rejected outright.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	account, err := s.Accounts.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.Disabled {
		return nil, ErrAccountDisabled
	}
	if !s.Hasher.Verify(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// Login authenticates and returns the account with its bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.Account, string, error) {
	account, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.IssueToken(ctx, account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// IssueToken mints a bearer token for the account, or returns the
// existing one. The store's per-account uniqueness makes concurrent
// issuance converge on a single value.
func (s *AuthService) IssueToken(ctx context.Context, account *entity.Account) (string, error) {
	candidate, err := helpers.GenToken(bearerTokenBytes)
	if err != nil {
		return "", err
	}
	stored, err := s.Tokens.Issue(ctx, account.ID, candidate)
	if err != nil {
		return "", err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, tokenCacheKey(stored), account.ID, tokenCacheTTL).Err(); err != nil {
			s.Logger.WithError(err).Warn("token cache write failed")
		}
	}
	return stored, nil
}

// ResolveToken maps a bearer token back to its account, or fails with
// ErrInvalidToken. A redis cache fronts the store lookup.
func (s *AuthService) ResolveToken(ctx context.Context, value string) (*entity.Account, error) {
	if value == "" {
		return nil, ErrInvalidToken
	}

	accountID := ""
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, tokenCacheKey(value)).Result(); err == nil {
			accountID = cached
		}
	}
	if accountID == "" {
		id, err := s.Tokens.Resolve(ctx, value)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidToken
			}
			return nil, err
		}
		accountID = id
		if s.Redis != nil {
			if err := s.Redis.Set(ctx, tokenCacheKey(value), accountID, tokenCacheTTL).Err(); err != nil {
				s.Logger.WithError(err).Warn("token cache write failed")
			}
		}
	}

	account, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return account, nil
}

// RevokeToken deletes the account's bearer token; subsequent resolves
// of the old value fail.
func (s *AuthService) RevokeToken(ctx context.Context, accountID string) error {
	revoked, err := s.Tokens.Revoke(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if s.Redis != nil && revoked != "" {
		if err := s.Redis.Del(ctx, tokenCacheKey(revoked)).Err(); err != nil {
			s.Logger.WithError(err).Warn("token cache invalidation failed")
		}
	}
	return nil
}

// IdentityOf projects an account into the authorization engine's view.
func IdentityOf(a *entity.Account) *authz.Identity {
	if a == nil {
		return nil
	}
	return &authz.Identity{AccountID: a.ID, Role: a.Role}
}

package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
)

func registerActive(t *testing.T, env *testEnv, email, password string) *entity.Account {
	t.Helper()
	ctx := context.Background()

	account, err := env.svc.Register(ctx, RegisterInput{
		Email:    email,
		Username: "user-" + email,
		Password: password,
	})
	require.NoError(t, err)

	confirmed, _, err := env.svc.ConfirmAccount(ctx, *account.ConfirmToken, password)
	require.NoError(t, err)
	return confirmed
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	registerActive(t, env, "leia@alderaan.org", "correct horse")

	t.Run("valid credentials", func(t *testing.T) {
		account, err := env.auth.Authenticate(ctx, "leia@alderaan.org", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "leia@alderaan.org", account.Email)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		_, err := env.auth.Authenticate(ctx, "LEIA@Alderaan.org", "correct horse")
		assert.NoError(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.auth.Authenticate(ctx, "nobody@alderaan.org", "correct horse")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Authenticate(ctx, "leia@alderaan.org", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account is rejected before password check", func(t *testing.T) {
		_, err := env.svc.Register(ctx, RegisterInput{
			Email:    "han@falcon.sh",
			Username: "han",
			Password: "nevertellmetheodds",
		})
		require.NoError(t, err)

		_, err = env.auth.Authenticate(ctx, "han@falcon.sh", "nevertellmetheodds")
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestLoginIssuesStableToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	registerActive(t, env, "leia@alderaan.org", "correct horse")

	_, first, err := env.auth.Login(ctx, "leia@alderaan.org", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// A second login converges on the same token instead of minting
	// a new one.
	_, second, err := env.auth.Login(ctx, "leia@alderaan.org", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	account := registerActive(t, env, "leia@alderaan.org", "correct horse")

	_, token, err := env.auth.Login(ctx, "leia@alderaan.org", "correct horse")
	require.NoError(t, err)

	t.Run("valid token resolves to its account", func(t *testing.T) {
		resolved, err := env.auth.ResolveToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, resolved.ID)
	})

	t.Run("empty value", func(t *testing.T) {
		_, err := env.auth.ResolveToken(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, err := env.auth.ResolveToken(ctx, "definitely-not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRevokeToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	account := registerActive(t, env, "leia@alderaan.org", "correct horse")

	_, token, err := env.auth.Login(ctx, "leia@alderaan.org", "correct horse")
	require.NoError(t, err)

	require.NoError(t, env.auth.RevokeToken(ctx, account.ID))

	_, err = env.auth.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	t.Run("revoking again fails", func(t *testing.T) {
		err := env.auth.RevokeToken(ctx, account.ID)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("login after revocation mints a fresh token", func(t *testing.T) {
		_, fresh, err := env.auth.Login(ctx, "leia@alderaan.org", "correct horse")
		require.NoError(t, err)
		assert.NotEqual(t, token, fresh)
	})
}

func TestIdentityOf(t *testing.T) {
	assert.Nil(t, IdentityOf(nil))

	id := IdentityOf(&entity.Account{ID: "abc", Role: entity.RoleAdmin})
	require.NotNil(t, id)
	assert.Equal(t, "abc", id.AccountID)
	assert.Equal(t, entity.RoleAdmin, id.Role)
}

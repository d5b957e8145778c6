package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/pkg/mailer"
)

func TestRegister(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	account, err := env.svc.Register(ctx, RegisterInput{
		Email:     "Luke@Tatooine.org",
		Username:  "luke",
		FirstName: "Luke",
		Password:  "itsatrap123",
	})
	require.NoError(t, err)

	assert.Equal(t, "luke@tatooine.org", account.Email, "email stored lowercased")
	assert.Equal(t, entity.RoleCustomer, account.Role)
	assert.True(t, account.Disabled, "new accounts start disabled")
	require.NotNil(t, account.ConfirmToken)
	assert.Nil(t, account.ResetToken)

	jobs := env.queue.sent()
	require.Len(t, jobs, 1)
	assert.Equal(t, "luke@tatooine.org", jobs[0].To)
	assert.Equal(t, mailer.TemplateConfirmAccount, jobs[0].Template)
	assert.Contains(t, jobs[0].Data["Link"], *account.ConfirmToken)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.svc.Register(ctx, RegisterInput{
			Email:    "luke@tatooine.org",
			Username: "luke2",
			Password: "itsatrap123",
		})
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := env.svc.Register(ctx, RegisterInput{
			Email:    "other@tatooine.org",
			Username: "luke",
			Password: "itsatrap123",
		})
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := env.svc.Register(ctx, RegisterInput{
			Email:    "nopass@tatooine.org",
			Username: "nopass",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("invalid phone", func(t *testing.T) {
		_, err := env.svc.Register(ctx, RegisterInput{
			Email:    "phone@tatooine.org",
			Username: "phone",
			Password: "itsatrap123",
			Phone:    "not a number",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("phone normalized to E.164", func(t *testing.T) {
		account, err := env.svc.Register(ctx, RegisterInput{
			Email:    "phone@tatooine.org",
			Username: "phone",
			Password: "itsatrap123",
			Phone:    "+1 415 555 2671",
		})
		require.NoError(t, err)
		require.NotNil(t, account.Phone)
		assert.Equal(t, "+14155552671", *account.Phone)
	})
}

func TestCreateAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	account, err := env.svc.CreateAdmin(ctx, AdminInput{
		Email:    "admin@arkultur.net",
		Username: "admin",
		Password: "sup3rs3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, account.Role)
	assert.False(t, account.Disabled, "provisioned accounts are active immediately")
	assert.Nil(t, account.ConfirmToken)
	assert.Empty(t, env.queue.sent(), "no confirmation round trip for admins")

	n, err := env.accounts.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRequestConfirmation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	account, err := env.svc.Register(ctx, RegisterInput{
		Email:    "luke@tatooine.org",
		Username: "luke",
		Password: "itsatrap123",
	})
	require.NoError(t, err)
	first := *account.ConfirmToken

	id, err := env.svc.RequestConfirmation(ctx, "luke@tatooine.org")
	require.NoError(t, err)
	assert.Equal(t, account.ID, id)

	stored, err := env.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ConfirmToken)
	assert.NotEqual(t, first, *stored.ConfirmToken, "token rotates on re-request")

	// The old link is dead.
	_, _, err = env.svc.ConfirmAccount(ctx, first, "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.Len(t, env.queue.sent(), 2)

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.svc.RequestConfirmation(ctx, "nobody@tatooine.org")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("already confirmed", func(t *testing.T) {
		stored, err := env.accounts.GetByID(ctx, account.ID)
		require.NoError(t, err)
		_, _, err = env.svc.ConfirmAccount(ctx, *stored.ConfirmToken, "newpassword1")
		require.NoError(t, err)

		_, err = env.svc.RequestConfirmation(ctx, "luke@tatooine.org")
		assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	})
}

func TestConfirmAccount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	account, err := env.svc.Register(ctx, RegisterInput{
		Email:    "luke@tatooine.org",
		Username: "luke",
		Password: "initialpass1",
	})
	require.NoError(t, err)
	token := *account.ConfirmToken

	confirmed, bearer, err := env.svc.ConfirmAccount(ctx, token, "chosenpass99")
	require.NoError(t, err)

	assert.False(t, confirmed.Disabled)
	assert.Nil(t, confirmed.ConfirmToken)
	require.NotEmpty(t, bearer)

	// Confirmation doubles as login.
	resolved, err := env.auth.ResolveToken(ctx, bearer)
	require.NoError(t, err)
	assert.Equal(t, account.ID, resolved.ID)

	// The submitted password replaced the registration one.
	_, err = env.auth.Authenticate(ctx, "luke@tatooine.org", "chosenpass99")
	assert.NoError(t, err)
	_, err = env.auth.Authenticate(ctx, "luke@tatooine.org", "initialpass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	t.Run("token is single-use", func(t *testing.T) {
		_, _, err := env.svc.ConfirmAccount(ctx, token, "anotherpass1")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, _, err := env.svc.ConfirmAccount(ctx, "", "anotherpass1")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty password", func(t *testing.T) {
		_, _, err := env.svc.ConfirmAccount(ctx, "sometoken", "")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	account := registerActive(t, env, "leia@alderaan.org", "oldpassword1")

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "leia@alderaan.org"))

	stored, err := env.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	assert.False(t, stored.Disabled, "reset leaves the account active")

	jobs := env.queue.sent()
	last := jobs[len(jobs)-1]
	assert.Equal(t, mailer.TemplateResetPassword, last.Template)
	assert.Contains(t, last.Data["Link"], *stored.ResetToken)

	require.NoError(t, env.svc.CompletePasswordReset(ctx, *stored.ResetToken, "newpassword2"))

	after, err := env.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, after.ResetToken, "token cleared on use")

	_, err = env.auth.Authenticate(ctx, "leia@alderaan.org", "newpassword2")
	assert.NoError(t, err)
	_, err = env.auth.Authenticate(ctx, "leia@alderaan.org", "oldpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	t.Run("unknown email sends nothing", func(t *testing.T) {
		before := len(env.queue.sent())
		err := env.svc.RequestPasswordReset(ctx, "nobody@alderaan.org")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.Len(t, env.queue.sent(), before)
	})

	t.Run("consumed token fails", func(t *testing.T) {
		err := env.svc.CompletePasswordReset(ctx, *stored.ResetToken, "thirdpassword3")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestResetDoesNotTouchPendingConfirmation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	account, err := env.svc.Register(ctx, RegisterInput{
		Email:    "luke@tatooine.org",
		Username: "luke",
		Password: "initialpass1",
	})
	require.NoError(t, err)
	confirmToken := *account.ConfirmToken

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "luke@tatooine.org"))

	stored, err := env.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ConfirmToken)
	assert.Equal(t, confirmToken, *stored.ConfirmToken)
	assert.True(t, stored.Disabled)
}

func TestUpdateAccount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	account := registerActive(t, env, "leia@alderaan.org", "oldpassword1")

	updated, err := env.svc.UpdateAccount(ctx, account.ID, UpdateAccountInput{
		FirstName: "Leia",
		LastName:  "Organa",
	})
	require.NoError(t, err)
	assert.Equal(t, "Leia", updated.FirstName)
	assert.Equal(t, "Organa", updated.LastName)

	// Empty password keeps the current hash.
	_, err = env.auth.Authenticate(ctx, "leia@alderaan.org", "oldpassword1")
	assert.NoError(t, err)

	t.Run("password change", func(t *testing.T) {
		_, err := env.svc.UpdateAccount(ctx, account.ID, UpdateAccountInput{Password: "newpassword2"})
		require.NoError(t, err)

		_, err = env.auth.Authenticate(ctx, "leia@alderaan.org", "newpassword2")
		assert.NoError(t, err)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := env.svc.UpdateAccount(ctx, "missing-id", UpdateAccountInput{FirstName: "x"})
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("email collision", func(t *testing.T) {
		registerActive(t, env, "han@falcon.sh", "nevertellmetheodds")
		_, err := env.svc.UpdateAccount(ctx, account.ID, UpdateAccountInput{Email: "HAN@falcon.sh"})
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	account := registerActive(t, env, "leia@alderaan.org", "oldpassword1")

	require.NoError(t, env.svc.DeleteAccount(ctx, account.ID))

	_, err := env.accounts.GetByID(ctx, account.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, env.svc.DeleteAccount(ctx, account.ID), ErrAccountNotFound)
}

func TestDeactivate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	account := registerActive(t, env, "leia@alderaan.org", "oldpassword1")

	_, token, err := env.auth.Login(ctx, "leia@alderaan.org", "oldpassword1")
	require.NoError(t, err)

	require.NoError(t, env.svc.Deactivate(ctx, account.ID))

	stored, err := env.accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, stored.Disabled)

	// The session died with the account.
	_, err = env.auth.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	t.Run("without an active session", func(t *testing.T) {
		other := registerActive(t, env, "han@falcon.sh", "nevertellmetheodds")
		assert.NoError(t, env.svc.Deactivate(ctx, other.ID))
	})
}

func TestConfigureTwoFactor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	account := registerActive(t, env, "leia@alderaan.org", "oldpassword1")

	cfg, err := env.svc.ConfigureTwoFactor(ctx, account.ID, entity.TwoFactorApp)
	require.NoError(t, err)
	assert.Equal(t, entity.TwoFactorApp, cfg.Method)
	assert.True(t, cfg.Enabled)
	assert.NotEmpty(t, cfg.Secret)
	assert.False(t, cfg.IssuedAt.IsZero())
	assert.Equal(t, strings.ToUpper(cfg.Secret), cfg.Secret, "secret is base32")

	t.Run("invalid method", func(t *testing.T) {
		_, err := env.svc.ConfigureTwoFactor(ctx, account.ID, "carrier-pigeon")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := env.svc.ConfigureTwoFactor(ctx, "missing-id", entity.TwoFactorEmail)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestEmailFailureDoesNotFailRegistration(t *testing.T) {
	env := newTestEnv()
	env.queue.err = assert.AnError
	ctx := context.Background()

	account, err := env.svc.Register(ctx, RegisterInput{
		Email:    "luke@tatooine.org",
		Username: "luke",
		Password: "itsatrap123",
	})
	require.NoError(t, err)
	assert.NotNil(t, account.ConfirmToken)
}

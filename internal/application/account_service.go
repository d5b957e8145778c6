package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/internal/domain/repository"
	"github.com/creative-rift/arkultur-backend/pkg/hashing"
	"github.com/creative-rift/arkultur-backend/pkg/helpers"
	"github.com/creative-rift/arkultur-backend/pkg/mailer"
)

const oneTimeTokenBytes = 24

// EmailQueue is the outbound notification boundary; satisfied by
// helpers.RabbitPublisher in production.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// AccountService orchestrates the account lifecycle: registration,
// confirmation, password reset, deactivation. Email dispatch happens
// here, after the triggering transition is durable, never inside the
// store.
type AccountService struct {
	Accounts repository.AccountRepository
	Hasher   *hashing.Hasher
	Auth     *AuthService
	Queue    EmailQueue
	Logger   *logrus.Logger

	ConfirmAccountURL string
	ResetPasswordURL  string
}

func NewAccountService(accounts repository.AccountRepository, hasher *hashing.Hasher, auth *AuthService, queue EmailQueue, logger *logrus.Logger, confirmURL, resetURL string) *AccountService {
	return &AccountService{
		Accounts:          accounts,
		Hasher:            hasher,
		Auth:              auth,
		Queue:             queue,
		Logger:            logger,
		ConfirmAccountURL: confirmURL,
		ResetPasswordURL:  resetURL,
	}
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Phone     string
}

// Register creates a customer account in the unconfirmed state and
// queues the confirmation email. The account stays disabled until
// ConfirmAccount consumes the token.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	if in.Email == "" || in.Username == "" {
		return nil, ErrValidation
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		// Covers the empty-password case: mandatory on creation.
		return nil, ErrValidation
	}

	var phone *string
	if in.Phone != "" {
		normalized, err := helpers.NormalizePhone(in.Phone)
		if err != nil {
			return nil, ErrValidation
		}
		phone = &normalized
	}

	token, err := helpers.GenToken(oneTimeTokenBytes)
	if err != nil {
		return nil, err
	}

	account := &entity.Account{
		Email:        strings.ToLower(in.Email),
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         entity.RoleCustomer,
		PasswordHash: hash,
		Disabled:     true,
		ConfirmToken: &token,
		Phone:        phone,
	}
	if err := s.Accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	s.sendConfirmEmail(ctx, account, token)
	return account, nil
}

type AdminInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// CreateAdmin provisions an admin account. Provisioned accounts are
// active immediately; there is no email confirmation round trip.
func (s *AccountService) CreateAdmin(ctx context.Context, in AdminInput) (*entity.Account, error) {
	if in.Email == "" || in.Username == "" {
		return nil, ErrValidation
	}
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, ErrValidation
	}

	account := &entity.Account{
		Email:        strings.ToLower(in.Email),
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         entity.RoleAdmin,
		PasswordHash: hash,
		Disabled:     false,
	}
	if err := s.Accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}
	return account, nil
}

// RequestConfirmation re-sends the confirmation email for an
// unconfirmed account. The token is rotated, so the previously mailed
// link stops working.
func (s *AccountService) RequestConfirmation(ctx context.Context, email string) (string, error) {
	account, err := s.Accounts.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		return "", err
	}
	if !account.Disabled {
		return "", ErrAlreadyConfirmed
	}

	token, err := helpers.GenToken(oneTimeTokenBytes)
	if err != nil {
		return "", err
	}
	account.ConfirmToken = &token
	if err := s.Accounts.Update(ctx, account); err != nil {
		return "", err
	}

	s.sendConfirmEmail(ctx, account, token)
	return account.ID, nil
}

// ConfirmAccount consumes a confirmation token: the account is enabled,
// the submitted password becomes the account password, and a bearer
// token is issued so the user is logged in right away.
func (s *AccountService) ConfirmAccount(ctx context.Context, token, newPassword string) (*entity.Account, string, error) {
	if token == "" {
		return nil, "", ErrInvalidToken
	}
	if newPassword == "" {
		return nil, "", ErrValidation
	}

	account, err := s.Accounts.GetByConfirmToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidToken
		}
		return nil, "", err
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return nil, "", ErrValidation
	}

	account.ConfirmToken = nil
	account.Disabled = false
	account.PasswordHash = hash
	if err := s.Accounts.Update(ctx, account); err != nil {
		return nil, "", err
	}

	bearer, err := s.Auth.IssueToken(ctx, account)
	if err != nil {
		return nil, "", err
	}
	return account, bearer, nil
}

// RequestPasswordReset issues a reset token and queues the reset email.
// The account's disabled state is untouched, and a pending confirmation
// token is left alone.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.Accounts.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	token, err := helpers.GenToken(oneTimeTokenBytes)
	if err != nil {
		return err
	}
	account.ResetToken = &token
	if err := s.Accounts.Update(ctx, account); err != nil {
		return err
	}

	s.enqueueEmail(ctx, account, mailer.TemplateResetPassword, s.ResetPasswordURL+"?token="+token)
	return nil
}

// CompletePasswordReset consumes a reset token and stores the new
// password hash. No bearer token is issued: the user logs in again.
func (s *AccountService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}
	if newPassword == "" {
		return ErrValidation
	}

	account, err := s.Accounts.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return ErrValidation
	}

	account.ResetToken = nil
	account.PasswordHash = hash
	return s.Accounts.Update(ctx, account)
}

type UpdateAccountInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Phone     string
}

// UpdateAccount patches mutable account fields. An empty password
// leaves the current hash untouched; role is never updatable.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, in UpdateAccountInput) (*entity.Account, error) {
	account, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if in.Email != "" {
		account.Email = strings.ToLower(in.Email)
	}
	if in.Username != "" {
		account.Username = in.Username
	}
	if in.FirstName != "" {
		account.FirstName = in.FirstName
	}
	if in.LastName != "" {
		account.LastName = in.LastName
	}
	if in.Phone != "" {
		normalized, err := helpers.NormalizePhone(in.Phone)
		if err != nil {
			return nil, ErrValidation
		}
		account.Phone = &normalized
	}
	if in.Password != "" {
		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return nil, ErrValidation
		}
		account.PasswordHash = hash
	}

	if err := s.Accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes the account; profile, addresses and the bearer
// token go with it (cascade).
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.Accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}

// Deactivate disables the account and revokes its session.
func (s *AccountService) Deactivate(ctx context.Context, id string) error {
	account, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	account.Disabled = true
	if err := s.Accounts.Update(ctx, account); err != nil {
		return err
	}
	if err := s.Auth.RevokeToken(ctx, id); err != nil && !errors.Is(err, ErrInvalidToken) {
		return err
	}
	return nil
}

// ConfigureTwoFactor stores a second-factor enrollment for the account.
// Challenge flows are handled elsewhere; only the configuration lives here.
func (s *AccountService) ConfigureTwoFactor(ctx context.Context, accountID string, method entity.TwoFactorMethod) (*entity.TwoFactor, error) {
	if !method.Valid() {
		return nil, ErrValidation
	}
	account, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	secret, err := helpers.GenTwoFactorSecret()
	if err != nil {
		return nil, err
	}
	account.TwoFactor = &entity.TwoFactor{
		Method:   method,
		Secret:   secret,
		Enabled:  true,
		IssuedAt: time.Now().UTC(),
	}
	if err := s.Accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account.TwoFactor, nil
}

func (s *AccountService) sendConfirmEmail(ctx context.Context, account *entity.Account, token string) {
	s.enqueueEmail(ctx, account, mailer.TemplateConfirmAccount, s.ConfirmAccountURL+"?token="+token)
}

// enqueueEmail reports failures without failing the transition that
// triggered them; the account state is already durable and the email
// can be re-requested.
func (s *AccountService) enqueueEmail(ctx context.Context, account *entity.Account, template, link string) {
	if s.Queue == nil {
		return
	}
	job := mailer.EmailJob{
		To:       account.Email,
		Template: template,
		Data: map[string]any{
			"Name": account.FirstName,
			"Link": link,
		},
	}
	if err := s.Queue.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"account_id": account.ID,
			"template":   template,
		}).Warn("email enqueue failed")
	}
}

package entity

import "time"

// Role is the authorization tier of an account. It is fixed by the
// creation pathway (self-registration vs admin provisioning) and never
// user-editable afterwards.
type Role int16

const (
	RoleCustomer Role = 1
	RoleAdmin    Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Superuser and Staff are derived at the boundary; they are not stored
// as independently mutable columns.
func (r Role) Superuser() bool { return r == RoleAdmin }
func (r Role) Staff() bool     { return r == RoleAdmin }

// TwoFactorMethod is the delivery channel for a second factor.
type TwoFactorMethod string

const (
	TwoFactorPhone TwoFactorMethod = "phone"
	TwoFactorEmail TwoFactorMethod = "email"
	TwoFactorApp   TwoFactorMethod = "app"
)

func (m TwoFactorMethod) Valid() bool {
	return m == TwoFactorPhone || m == TwoFactorEmail || m == TwoFactorApp
}

// TwoFactor stores a second-factor enrollment. Challenge flows are out
// of scope; only the configuration is persisted.
type TwoFactor struct {
	Method   TwoFactorMethod
	Secret   string
	Enabled  bool
	IssuedAt time.Time
}

// Account is the credential record. PasswordHash holds the argon2id
// digest of the most recent successfully set password; raw passwords
// are never persisted. Disabled stays true until the account is
// confirmed via its one-time token.
type Account struct {
	ID           string
	Email        string // unique, stored lowercased
	Username     string // unique
	FirstName    string
	LastName     string
	Role         Role
	PasswordHash string
	Disabled     bool
	ConfirmToken *string // one-time, cleared on consumption
	ResetToken   *string // one-time, independent of ConfirmToken
	Phone        *string // E.164
	TwoFactor    *TwoFactor
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerAccountID makes Account an authz.Owned resource: an account owns itself.
func (a *Account) OwnerAccountID() string { return a.ID }

package entity

import "time"

// Profile is the 1:1 extension record of an Account (customer or admin).
// It is created together with the account and removed with it (cascade);
// it carries no independent identity beyond its row id.
type Profile struct {
	ID        string
	AccountID string
	Kind      Role // mirrors the account role at creation
	CreatedAt time.Time
}

func (p *Profile) OwnerAccountID() string { return p.AccountID }

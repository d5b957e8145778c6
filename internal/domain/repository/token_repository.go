package repository

import "context"

// TokenRepository persists the 1:1 bearer-token mapping. Issue must be
// atomic per account: concurrent calls converge on a single stored
// value, and the canonical value is returned. Revoke returns the value
// it removed so callers can drop cache entries.
type TokenRepository interface {
	Issue(ctx context.Context, accountID, value string) (string, error)
	Resolve(ctx context.Context, value string) (accountID string, err error)
	Revoke(ctx context.Context, accountID string) (revoked string, err error)
}

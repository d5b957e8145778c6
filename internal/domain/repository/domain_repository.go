package repository

import (
	"context"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
)

// AddressRepository stores postal addresses. Reads resolve the owning
// account id through the owner profile so ownership checks need no
// extra round trip.
type AddressRepository interface {
	Create(ctx context.Context, a *entity.Address) error
	GetByID(ctx context.Context, id string) (*entity.Address, error)
	ListByOwnerAccount(ctx context.Context, accountID string) ([]*entity.Address, error)
	Update(ctx context.Context, a *entity.Address) error
	Delete(ctx context.Context, id string) error
}

// NodeRepository stores geographic points. Reads resolve the owning
// account id through address -> owner profile.
type NodeRepository interface {
	Create(ctx context.Context, n *entity.Node) error
	GetByID(ctx context.Context, id string) (*entity.Node, error)
	ListByAddress(ctx context.Context, addressID string) ([]*entity.Node, error)
	Update(ctx context.Context, n *entity.Node) error
	Delete(ctx context.Context, id string) error
}

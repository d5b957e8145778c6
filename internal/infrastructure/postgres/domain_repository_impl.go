package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/internal/domain/repository"
)

type AddressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

const addressSelect = `
	SELECT a.id, a.country, a.country_code, a.postcode, a.state, a.state_district,
		a.city, a.street, a.street_number, a.owner_id, p.account_id
	FROM addresses a
	JOIN profiles p ON p.id = a.owner_id`

func (r *AddressRepository) Create(ctx context.Context, a *entity.Address) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO addresses (country, country_code, postcode, state, state_district, city, street, street_number, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, a.Country, a.CountryCode, a.Postcode, a.State, a.StateDistrict, a.City, a.Street, a.StreetNumber, a.OwnerID)
	if err := row.Scan(&a.ID); err != nil {
		return mapPgErr(err)
	}
	return nil
}

func (r *AddressRepository) GetByID(ctx context.Context, id string) (*entity.Address, error) {
	a := &entity.Address{}
	err := r.pool.QueryRow(ctx, addressSelect+` WHERE a.id = $1`, id).Scan(
		&a.ID, &a.Country, &a.CountryCode, &a.Postcode, &a.State, &a.StateDistrict,
		&a.City, &a.Street, &a.StreetNumber, &a.OwnerID, &a.OwnerAccount,
	)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return a, nil
}

func (r *AddressRepository) ListByOwnerAccount(ctx context.Context, accountID string) ([]*entity.Address, error) {
	rows, err := r.pool.Query(ctx, addressSelect+`
		WHERE p.account_id = $1
		ORDER BY a.country, a.city, a.street, a.street_number`, accountID)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []*entity.Address
	for rows.Next() {
		a := &entity.Address{}
		if err := rows.Scan(
			&a.ID, &a.Country, &a.CountryCode, &a.Postcode, &a.State, &a.StateDistrict,
			&a.City, &a.Street, &a.StreetNumber, &a.OwnerID, &a.OwnerAccount,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update never touches owner_id; ownership is fixed at creation.
func (r *AddressRepository) Update(ctx context.Context, a *entity.Address) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE addresses
		SET country = $1, country_code = $2, postcode = $3, state = $4, state_district = $5,
			city = $6, street = $7, street_number = $8
		WHERE id = $9
	`, a.Country, a.CountryCode, a.Postcode, a.State, a.StateDistrict, a.City, a.Street, a.StreetNumber, a.ID)
	if err != nil {
		return mapPgErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AddressRepository = (*AddressRepository)(nil)

type NodeRepository struct {
	pool *pgxpool.Pool
}

func NewNodeRepository(pool *pgxpool.Pool) *NodeRepository {
	return &NodeRepository{pool: pool}
}

const nodeSelect = `
	SELECT n.id, n.name, n.latitude, n.longitude, n.address_id, p.account_id
	FROM nodes n
	JOIN addresses a ON a.id = n.address_id
	JOIN profiles p ON p.id = a.owner_id`

func (r *NodeRepository) Create(ctx context.Context, n *entity.Node) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO nodes (name, latitude, longitude, address_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, n.Name, n.Latitude, n.Longitude, n.AddressID)
	if err := row.Scan(&n.ID); err != nil {
		return mapPgErr(err)
	}
	return nil
}

func (r *NodeRepository) GetByID(ctx context.Context, id string) (*entity.Node, error) {
	n := &entity.Node{}
	err := r.pool.QueryRow(ctx, nodeSelect+` WHERE n.id = $1`, id).Scan(
		&n.ID, &n.Name, &n.Latitude, &n.Longitude, &n.AddressID, &n.OwnerAccount,
	)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return n, nil
}

func (r *NodeRepository) ListByAddress(ctx context.Context, addressID string) ([]*entity.Node, error) {
	rows, err := r.pool.Query(ctx, nodeSelect+` WHERE n.address_id = $1 ORDER BY n.name`, addressID)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []*entity.Node
	for rows.Next() {
		n := &entity.Node{}
		if err := rows.Scan(&n.ID, &n.Name, &n.Latitude, &n.Longitude, &n.AddressID, &n.OwnerAccount); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NodeRepository) Update(ctx context.Context, n *entity.Node) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE nodes SET name = $1, latitude = $2, longitude = $3 WHERE id = $4
	`, n.Name, n.Latitude, n.Longitude, n.ID)
	if err != nil {
		return mapPgErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NodeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM nodes WHERE id = $1`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.NodeRepository = (*NodeRepository)(nil)

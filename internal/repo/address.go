package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// AddressRepo defines the persistence operations for Addresses.
type AddressRepo interface {
	// Create inserts a new address and returns the persisted record.
	Create(ctx context.Context, address domain.Address) (domain.Address, error)

	// GetByID retrieves a single address by primary key.
	// Returns domain.ErrNotFound if no address with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Address, error)

	// ListByUserID returns all addresses owned by the given user, unordered.
	// An unknown user yields an empty result, not an error.
	ListByUserID(ctx context.Context, userID int64) ([]domain.Address, error)
}

// pgAddressRepo is the Postgres implementation of AddressRepo.
type pgAddressRepo struct {
	db db
}

// NewAddressRepo constructs an AddressRepo backed by the provided db connection.
func NewAddressRepo(db db) AddressRepo {
	return &pgAddressRepo{db: db}
}

const addressColumns = `id, user_id, label, street, city, postal_code, country, latitude, longitude`

func (r *pgAddressRepo) Create(ctx context.Context, address domain.Address) (domain.Address, error) {
	const q = `
		INSERT INTO addresses (user_id, label, street, city, postal_code, country, latitude, longitude)
		VALUES (@user_id, @label, @street, @city, @postal_code, @country, @latitude, @longitude)
		RETURNING ` + addressColumns

	args := pgx.NamedArgs{
		"user_id":     address.UserID,
		"label":       address.Label,
		"street":      address.Street,
		"city":        address.City,
		"postal_code": address.PostalCode,
		"country":     address.Country,
		"latitude":    address.Latitude,
		"longitude":   address.Longitude,
	}

	result, err := scanAddress(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgAddressRepo) GetByID(ctx context.Context, id int64) (domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE id = @id`

	result, err := scanAddress(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Address{}, fmt.Errorf("repo.AddressRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgAddressRepo) ListByUserID(ctx context.Context, userID int64) ([]domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = @user_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.AddressRepo.ListByUserID: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AddressRepo.ListByUserID: scan: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AddressRepo.ListByUserID: rows: %w", err)
	}

	return addresses, nil
}

// scanAddress maps a single database row into a domain.Address.
func scanAddress(s scanner) (domain.Address, error) {
	var a domain.Address
	err := s.Scan(&a.ID, &a.UserID, &a.Label, &a.Street, &a.City, &a.PostalCode, &a.Country, &a.Latitude, &a.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Address{}, domain.ErrNotFound
		}
		return domain.Address{}, err
	}
	return a, nil
}

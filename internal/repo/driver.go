package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// DriverRepo defines the persistence operations for Drivers.
type DriverRepo interface {
	// Create inserts a new driver and returns the persisted record.
	Create(ctx context.Context, driver domain.Driver) (domain.Driver, error)

	// GetByID retrieves a single driver by primary key.
	// Returns domain.ErrNotFound if no driver with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Driver, error)

	// ListAvailable returns all drivers whose active flag is set, unordered.
	ListAvailable(ctx context.Context) ([]domain.Driver, error)

	// UpdateLocation sets the driver's current coordinates and returns the
	// updated record. Returns domain.ErrNotFound if the driver does not exist.
	UpdateLocation(ctx context.Context, id int64, lat, lng string) (domain.Driver, error)
}

// pgDriverRepo is the Postgres implementation of DriverRepo.
type pgDriverRepo struct {
	db db
}

// NewDriverRepo constructs a DriverRepo backed by the provided db connection.
func NewDriverRepo(db db) DriverRepo {
	return &pgDriverRepo{db: db}
}

const driverColumns = `id, name, phone, email, rating, vehicle, vehicle_type, is_active, current_latitude, current_longitude`

func (r *pgDriverRepo) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	const q = `
		INSERT INTO drivers (name, phone, email, rating, vehicle, vehicle_type, is_active, current_latitude, current_longitude)
		VALUES (@name, @phone, @email, @rating, @vehicle, @vehicle_type, @is_active, @current_latitude, @current_longitude)
		RETURNING ` + driverColumns

	args := pgx.NamedArgs{
		"name":              driver.Name,
		"phone":             driver.Phone,
		"email":             driver.Email,
		"rating":            driver.Rating,
		"vehicle":           driver.Vehicle,
		"vehicle_type":      driver.VehicleType,
		"is_active":         driver.IsActive,
		"current_latitude":  driver.CurrentLatitude, // nil becomes NULL
		"current_longitude": driver.CurrentLongitude,
	}

	result, err := scanDriver(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByID(ctx context.Context, id int64) (domain.Driver, error) {
	const q = `SELECT ` + driverColumns + ` FROM drivers WHERE id = @id`

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) ListAvailable(ctx context.Context) ([]domain.Driver, error) {
	const q = `SELECT ` + driverColumns + ` FROM drivers WHERE is_active`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.ListAvailable: %w", err)
	}
	defer rows.Close()

	var drivers []domain.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DriverRepo.ListAvailable: scan: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.ListAvailable: rows: %w", err)
	}

	return drivers, nil
}

func (r *pgDriverRepo) UpdateLocation(ctx context.Context, id int64, lat, lng string) (domain.Driver, error) {
	const q = `
		UPDATE drivers
		SET current_latitude  = @lat,
		    current_longitude = @lng
		WHERE id = @id
		RETURNING ` + driverColumns

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "lat": lat, "lng": lng}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.UpdateLocation: %w", err)
	}
	return result, nil
}

// scanDriver maps a single database row into a domain.Driver.
// Nullable coordinate columns map to nil pointers.
func scanDriver(s scanner) (domain.Driver, error) {
	var d domain.Driver
	err := s.Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.Rating, &d.Vehicle, &d.VehicleType,
		&d.IsActive, &d.CurrentLatitude, &d.CurrentLongitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Driver{}, domain.ErrNotFound
		}
		return domain.Driver{}, err
	}
	return d, nil
}

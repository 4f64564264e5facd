package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// DeliveryRepo defines the persistence operations for Deliveries.
// Deliveries are permanent records — there is no delete operation.
type DeliveryRepo interface {
	// Create inserts a new delivery and returns the persisted record.
	// Storage assigns the id and order number, stamps created_at, defaults
	// status to pending, and leaves picked_up_at/delivered_at null.
	Create(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error)

	// GetByID retrieves a single delivery by primary key.
	// Returns domain.ErrNotFound if no delivery with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Delivery, error)

	// ListByUserID returns all deliveries created by the given user,
	// most recent first.
	ListByUserID(ctx context.Context, userID int64) ([]domain.Delivery, error)

	// ListByDriverID returns all deliveries assigned to the given driver,
	// most recent first.
	ListByDriverID(ctx context.Context, driverID int64) ([]domain.Delivery, error)

	// UpdateStatus sets the delivery's status; if driverID is non-nil it also
	// assigns that driver. The storage layer does not validate transitions —
	// that is the service layer's job, so both backends stay identical.
	// Returns domain.ErrNotFound if the delivery does not exist.
	UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error)

	// MarkPickedUp stamps picked_up_at to now and returns the updated record.
	// Returns domain.ErrNotFound if the delivery does not exist.
	MarkPickedUp(ctx context.Context, id int64) (domain.Delivery, error)

	// MarkDelivered stamps delivered_at to now and returns the updated record.
	// Returns domain.ErrNotFound if the delivery does not exist.
	MarkDelivered(ctx context.Context, id int64) (domain.Delivery, error)
}

// pgDeliveryRepo is the Postgres implementation of DeliveryRepo.
type pgDeliveryRepo struct {
	db db
}

// NewDeliveryRepo constructs a DeliveryRepo backed by the provided db connection.
func NewDeliveryRepo(db db) DeliveryRepo {
	return &pgDeliveryRepo{db: db}
}

const deliveryColumns = `id, user_id, driver_id, order_number, type, status,
	pickup_street, pickup_city, pickup_postal_code, pickup_latitude, pickup_longitude,
	delivery_street, delivery_city, delivery_postal_code, delivery_latitude, delivery_longitude,
	estimated_price, final_price, estimated_time, created_at, picked_up_at, delivered_at`

// Create inserts a new delivery row. The order number is built from the
// current year and the delivery_order_seq sequence, e.g. "SP2025-001".
func (r *pgDeliveryRepo) Create(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	const q = `
		INSERT INTO deliveries (
			user_id, order_number, type, status,
			pickup_street, pickup_city, pickup_postal_code, pickup_latitude, pickup_longitude,
			delivery_street, delivery_city, delivery_postal_code, delivery_latitude, delivery_longitude,
			estimated_price, estimated_time
		)
		VALUES (
			@user_id,
			'SP' || to_char(now(), 'YYYY') || '-' || lpad(nextval('delivery_order_seq')::text, 3, '0'),
			@type, 'pending',
			@pickup_street, @pickup_city, @pickup_postal_code, @pickup_latitude, @pickup_longitude,
			@delivery_street, @delivery_city, @delivery_postal_code, @delivery_latitude, @delivery_longitude,
			@estimated_price, @estimated_time
		)
		RETURNING ` + deliveryColumns

	args := pgx.NamedArgs{
		"user_id":              delivery.UserID,
		"type":                 delivery.Type,
		"pickup_street":        delivery.PickupStreet,
		"pickup_city":          delivery.PickupCity,
		"pickup_postal_code":   delivery.PickupPostalCode,
		"pickup_latitude":      delivery.PickupLatitude, // nil becomes NULL
		"pickup_longitude":     delivery.PickupLongitude,
		"delivery_street":      delivery.DeliveryStreet,
		"delivery_city":        delivery.DeliveryCity,
		"delivery_postal_code": delivery.DeliveryPostalCode,
		"delivery_latitude":    delivery.DeliveryLatitude,
		"delivery_longitude":   delivery.DeliveryLongitude,
		"estimated_price":      delivery.EstimatedPrice,
		"estimated_time":       delivery.EstimatedTime,
	}

	result, err := scanDelivery(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("repo.DeliveryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDeliveryRepo) GetByID(ctx context.Context, id int64) (domain.Delivery, error) {
	const q = `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = @id`

	result, err := scanDelivery(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("repo.DeliveryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDeliveryRepo) ListByUserID(ctx context.Context, userID int64) ([]domain.Delivery, error) {
	const q = `SELECT ` + deliveryColumns + ` FROM deliveries WHERE user_id = @user_id ORDER BY created_at DESC`

	return r.list(ctx, "ListByUserID", q, pgx.NamedArgs{"user_id": userID})
}

func (r *pgDeliveryRepo) ListByDriverID(ctx context.Context, driverID int64) ([]domain.Delivery, error) {
	const q = `SELECT ` + deliveryColumns + ` FROM deliveries WHERE driver_id = @driver_id ORDER BY created_at DESC`

	return r.list(ctx, "ListByDriverID", q, pgx.NamedArgs{"driver_id": driverID})
}

func (r *pgDeliveryRepo) list(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Delivery, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.DeliveryRepo.%s: %w", op, err)
	}
	defer rows.Close()

	var deliveries []domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DeliveryRepo.%s: scan: %w", op, err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DeliveryRepo.%s: rows: %w", op, err)
	}

	return deliveries, nil
}

func (r *pgDeliveryRepo) UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error) {
	// COALESCE keeps the existing driver when no driver id is supplied.
	const q = `
		UPDATE deliveries
		SET status    = @status,
		    driver_id = COALESCE(@driver_id, driver_id)
		WHERE id = @id
		RETURNING ` + deliveryColumns

	args := pgx.NamedArgs{"id": id, "status": status, "driver_id": driverID}

	result, err := scanDelivery(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("repo.DeliveryRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgDeliveryRepo) MarkPickedUp(ctx context.Context, id int64) (domain.Delivery, error) {
	const q = `
		UPDATE deliveries
		SET picked_up_at = now()
		WHERE id = @id
		RETURNING ` + deliveryColumns

	result, err := scanDelivery(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("repo.DeliveryRepo.MarkPickedUp: %w", err)
	}
	return result, nil
}

func (r *pgDeliveryRepo) MarkDelivered(ctx context.Context, id int64) (domain.Delivery, error) {
	const q = `
		UPDATE deliveries
		SET delivered_at = now()
		WHERE id = @id
		RETURNING ` + deliveryColumns

	result, err := scanDelivery(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("repo.DeliveryRepo.MarkDelivered: %w", err)
	}
	return result, nil
}

// scanDelivery maps a single database row into a domain.Delivery.
// Nullable columns (driver_id, coordinates, final_price, lifecycle
// timestamps) map to nil pointers.
func scanDelivery(s scanner) (domain.Delivery, error) {
	var d domain.Delivery
	err := s.Scan(
		&d.ID, &d.UserID, &d.DriverID, &d.OrderNumber, &d.Type, &d.Status,
		&d.PickupStreet, &d.PickupCity, &d.PickupPostalCode, &d.PickupLatitude, &d.PickupLongitude,
		&d.DeliveryStreet, &d.DeliveryCity, &d.DeliveryPostalCode, &d.DeliveryLatitude, &d.DeliveryLongitude,
		&d.EstimatedPrice, &d.FinalPrice, &d.EstimatedTime, &d.CreatedAt, &d.PickedUpAt, &d.DeliveredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Delivery{}, domain.ErrNotFound
		}
		return domain.Delivery{}, err
	}
	return d, nil
}

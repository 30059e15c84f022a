package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/garage/internal/customer"
	"github.com/MrJamesThe3rd/garage/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectCustomerColumns = `id, name, contact_number, email, address, vehicle_info, created_at, updated_at`

func scanCustomer(s scanner) (*customer.Customer, error) {
	var c customer.Customer

	var contact, email, address, vehicle sql.NullString

	if err := s.Scan(&c.ID, &c.Name, &contact, &email, &address, &vehicle, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.ContactNumber = contact.String
	c.Email = email.String
	c.Address = address.String
	c.VehicleInfo = vehicle.String

	return &c, nil
}

func (s *Store) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (name, contact_number, email, address, vehicle_info)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		nullString(c.ContactNumber),
		nullString(c.Email),
		nullString(c.Address),
		nullString(c.VehicleInfo),
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating customer: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return c, nil
}

func (s *Store) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, contact_number = $2, email = $3, address = $4, vehicle_info = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		nullString(c.ContactNumber),
		nullString(c.Email),
		nullString(c.Address),
		nullString(c.VehicleInfo),
		c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customer.ErrNotFound
		}

		return fmt.Errorf("updating customer: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return customer.ErrInUse
		}

		return fmt.Errorf("deleting customer: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	if n == 0 {
		return customer.ErrNotFound
	}

	return nil
}

func (s *Store) List(ctx context.Context, search string) ([]*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers`

	var args []any

	if search != "" {
		query += ` WHERE name ILIKE $1 OR contact_number ILIKE $1`

		args = append(args, "%"+search+"%")
	}

	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []*customer.Customer

	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}

		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customers: %w", err)
	}

	return customers, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting customers: %w", err)
	}

	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/MrJamesThe3rd/garage/internal/database"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
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

const selectItemColumns = `
	i.id, i.part_number, i.name, i.description, i.category, i.unit_price, i.stock_quantity,
	i.min_stock_level, i.location, i.supplier_id, i.created_at, i.updated_at, s.name
`

// Expected column order: see selectItemColumns.
func scanItem(s scanner) (*inventory.Item, error) {
	var it inventory.Item

	var description, category, location, supplierName sql.NullString

	if err := s.Scan(
		&it.ID, &it.PartNumber, &it.Name, &description, &category, &it.UnitPrice, &it.StockQuantity,
		&it.MinStockLevel, &location, &it.SupplierID, &it.CreatedAt, &it.UpdatedAt, &supplierName,
	); err != nil {
		return nil, err
	}

	it.Description = description.String
	it.Category = category.String
	it.Location = location.String
	it.SupplierName = supplierName.String

	return &it, nil
}

func mapItemWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return inventory.ErrDuplicatePartNumber
	case database.IsForeignKeyViolation(err):
		return inventory.ErrSupplierNotFound
	}

	return err
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertItem(ctx context.Context, q rowQuerier, it *inventory.Item) error {
	query := `
		INSERT INTO items (part_number, name, description, category, unit_price, stock_quantity,
			min_stock_level, location, supplier_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		it.PartNumber,
		it.Name,
		nullString(it.Description),
		nullString(it.Category),
		it.UnitPrice,
		it.StockQuantity,
		it.MinStockLevel,
		nullString(it.Location),
		it.SupplierID,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if mapped := mapItemWriteError(err); mapped != err {
			return mapped
		}

		return fmt.Errorf("creating item: %w", err)
	}

	return nil
}

func (s *Store) CreateItem(ctx context.Context, it *inventory.Item) error {
	return insertItem(ctx, s.db, it)
}

func (s *Store) GetItem(ctx context.Context, id int64) (*inventory.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM items i
		LEFT JOIN suppliers s ON i.supplier_id = s.id
		WHERE i.id = $1`

	it, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrNotFound
		}

		return nil, fmt.Errorf("getting item: %w", err)
	}

	return it, nil
}

func (s *Store) UpdateItem(ctx context.Context, it *inventory.Item) error {
	query := `
		UPDATE items
		SET part_number = $1, name = $2, description = $3, category = $4, unit_price = $5,
			stock_quantity = $6, min_stock_level = $7, location = $8, supplier_id = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		it.PartNumber,
		it.Name,
		nullString(it.Description),
		nullString(it.Category),
		it.UnitPrice,
		it.StockQuantity,
		it.MinStockLevel,
		nullString(it.Location),
		it.SupplierID,
		it.ID,
	).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.ErrNotFound
		}

		if mapped := mapItemWriteError(err); mapped != err {
			return mapped
		}

		return fmt.Errorf("updating item: %w", err)
	}

	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return inventory.ErrInUse
		}

		return fmt.Errorf("deleting item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if n == 0 {
		return inventory.ErrNotFound
	}

	return nil
}

func (s *Store) ListItems(ctx context.Context, filter inventory.ListFilter) ([]*inventory.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM items i
		LEFT JOIN suppliers s ON i.supplier_id = s.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (i.name ILIKE $%d OR i.part_number ILIKE $%d)", argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if filter.Category != "" {
		query += fmt.Sprintf(" AND i.category = $%d", argIdx)

		args = append(args, filter.Category)
		argIdx++
	}

	if filter.SupplierID != nil {
		query += fmt.Sprintf(" AND i.id IN (SELECT item_id FROM supplier_items WHERE supplier_id = $%d)", argIdx)

		args = append(args, *filter.SupplierID)
	}

	if filter.LowStockOnly {
		query += " AND i.stock_quantity <= i.min_stock_level ORDER BY i.stock_quantity ASC, i.name ASC"
	} else {
		query += " ORDER BY i.name ASC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*inventory.Item

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}

func (s *Store) CountItems(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}

	return n, nil
}

func (s *Store) PartNumberExists(ctx context.Context, partNumber string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM items WHERE part_number = $1)`
	if err := s.db.QueryRowContext(ctx, query, partNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking part number: %w", err)
	}

	return exists, nil
}

func scanSupplier(s scanner) (*inventory.Supplier, error) {
	var sup inventory.Supplier

	var contact, email, address sql.NullString

	if err := s.Scan(&sup.ID, &sup.Name, &contact, &email, &address, &sup.CreatedAt, &sup.UpdatedAt); err != nil {
		return nil, err
	}

	sup.ContactNumber = contact.String
	sup.Email = email.String
	sup.Address = address.String

	return &sup, nil
}

const selectSupplierColumns = `id, name, contact_number, email, address, created_at, updated_at`

func (s *Store) CreateSupplier(ctx context.Context, sup *inventory.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact_number, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sup.Name,
		nullString(sup.ContactNumber),
		nullString(sup.Email),
		nullString(sup.Address),
	).Scan(&sup.ID, &sup.CreatedAt, &sup.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating supplier: %w", err)
	}

	return nil
}

func (s *Store) GetSupplier(ctx context.Context, id int64) (*inventory.Supplier, error) {
	query := `SELECT ` + selectSupplierColumns + ` FROM suppliers WHERE id = $1`

	sup, err := scanSupplier(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrSupplierNotFound
		}

		return nil, fmt.Errorf("getting supplier: %w", err)
	}

	return sup, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, sup *inventory.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, contact_number = $2, email = $3, address = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		sup.Name,
		nullString(sup.ContactNumber),
		nullString(sup.Email),
		nullString(sup.Address),
		sup.ID,
	).Scan(&sup.CreatedAt, &sup.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.ErrSupplierNotFound
		}

		return fmt.Errorf("updating supplier: %w", err)
	}

	return nil
}

func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting supplier: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting supplier: %w", err)
	}

	if n == 0 {
		return inventory.ErrSupplierNotFound
	}

	return nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]*inventory.Supplier, error) {
	query := `SELECT ` + selectSupplierColumns + ` FROM suppliers ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*inventory.Supplier

	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}

		suppliers = append(suppliers, sup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating suppliers: %w", err)
	}

	return suppliers, nil
}

func (s *Store) LinkItem(ctx context.Context, supplierID, itemID int64) error {
	query := `
		INSERT INTO supplier_items (supplier_id, item_id)
		VALUES ($1, $2)
		ON CONFLICT (supplier_id, item_id) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, supplierID, itemID); err != nil {
		if database.IsForeignKeyViolation(err) {
			if database.ConstraintName(err) == "supplier_items_item_id_fkey" {
				return inventory.ErrNotFound
			}

			return inventory.ErrSupplierNotFound
		}

		return fmt.Errorf("linking item to supplier: %w", err)
	}

	return nil
}

// importLockKey serializes catalog imports so two batches cannot both pass
// the existence check for the same part number.
func importLockKey() int64 {
	h := fnv.New64a()
	h.Write([]byte("items:catalog-import"))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (inventory.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey()); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindExisting(ctx context.Context, partNumbers []string) ([]*inventory.Item, error) {
	if len(partNumbers) == 0 {
		return nil, nil
	}

	query := `SELECT ` + selectItemColumns + `
		FROM items i
		LEFT JOIN suppliers s ON i.supplier_id = s.id
		WHERE i.part_number = ANY($1)`

	rows, err := itx.tx.QueryContext(ctx, query, partNumbers)
	if err != nil {
		return nil, fmt.Errorf("finding existing items: %w", err)
	}
	defer rows.Close()

	var items []*inventory.Item

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating existing items: %w", err)
	}

	return items, nil
}

func (itx *importTx) CreateItems(ctx context.Context, items []*inventory.Item) error {
	for _, it := range items {
		if err := insertItem(ctx, itx.tx, it); err != nil {
			return err
		}
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

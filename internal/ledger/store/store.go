package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/database"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
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

// Expected column order: id, item_id, customer_id, quantity, unit_price, total_amount,
// sale_date, notes, created_at, part_number, item_name, customer_name
func scanSale(s scanner) (*ledger.Sale, error) {
	var sale ledger.Sale

	var notes, customerName sql.NullString

	if err := s.Scan(
		&sale.ID, &sale.ItemID, &sale.CustomerID, &sale.Quantity, &sale.UnitPrice, &sale.TotalAmount,
		&sale.SaleDate, &notes, &sale.CreatedAt,
		&sale.PartNumber, &sale.ItemName, &customerName,
	); err != nil {
		return nil, err
	}

	sale.Notes = notes.String
	sale.CustomerName = customerName.String

	return &sale, nil
}

// Expected column order: id, item_id, supplier_id, quantity, unit_price, total_amount,
// purchase_date, invoice_number, notes, created_at, part_number, item_name, supplier_name
func scanPurchase(s scanner) (*ledger.Purchase, error) {
	var p ledger.Purchase

	var invoice, notes, supplierName sql.NullString

	if err := s.Scan(
		&p.ID, &p.ItemID, &p.SupplierID, &p.Quantity, &p.UnitPrice, &p.TotalAmount,
		&p.PurchaseDate, &invoice, &notes, &p.CreatedAt,
		&p.PartNumber, &p.ItemName, &supplierName,
	); err != nil {
		return nil, err
	}

	p.InvoiceNumber = invoice.String
	p.Notes = notes.String
	p.SupplierName = supplierName.String

	return &p, nil
}

const selectSaleColumns = `
	s.id, s.item_id, s.customer_id, s.quantity, s.unit_price, s.total_amount,
	s.sale_date, s.notes, s.created_at, i.part_number, i.name, c.name
`

const selectPurchaseColumns = `
	p.id, p.item_id, p.supplier_id, p.quantity, p.unit_price, p.total_amount,
	p.purchase_date, p.invoice_number, p.notes, p.created_at, i.part_number, i.name, sp.name
`

type filterBuilder struct {
	where  string
	args   []any
	argIdx int
}

func (b *filterBuilder) add(clause string, arg any) {
	b.where += fmt.Sprintf(" AND "+clause, b.argIdx)
	b.args = append(b.args, arg)
	b.argIdx++
}

func buildFilter(alias, dateCol, partyCol string, filter ledger.ListFilter, partyID *int64) *filterBuilder {
	b := &filterBuilder{argIdx: 1}

	if filter.StartDate != nil {
		b.add(alias+"."+dateCol+" >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		b.add(alias+"."+dateCol+" <= $%d", *filter.EndDate)
	}

	if filter.ItemID != nil {
		b.add(alias+".item_id = $%d", *filter.ItemID)
	}

	if partyID != nil {
		b.add(alias+"."+partyCol+" = $%d", *partyID)
	}

	return b
}

func (s *Store) ListSales(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Sale, error) {
	b := buildFilter("s", "sale_date", "customer_id", filter, filter.CustomerID)

	query := `SELECT ` + selectSaleColumns + `
		FROM sales s
		JOIN items i ON s.item_id = i.id
		LEFT JOIN customers c ON s.customer_id = c.id
		WHERE TRUE` + b.where + `
		ORDER BY s.sale_date DESC, s.id DESC`

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*ledger.Sale

	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales: %w", err)
	}

	return sales, nil
}

func (s *Store) ListPurchases(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Purchase, error) {
	b := buildFilter("p", "purchase_date", "supplier_id", filter, filter.SupplierID)

	query := `SELECT ` + selectPurchaseColumns + `
		FROM purchases p
		JOIN items i ON p.item_id = i.id
		LEFT JOIN suppliers sp ON p.supplier_id = sp.id
		WHERE TRUE` + b.where + `
		ORDER BY p.purchase_date DESC, p.id DESC`

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*ledger.Purchase

	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}

		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchases: %w", err)
	}

	return purchases, nil
}

func (s *Store) SalesTotal(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal

	query := `SELECT COALESCE(SUM(total_amount), 0) FROM sales WHERE sale_date = $1`
	if err := s.db.QueryRowContext(ctx, query, day).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing sales: %w", err)
	}

	return total, nil
}

func (s *Store) PurchasesTotal(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal

	query := `SELECT COALESCE(SUM(total_amount), 0) FROM purchases WHERE purchase_date = $1`
	if err := s.db.QueryRowContext(ctx, query, day).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing purchases: %w", err)
	}

	return total, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

func (ltx *ledgerTx) Commit() error   { return ltx.tx.Commit() }
func (ltx *ledgerTx) Rollback() error { return ltx.tx.Rollback() }

func (ltx *ledgerTx) LockStock(ctx context.Context, itemID int64) (int, error) {
	var stock int

	query := `SELECT stock_quantity FROM items WHERE id = $1 FOR UPDATE`
	if err := ltx.tx.QueryRowContext(ctx, query, itemID).Scan(&stock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ledger.ErrItemNotFound
		}

		return 0, fmt.Errorf("locking item stock: %w", err)
	}

	return stock, nil
}

func (ltx *ledgerTx) AdjustStock(ctx context.Context, itemID int64, delta int) error {
	query := `
		UPDATE items
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := ltx.tx.ExecContext(ctx, query, delta, itemID)
	if err != nil {
		return fmt.Errorf("adjusting stock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjusting stock: %w", err)
	}

	if n == 0 {
		return ledger.ErrItemNotFound
	}

	return nil
}

func (ltx *ledgerTx) InsertSale(ctx context.Context, sale *ledger.Sale) error {
	query := `
		INSERT INTO sales (item_id, customer_id, quantity, unit_price, total_amount, sale_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := ltx.tx.QueryRowContext(ctx, query,
		sale.ItemID,
		sale.CustomerID,
		sale.Quantity,
		sale.UnitPrice,
		sale.TotalAmount,
		sale.SaleDate,
		nullString(sale.Notes),
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting sale: %w", mapReferenceError(err))
	}

	return nil
}

func (ltx *ledgerTx) InsertPurchase(ctx context.Context, p *ledger.Purchase) error {
	query := `
		INSERT INTO purchases (item_id, supplier_id, quantity, unit_price, total_amount, purchase_date, invoice_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := ltx.tx.QueryRowContext(ctx, query,
		p.ItemID,
		p.SupplierID,
		p.Quantity,
		p.UnitPrice,
		p.TotalAmount,
		p.PurchaseDate,
		nullString(p.InvoiceNumber),
		nullString(p.Notes),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting purchase: %w", mapReferenceError(err))
	}

	return nil
}

func mapReferenceError(err error) error {
	if !database.IsForeignKeyViolation(err) {
		return err
	}

	switch database.ConstraintName(err) {
	case "sales_item_id_fkey", "purchases_item_id_fkey":
		return ledger.ErrItemNotFound
	case "sales_customer_id_fkey":
		return ledger.ErrCustomerNotFound
	case "purchases_supplier_id_fkey":
		return ledger.ErrSupplierNotFound
	}

	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

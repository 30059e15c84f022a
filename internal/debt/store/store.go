package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/database"
	"github.com/MrJamesThe3rd/garage/internal/debt"
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

// overduePredicate takes the reference date as its only parameter placeholder.
const overduePredicate = `(d.status = 'OVERDUE' OR (d.due_date < $%d AND d.status IN ('PENDING', 'PARTIAL')))`

const selectDebtColumns = `
	d.id, d.customer_id, d.sale_id, d.transaction_type, d.amount, d.remaining_balance,
	d.transaction_date, d.due_date, d.payment_method, d.reference_number, d.notes,
	d.status, d.created_at, c.name
`

// Expected column order: see selectDebtColumns.
func scanDebt(s scanner) (*debt.Transaction, error) {
	var t debt.Transaction

	var typeStr, statusStr string

	var method, reference, notes, customerName sql.NullString

	if err := s.Scan(
		&t.ID, &t.CustomerID, &t.SaleID, &typeStr, &t.Amount, &t.RemainingBalance,
		&t.TransactionDate, &t.DueDate, &method, &reference, &notes,
		&statusStr, &t.CreatedAt, &customerName,
	); err != nil {
		return nil, err
	}

	t.Type = debt.Type(typeStr)
	t.Status = debt.Status(statusStr)
	t.PaymentMethod = method.String
	t.ReferenceNumber = reference.String
	t.Notes = notes.String
	t.CustomerName = customerName.String

	return &t, nil
}

func (s *Store) queryDebts(ctx context.Context, query string, args ...any) ([]*debt.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []*debt.Transaction

	for rows.Next() {
		t, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning debt: %w", err)
		}

		debts = append(debts, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating debts: %w", err)
	}

	return debts, nil
}

func (s *Store) Create(ctx context.Context, t *debt.Transaction) error {
	query := `
		INSERT INTO debt_transactions (customer_id, sale_id, transaction_type, amount, remaining_balance,
			transaction_date, due_date, payment_method, reference_number, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.CustomerID,
		t.SaleID,
		t.Type,
		t.Amount,
		t.RemainingBalance,
		t.TransactionDate,
		t.DueDate,
		nullString(t.PaymentMethod),
		nullString(t.ReferenceNumber),
		nullString(t.Notes),
		t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) && database.ConstraintName(err) == "debt_transactions_customer_id_fkey" {
			return debt.ErrCustomerNotFound
		}

		return fmt.Errorf("creating debt: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (*debt.Transaction, error) {
	query := `SELECT ` + selectDebtColumns + `
		FROM debt_transactions d
		LEFT JOIN customers c ON d.customer_id = c.id
		WHERE d.id = $1`

	t, err := scanDebt(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, debt.ErrNotFound
		}

		return nil, fmt.Errorf("getting debt: %w", err)
	}

	return t, nil
}

func (s *Store) List(ctx context.Context, filter debt.ListFilter) ([]*debt.Transaction, error) {
	query := `SELECT ` + selectDebtColumns + `
		FROM debt_transactions d
		LEFT JOIN customers c ON d.customer_id = c.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND d.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}

		query += fmt.Sprintf(" AND d.status = ANY($%d)", argIdx)

		args = append(args, statuses)
	}

	if filter.OldestFirst {
		query += " ORDER BY d.transaction_date ASC, d.id ASC"
	} else {
		query += " ORDER BY d.transaction_date DESC, d.id DESC"
	}

	debts, err := s.queryDebts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing debts: %w", err)
	}

	return debts, nil
}

func (s *Store) Overdue(ctx context.Context, today time.Time) ([]*debt.Transaction, error) {
	query := `SELECT ` + selectDebtColumns + `
		FROM debt_transactions d
		LEFT JOIN customers c ON d.customer_id = c.id
		WHERE ` + fmt.Sprintf(overduePredicate, 1) + `
		ORDER BY d.due_date ASC NULLS LAST, d.id ASC`

	debts, err := s.queryDebts(ctx, query, today)
	if err != nil {
		return nil, fmt.Errorf("listing overdue debts: %w", err)
	}

	return debts, nil
}

func (s *Store) CountOverdue(ctx context.Context, today time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM debt_transactions d WHERE ` + fmt.Sprintf(overduePredicate, 1)

	var n int
	if err := s.db.QueryRowContext(ctx, query, today).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting overdue debts: %w", err)
	}

	return n, nil
}

func (s *Store) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(remaining_balance), 0)
		FROM debt_transactions
		WHERE status IN ('PENDING', 'PARTIAL', 'OVERDUE')
	`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing outstanding debt: %w", err)
	}

	return total, nil
}

// CustomerSummary reports PAYMENT ledger entries as paid and, separately, the
// payments recorded against the customer's debts.
func (s *Store) CustomerSummary(ctx context.Context, customerID int64, today time.Time) (*debt.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(d.amount) FILTER (WHERE d.transaction_type = 'CREDIT_SALE'), 0),
			COALESCE(SUM(d.amount) FILTER (WHERE d.transaction_type = 'PAYMENT'), 0),
			COALESCE(SUM(d.remaining_balance), 0),
			COUNT(*) FILTER (WHERE ` + fmt.Sprintf(overduePredicate, 2) + `),
			(SELECT COALESCE(SUM(p.payment_amount), 0)
			   FROM debt_payments p
			   JOIN debt_transactions pd ON pd.id = p.debt_transaction_id
			  WHERE pd.customer_id = $1)
		FROM debt_transactions d
		WHERE d.customer_id = $1
	`

	sum := &debt.Summary{CustomerID: customerID}

	err := s.db.QueryRowContext(ctx, query, customerID, today).Scan(
		&sum.TotalCredit, &sum.TotalPaid, &sum.Outstanding, &sum.OverdueCount, &sum.RecordedPayments,
	)
	if err != nil {
		return nil, fmt.Errorf("summarizing customer debt: %w", err)
	}

	return sum, nil
}

func (s *Store) Payments(ctx context.Context, debtID int64) ([]*debt.Payment, error) {
	query := `
		SELECT id, debt_transaction_id, payment_amount, payment_date, payment_method,
			reference_number, notes, created_by, created_at
		FROM debt_payments
		WHERE debt_transaction_id = $1
		ORDER BY payment_date DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*debt.Payment

	for rows.Next() {
		var p debt.Payment

		var method, reference, notes, createdBy sql.NullString

		if err := rows.Scan(
			&p.ID, &p.DebtTransactionID, &p.Amount, &p.PaymentDate, &method,
			&reference, &notes, &createdBy, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		p.PaymentMethod = method.String
		p.ReferenceNumber = reference.String
		p.Notes = notes.String
		p.CreatedBy = createdBy.String

		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return payments, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM debt_transactions WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return debt.ErrHasPayments
		}

		return fmt.Errorf("deleting debt: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting debt: %w", err)
	}

	if n == 0 {
		return debt.ErrNotFound
	}

	return nil
}

func (s *Store) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE debt_transactions
		SET status = 'OVERDUE'
		WHERE due_date < $1 AND status IN ('PENDING', 'PARTIAL')
	`

	res, err := s.db.ExecContext(ctx, query, today)
	if err != nil {
		return 0, fmt.Errorf("marking overdue: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("marking overdue: %w", err)
	}

	return n, nil
}

type paymentTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (debt.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning payment tx: %w", err)
	}

	return &paymentTx{tx: dbTx}, nil
}

func (ptx *paymentTx) Commit() error   { return ptx.tx.Commit() }
func (ptx *paymentTx) Rollback() error { return ptx.tx.Rollback() }

func (ptx *paymentTx) InsertPayment(ctx context.Context, p *debt.Payment) error {
	query := `
		INSERT INTO debt_payments (debt_transaction_id, payment_amount, payment_date, payment_method,
			reference_number, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := ptx.tx.QueryRowContext(ctx, query,
		p.DebtTransactionID,
		p.Amount,
		p.PaymentDate,
		nullString(p.PaymentMethod),
		nullString(p.ReferenceNumber),
		nullString(p.Notes),
		nullString(p.CreatedBy),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return debt.ErrNotFound
		}

		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

// ApplyPayment is the single guarded update that keeps the balance within [0, amount].
func (ptx *paymentTx) ApplyPayment(ctx context.Context, debtID int64, amount decimal.Decimal) (decimal.Decimal, debt.Status, bool, error) {
	query := `
		UPDATE debt_transactions
		SET remaining_balance = remaining_balance - $1,
		    status = CASE
		        WHEN remaining_balance - $1 <= 0 THEN 'PAID'
		        WHEN remaining_balance - $1 < amount THEN 'PARTIAL'
		        ELSE status
		    END
		WHERE id = $2 AND remaining_balance >= $1
		RETURNING remaining_balance, status
	`

	var remaining decimal.Decimal

	var status string

	err := ptx.tx.QueryRowContext(ctx, query, amount, debtID).Scan(&remaining, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, "", false, nil
		}

		return decimal.Zero, "", false, fmt.Errorf("applying payment: %w", err)
	}

	return remaining, debt.Status(status), true, nil
}

func (ptx *paymentTx) Exists(ctx context.Context, debtID int64) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM debt_transactions WHERE id = $1)`
	if err := ptx.tx.QueryRowContext(ctx, query, debtID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking debt: %w", err)
	}

	return exists, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

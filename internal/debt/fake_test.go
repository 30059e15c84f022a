package debt_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/debt"
)

// overdue matches the store's overdue predicate.
func overdue(d *debt.Transaction, today time.Time) bool {
	if d.Status == debt.StatusOverdue {
		return true
	}

	return d.DueDate != nil && d.DueDate.Before(today) &&
		(d.Status == debt.StatusPending || d.Status == debt.StatusPartial)
}

// statusAfterPayment matches the CASE in the store's guarded update.
func statusAfterPayment(amount, remaining decimal.Decimal, current debt.Status) debt.Status {
	switch {
	case remaining.LessThanOrEqual(decimal.Zero):
		return debt.StatusPaid
	case remaining.LessThan(amount):
		return debt.StatusPartial
	default:
		return current
	}
}

// memDebts is an in-memory Repository whose ApplyPayment follows the same
// guarded update as the SQL store.
type memDebts struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	debts    map[int64]*debt.Transaction
	payments []*debt.Payment
	nextID   int64
}

func newMemDebts() *memDebts {
	return &memDebts{debts: map[int64]*debt.Transaction{}}
}

func (m *memDebts) snapshot(id int64) debt.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	return *m.debts[id]
}

func (m *memDebts) Create(_ context.Context, d *debt.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	d.ID = m.nextID
	stored := *d
	m.debts[d.ID] = &stored

	return nil
}

func (m *memDebts) Get(_ context.Context, id int64) (*debt.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.debts[id]
	if !ok {
		return nil, debt.ErrNotFound
	}

	out := *d

	return &out, nil
}

func (m *memDebts) List(_ context.Context, filter debt.ListFilter) ([]*debt.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*debt.Transaction

	for _, d := range m.debts {
		if filter.CustomerID != nil && d.CustomerID != *filter.CustomerID {
			continue
		}

		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, d.Status) {
			continue
		}

		c := *d
		out = append(out, &c)
	}

	slices.SortFunc(out, func(a, b *debt.Transaction) int { return int(a.ID - b.ID) })

	return out, nil
}

func (m *memDebts) Overdue(_ context.Context, today time.Time) ([]*debt.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*debt.Transaction

	for _, d := range m.debts {
		if overdue(d, today) {
			c := *d
			out = append(out, &c)
		}
	}

	return out, nil
}

func (m *memDebts) CountOverdue(ctx context.Context, today time.Time) (int, error) {
	list, _ := m.Overdue(ctx, today)
	return len(list), nil
}

func (m *memDebts) TotalOutstanding(_ context.Context) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, d := range m.debts {
		if d.Status.Open() {
			total = total.Add(d.RemainingBalance)
		}
	}

	return total, nil
}

func (m *memDebts) CustomerSummary(_ context.Context, customerID int64, today time.Time) (*debt.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sum := &debt.Summary{CustomerID: customerID}

	for _, d := range m.debts {
		if d.CustomerID != customerID {
			continue
		}

		switch d.Type {
		case debt.TypeCreditSale:
			sum.TotalCredit = sum.TotalCredit.Add(d.Amount)
		case debt.TypePayment:
			sum.TotalPaid = sum.TotalPaid.Add(d.Amount)
		}

		sum.Outstanding = sum.Outstanding.Add(d.RemainingBalance)

		if overdue(d, today) {
			sum.OverdueCount++
		}
	}

	for _, p := range m.payments {
		if m.debts[p.DebtTransactionID].CustomerID == customerID {
			sum.RecordedPayments = sum.RecordedPayments.Add(p.Amount)
		}
	}

	return sum, nil
}

func (m *memDebts) Payments(_ context.Context, debtID int64) ([]*debt.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*debt.Payment

	for i := len(m.payments) - 1; i >= 0; i-- {
		if m.payments[i].DebtTransactionID == debtID {
			out = append(out, m.payments[i])
		}
	}

	return out, nil
}

func (m *memDebts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.debts[id]; !ok {
		return debt.ErrNotFound
	}

	for _, p := range m.payments {
		if p.DebtTransactionID == id {
			return debt.ErrHasPayments
		}
	}

	delete(m.debts, id)

	return nil
}

func (m *memDebts) MarkOverdue(_ context.Context, today time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64

	for _, d := range m.debts {
		if d.DueDate != nil && d.DueDate.Before(today) &&
			(d.Status == debt.StatusPending || d.Status == debt.StatusPartial) {
			d.Status = debt.StatusOverdue
			n++
		}
	}

	return n, nil
}

func (m *memDebts) Begin(_ context.Context) (debt.Tx, error) {
	m.txMu.Lock()
	return &memPaymentTx{m: m}, nil
}

type memPaymentTx struct {
	m        *memDebts
	payments []*debt.Payment
	applied  map[int64]debt.Transaction
	done     bool
}

func (tx *memPaymentTx) InsertPayment(_ context.Context, p *debt.Payment) error {
	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()

	if _, ok := tx.m.debts[p.DebtTransactionID]; !ok {
		return debt.ErrNotFound
	}

	tx.m.nextID++
	p.ID = tx.m.nextID
	tx.payments = append(tx.payments, p)

	return nil
}

func (tx *memPaymentTx) ApplyPayment(_ context.Context, debtID int64, amount decimal.Decimal) (decimal.Decimal, debt.Status, bool, error) {
	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()

	d, ok := tx.m.debts[debtID]
	if !ok || d.RemainingBalance.LessThan(amount) {
		return decimal.Zero, "", false, nil
	}

	next := *d
	next.RemainingBalance = d.RemainingBalance.Sub(amount)
	next.Status = statusAfterPayment(d.Amount, next.RemainingBalance, d.Status)

	if tx.applied == nil {
		tx.applied = map[int64]debt.Transaction{}
	}

	tx.applied[debtID] = next

	return next.RemainingBalance, next.Status, true, nil
}

func (tx *memPaymentTx) Exists(_ context.Context, debtID int64) (bool, error) {
	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()

	_, ok := tx.m.debts[debtID]

	return ok, nil
}

func (tx *memPaymentTx) Commit() error {
	tx.m.mu.Lock()

	for id, d := range tx.applied {
		stored := d
		tx.m.debts[id] = &stored
	}

	tx.m.payments = append(tx.m.payments, tx.payments...)
	tx.m.mu.Unlock()

	tx.done = true
	tx.m.txMu.Unlock()

	return nil
}

func (tx *memPaymentTx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.done = true
	tx.m.txMu.Unlock()

	return nil
}

package ledger_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

// memLedger is an in-memory Repository. A transaction holds mu until it ends,
// which gives the same serialization a row lock gives a single item.
type memLedger struct {
	mu        sync.Mutex
	stock     map[int64]int
	sales     []*ledger.Sale
	purchases []*ledger.Purchase
	nextID    int64
}

func newMemLedger(stock map[int64]int) *memLedger {
	return &memLedger{stock: stock}
}

func (m *memLedger) Stock(itemID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stock[itemID]
}

func (m *memLedger) Begin(_ context.Context) (ledger.Tx, error) {
	m.mu.Lock()

	staged := make(map[int64]int, len(m.stock))
	for k, v := range m.stock {
		staged[k] = v
	}

	return &memTx{m: m, stock: staged}, nil
}

func (m *memLedger) ListSales(_ context.Context, _ ledger.ListFilter) ([]*ledger.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*ledger.Sale(nil), m.sales...), nil
}

func (m *memLedger) ListPurchases(_ context.Context, _ ledger.ListFilter) ([]*ledger.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*ledger.Purchase(nil), m.purchases...), nil
}

func (m *memLedger) SalesTotal(_ context.Context, day time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, s := range m.sales {
		if s.SaleDate.Equal(day) {
			total = total.Add(s.TotalAmount)
		}
	}

	return total, nil
}

func (m *memLedger) PurchasesTotal(_ context.Context, day time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, p := range m.purchases {
		if p.PurchaseDate.Equal(day) {
			total = total.Add(p.TotalAmount)
		}
	}

	return total, nil
}

type memTx struct {
	m         *memLedger
	stock     map[int64]int
	sales     []*ledger.Sale
	purchases []*ledger.Purchase
	done      bool
}

func (tx *memTx) LockStock(_ context.Context, itemID int64) (int, error) {
	qty, ok := tx.stock[itemID]
	if !ok {
		return 0, ledger.ErrItemNotFound
	}

	return qty, nil
}

func (tx *memTx) InsertSale(_ context.Context, sale *ledger.Sale) error {
	if _, ok := tx.stock[sale.ItemID]; !ok {
		return ledger.ErrItemNotFound
	}

	tx.m.nextID++
	sale.ID = tx.m.nextID
	tx.sales = append(tx.sales, sale)

	return nil
}

func (tx *memTx) InsertPurchase(_ context.Context, p *ledger.Purchase) error {
	tx.m.nextID++
	p.ID = tx.m.nextID
	tx.purchases = append(tx.purchases, p)

	return nil
}

func (tx *memTx) AdjustStock(_ context.Context, itemID int64, delta int) error {
	qty, ok := tx.stock[itemID]
	if !ok {
		return ledger.ErrItemNotFound
	}

	if qty+delta < 0 {
		return errors.New("stock_quantity check constraint violated")
	}

	tx.stock[itemID] = qty + delta

	return nil
}

func (tx *memTx) Commit() error {
	if tx.done {
		return errors.New("transaction already done")
	}

	tx.m.stock = tx.stock
	tx.m.sales = append(tx.m.sales, tx.sales...)
	tx.m.purchases = append(tx.m.purchases, tx.purchases...)
	tx.done = true
	tx.m.mu.Unlock()

	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.done = true
	tx.m.mu.Unlock()

	return nil
}

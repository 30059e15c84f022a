package debt_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/garage/internal/debt"
)

func TestCreditSalePaymentScenario(t *testing.T) {
	mem := newMemDebts()
	svc := debt.NewService(mem).WithClock(fixedClock)
	ctx := context.Background()

	credit, err := svc.AddDebtTransaction(ctx, debt.CreateParams{CustomerID: 1, Amount: dec("100.00")})
	require.NoError(t, err)
	assert.Equal(t, debt.StatusPending, credit.Status)
	assert.True(t, dec("100.00").Equal(credit.RemainingBalance))

	r, err := svc.RecordPayment(ctx, debt.PaymentParams{DebtID: credit.ID, Amount: dec("40.00")})
	require.NoError(t, err)
	assert.True(t, dec("60.00").Equal(r.RemainingBalance))
	assert.Equal(t, debt.StatusPartial, r.Status)

	r, err = svc.RecordPayment(ctx, debt.PaymentParams{DebtID: credit.ID, Amount: dec("60.00")})
	require.NoError(t, err)
	assert.True(t, r.RemainingBalance.IsZero())
	assert.Equal(t, debt.StatusPaid, r.Status)

	_, err = svc.RecordPayment(ctx, debt.PaymentParams{DebtID: credit.ID, Amount: dec("0.01")})
	require.ErrorIs(t, err, debt.ErrOverpayment)

	history, err := svc.PaymentHistory(ctx, credit.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, dec("60.00").Equal(history[0].Amount), "newest first")

	stored := mem.snapshot(credit.ID)
	assert.Equal(t, debt.StatusPaid, stored.Status)

	sum, err := svc.CustomerSummary(ctx, 1)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(sum.TotalCredit))
	assert.True(t, sum.TotalPaid.IsZero(), "no PAYMENT entries were added")
	assert.True(t, dec("100").Equal(sum.RecordedPayments))
	assert.True(t, sum.Outstanding.IsZero())
}

func TestCustomerSummary_PaymentEntriesOnly(t *testing.T) {
	mem := newMemDebts()
	svc := debt.NewService(mem).WithClock(fixedClock)
	ctx := context.Background()

	credit, err := svc.AddDebtTransaction(ctx, debt.CreateParams{CustomerID: 3, Amount: dec("80.00")})
	require.NoError(t, err)

	_, err = svc.AddDebtTransaction(ctx, debt.CreateParams{CustomerID: 3, Type: debt.TypePayment, Amount: dec("25.00")})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, debt.PaymentParams{DebtID: credit.ID, Amount: dec("30.00")})
	require.NoError(t, err)

	sum, err := svc.CustomerSummary(ctx, 3)
	require.NoError(t, err)
	assert.True(t, dec("80").Equal(sum.TotalCredit))
	assert.True(t, dec("25").Equal(sum.TotalPaid))
	assert.True(t, dec("30").Equal(sum.RecordedPayments))
	assert.True(t, dec("50").Equal(sum.Outstanding))
}

func TestPaymentsMonotoneAndNeverNegative(t *testing.T) {
	mem := newMemDebts()
	svc := debt.NewService(mem).WithClock(fixedClock)
	ctx := context.Background()

	credit, err := svc.AddDebtTransaction(ctx, debt.CreateParams{CustomerID: 1, Amount: dec("250.00")})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 5))
	prev := credit.RemainingBalance

	for range 200 {
		cents := rng.IntN(5000) + 1
		amount := decimal.New(int64(cents), -2)

		_, err := svc.RecordPayment(ctx, debt.PaymentParams{DebtID: credit.ID, Amount: amount})
		if err != nil {
			require.ErrorIs(t, err, debt.ErrOverpayment)
		}

		cur := mem.snapshot(credit.ID)
		assert.False(t, cur.RemainingBalance.GreaterThan(prev), "balance must never grow")
		assert.False(t, cur.RemainingBalance.IsNegative())
		assert.False(t, cur.RemainingBalance.GreaterThan(cur.Amount))

		if cur.RemainingBalance.IsZero() {
			assert.Equal(t, debt.StatusPaid, cur.Status)
		}

		prev = cur.RemainingBalance
	}
}

func TestConcurrentPaymentsNeverOverpay(t *testing.T) {
	mem := newMemDebts()
	svc := debt.NewService(mem).WithClock(fixedClock)
	ctx := context.Background()

	credit, err := svc.AddDebtTransaction(ctx, debt.CreateParams{CustomerID: 1, Amount: dec("100.00")})
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)

	for range 20 {
		wg.Go(func() {
			_, err := svc.RecordPayment(ctx, debt.PaymentParams{DebtID: credit.ID, Amount: dec("10.00")})

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				accepted++
			case errors.Is(err, debt.ErrOverpayment):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	wg.Wait()

	assert.Equal(t, 10, accepted)

	stored := mem.snapshot(credit.ID)
	assert.True(t, stored.RemainingBalance.IsZero())
	assert.Equal(t, debt.StatusPaid, stored.Status)

	history, err := svc.PaymentHistory(ctx, credit.ID)
	require.NoError(t, err)
	assert.Len(t, history, 10)
}

func TestMarkOverdueIdempotent(t *testing.T) {
	mem := newMemDebts()
	svc := debt.NewService(mem).WithClock(fixedClock)
	ctx := context.Background()

	past := today.AddDate(0, 0, -3)
	future := today.AddDate(0, 0, 30)

	late, err := svc.AddDebtTransaction(ctx, debt.CreateParams{CustomerID: 1, Amount: dec("50"), DueDate: &past})
	require.NoError(t, err)

	_, err = svc.AddDebtTransaction(ctx, debt.CreateParams{CustomerID: 1, Amount: dec("20"), DueDate: &future})
	require.NoError(t, err)

	overdue, err := svc.Overdue(ctx)
	require.NoError(t, err)
	assert.Len(t, overdue, 1, "derived predicate sees the debt before any sweep")

	n, err := svc.MarkOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.MarkOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	assert.Equal(t, debt.StatusOverdue, mem.snapshot(late.ID).Status)

	count, err := svc.CountOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteDebtWithPayments(t *testing.T) {
	mem := newMemDebts()
	svc := debt.NewService(mem).WithClock(fixedClock)
	ctx := context.Background()

	credit, err := svc.AddDebtTransaction(ctx, debt.CreateParams{CustomerID: 1, Amount: dec("10")})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, debt.PaymentParams{DebtID: credit.ID, Amount: dec("5")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, credit.ID), debt.ErrHasPayments)
	assert.ErrorIs(t, svc.Delete(ctx, 999), debt.ErrNotFound)
}

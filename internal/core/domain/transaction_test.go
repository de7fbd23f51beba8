package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailsuite/finance-ledger/internal/core/domain"
)

func TestFormatTransactionNumber(t *testing.T) {
	assert.Equal(t, "TRX-2025-001", domain.FormatTransactionNumber(2025, 1))
	assert.Equal(t, "TRX-2025-042", domain.FormatTransactionNumber(2025, 42))
	// The sequence widens past three digits instead of wrapping.
	assert.Equal(t, "TRX-2026-1205", domain.FormatTransactionNumber(2026, 1205))
}

func TestParseTransactionNumber(t *testing.T) {
	seq, err := domain.ParseTransactionNumber("TRX-2025-007")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)

	seq, err = domain.ParseTransactionNumber("TRX-2026-1205")
	require.NoError(t, err)
	assert.Equal(t, int64(1205), seq)

	_, err = domain.ParseTransactionNumber("INV-2025-007")
	assert.Error(t, err)

	_, err = domain.ParseTransactionNumber("TRX-2025")
	assert.Error(t, err)

	_, err = domain.ParseTransactionNumber("TRX-2025-abc")
	assert.Error(t, err)
}

func TestBalanceDelta(t *testing.T) {
	amount := decimal.NewFromFloat(150.25)

	income := domain.FinanceTransaction{TransactionType: domain.TxnIncome, Amount: amount}
	assert.True(t, income.BalanceDelta().Equal(amount))
	assert.True(t, income.ReversalDelta().Equal(amount.Neg()))

	expense := domain.FinanceTransaction{TransactionType: domain.TxnExpense, Amount: amount}
	assert.True(t, expense.BalanceDelta().Equal(amount.Neg()))
	assert.True(t, expense.ReversalDelta().Equal(amount))
}

func TestReversalDeltaIsNeutral(t *testing.T) {
	txn := domain.FinanceTransaction{TransactionType: domain.TxnIncome, Amount: decimal.NewFromInt(500)}
	sum := txn.BalanceDelta().Add(txn.ReversalDelta())
	assert.True(t, sum.IsZero())
}

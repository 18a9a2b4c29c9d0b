package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
)

func TestRunInTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		require.NoError(t, tx.Accounts().SaveAccount(ctx, domain.Account{AccountID: "a1", Code: "1000"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		_, err := tx.Accounts().FindAccountByID(ctx, "a1")
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		return tx.Accounts().SaveAccount(ctx, domain.Account{AccountID: "a1", Code: "1000", Balance: decimal.Zero})
	}))

	require.NoError(t, store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		acc, err := tx.Accounts().FindAccountByCode(ctx, "1000")
		require.NoError(t, err)
		assert.Equal(t, "a1", acc.AccountID)
		return nil
	}))
}

func TestSaveAccount_DuplicateCode(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		require.NoError(t, tx.Accounts().SaveAccount(ctx, domain.Account{AccountID: "a1", Code: "1000"}))
		return tx.Accounts().SaveAccount(ctx, domain.Account{AccountID: "a2", Code: "1000"})
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestSaveStockLevel_VersionCheck(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		level, err := tx.Stock().LockStockLevel(ctx, "p1", "w1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), level.Version)

		level.Version = 1
		require.NoError(t, tx.Stock().SaveStockLevel(ctx, *level, 0))
		return tx.Stock().SaveStockLevel(ctx, *level, 0)
	})
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
}

func TestAppendEntry_AssignsSequence(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		require.NoError(t, tx.Stock().AppendEntry(ctx, domain.StockLedgerEntry{EntryID: "e1", ProductID: "p1", WarehouseID: "w1"}))
		require.NoError(t, tx.Stock().AppendEntry(ctx, domain.StockLedgerEntry{EntryID: "e2", ProductID: "p1", WarehouseID: "w1"}))

		entries, err := tx.Stock().ListEntries(ctx, "p1", "w1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Less(t, entries[0].Sequence, entries[1].Sequence)

		latest, err := tx.Stock().LatestEntryID(ctx, "p1", "w1")
		require.NoError(t, err)
		assert.Equal(t, "e2", latest)
		return nil
	}))
}

func TestUpdatePaymentStatus_RequiresFromStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		require.NoError(t, tx.Payments().SavePayment(ctx, domain.Payment{PaymentID: "pay1", Status: domain.PaymentCompleted}))
		require.NoError(t, tx.Payments().UpdatePaymentStatus(ctx, "pay1", domain.PaymentCompleted, domain.PaymentRefunded, "u", time.Now()))
		return tx.Payments().UpdatePaymentStatus(ctx, "pay1", domain.PaymentCompleted, domain.PaymentRefunded, "u", time.Now())
	})
	assert.ErrorIs(t, err, apperrors.ErrConcurrentModification)
}

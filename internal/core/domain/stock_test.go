package domain_test

import (
	"testing"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestStockLevel_ApplyMovement(t *testing.T) {
	tests := []struct {
		name    string
		level   domain.StockLevel
		qty     decimal.Decimal
		rate    decimal.Decimal
		wantQty string
		wantAvg string
	}{
		{
			name:    "first receipt sets the average",
			level:   domain.StockLevel{Quantity: decimal.Zero, AverageCost: decimal.Zero},
			qty:     d("10"),
			rate:    d("4.00"),
			wantQty: "10",
			wantAvg: "4",
		},
		{
			name:    "receipt re-averages",
			level:   domain.StockLevel{Quantity: d("10"), AverageCost: d("4")},
			qty:     d("10"),
			rate:    d("6"),
			wantQty: "20",
			wantAvg: "5",
		},
		{
			name:    "issue keeps the average",
			level:   domain.StockLevel{Quantity: d("20"), AverageCost: d("5")},
			qty:     d("-7"),
			rate:    d("99"),
			wantQty: "13",
			wantAvg: "5",
		},
		{
			name:    "receipt into negative stock takes the receipt rate",
			level:   domain.StockLevel{Quantity: d("-2"), AverageCost: d("3")},
			qty:     d("5"),
			rate:    d("7"),
			wantQty: "3",
			wantAvg: "7",
		},
		{
			name:    "average is rounded to four places",
			level:   domain.StockLevel{Quantity: d("3"), AverageCost: d("1")},
			qty:     d("3"),
			rate:    d("1.00005"),
			wantQty: "6",
			wantAvg: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, avg := tt.level.ApplyMovement(tt.qty, tt.rate)
			assert.True(t, qty.Equal(d(tt.wantQty)), "qty got %s", qty)
			assert.True(t, avg.Equal(d(tt.wantAvg)), "avg got %s", avg)
		})
	}
}

func TestReplayStockLevel(t *testing.T) {
	entries := []domain.StockLedgerEntry{
		{EntryID: "e1", Qty: d("10"), ValuationRate: d("4")},
		{EntryID: "e2", Qty: d("10"), ValuationRate: d("6")},
		{EntryID: "e3", Qty: d("-5"), ValuationRate: d("5")},
	}

	level := domain.ReplayStockLevel("p1", "w1", entries)

	assert.Equal(t, "p1", level.ProductID)
	assert.Equal(t, "w1", level.WarehouseID)
	assert.True(t, level.Quantity.Equal(d("15")))
	assert.True(t, level.AverageCost.Equal(d("5")))
	assert.True(t, level.StockValue.Equal(d("75")))
	assert.Equal(t, "e3", level.LastEntryID)
	assert.False(t, level.IsStale("e3"))
	assert.True(t, level.IsStale("e4"))
}

func TestReplayStockLevel_Empty(t *testing.T) {
	level := domain.ReplayStockLevel("p1", "w1", nil)
	assert.True(t, level.Quantity.IsZero())
	assert.Empty(t, level.LastEntryID)
}

func TestParseStockEntryType(t *testing.T) {
	et, err := domain.ParseStockEntryType("STOCK_RECONCILIATION")
	assert.NoError(t, err)
	assert.True(t, et.AllowNegativeStock)

	et, err = domain.ParseStockEntryType("SALE_ISSUE")
	assert.NoError(t, err)
	assert.False(t, et.AllowNegativeStock)

	_, err = domain.ParseStockEntryType("TELEPORT")
	assert.Error(t, err)
}

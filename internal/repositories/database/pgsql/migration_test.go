package pgsql

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/settlement_app/internal/core/domain"
)

var (
	createTableRe = regexp.MustCompile(`^CREATE TABLE (?:IF NOT EXISTS )?(\w+)`)
	numericColRe  = regexp.MustCompile(`^\s*(\w+)\s+NUMERIC\(\d+,\s*(\d+)\)`)
)

// numericScales returns table.column -> scale for every NUMERIC column in the init migration.
func numericScales(t *testing.T) map[string]int32 {
	t.Helper()
	f, err := os.Open("../../../../migrations/000001_init.up.sql")
	require.NoError(t, err)
	defer f.Close()

	scales := make(map[string]int32)
	table := ""
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if m := createTableRe.FindStringSubmatch(line); m != nil {
			table = m[1]
			continue
		}
		if m := numericColRe.FindStringSubmatch(line); m != nil {
			scale, err := strconv.Atoi(m[2])
			require.NoError(t, err)
			scales[table+"."+m[1]] = int32(scale)
		}
	}
	require.NoError(t, sc.Err())
	return scales
}

func TestInitMigration_NumericScalesMatchDomain(t *testing.T) {
	scales := numericScales(t)

	want := map[string]int32{
		"accounts.balance":                        domain.MoneyScale,
		"journal_lines.amount":                    domain.MoneyScale,
		"journal_lines.running_balance":           domain.MoneyScale,
		"stock_ledger_entries.qty":                domain.RateScale,
		"stock_ledger_entries.valuation_rate":     domain.RateScale,
		"stock_ledger_entries.stock_value":        domain.RateScale,
		"stock_ledger_entries.average_cost_after": domain.RateScale,
		"stock_levels.quantity":                   domain.RateScale,
		"stock_levels.average_cost":               domain.RateScale,
		"stock_levels.stock_value":                domain.RateScale,
		"sales.subtotal":                          domain.MoneyScale,
		"sales.total":                             domain.MoneyScale,
		"sale_items.quantity":                     domain.RateScale,
		"sale_items.unit_price":                   domain.RateScale,
		"sale_items.tax_rate":                     domain.RateScale,
		"sale_items.unit_cost":                    domain.RateScale,
		"payments.amount":                         domain.MoneyScale,
	}
	for col, scale := range want {
		got, ok := scales[col]
		if assert.True(t, ok, "column %s not found", col) {
			assert.Equal(t, scale, got, "scale of %s", col)
		}
	}
}


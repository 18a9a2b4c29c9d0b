package services_test

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/core/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/platform/config"
	"github.com/SscSPs/settlement_app/internal/platform/locker"
	"github.com/SscSPs/settlement_app/internal/repositories/memory"
)

const (
	testUser      = "tester"
	testWarehouse = "WH-1"
	testCurrency  = "USD"
)

var testCodes = config.AccountCodes{
	Cash:       "1000",
	Receivable: "1100",
	Inventory:  "1200",
	TaxPayable: "2100",
	Revenue:    "4000",
	COGS:       "5000",
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledgerSuite wires every service against an in-memory store seeded with the
// settlement chart of accounts. It carries no tests of its own.
type ledgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer

	receipts int
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.receipts = 0
	cfg := &config.Config{
		DefaultCashbookID: "MAIN",
		Accounts:          testCodes,
	}
	s.svc = services.NewServiceContainer(cfg, portsrepo.RepositoryProvider{TxManager: s.store}, locker.NewLocal())

	for _, a := range []struct{ code, name, typ string }{
		{testCodes.Cash, "Cash", "ASSET"},
		{testCodes.Receivable, "Accounts Receivable", "ASSET"},
		{testCodes.Inventory, "Inventory", "ASSET"},
		{testCodes.TaxPayable, "Sales Tax Payable", "LIABILITY"},
		{testCodes.Revenue, "Sales Revenue", "REVENUE"},
		{testCodes.COGS, "Cost of Goods Sold", "EXPENSE"},
		{"3000", "Owner Equity", "EQUITY"},
	} {
		_, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
			Code:         a.code,
			Name:         a.name,
			AccountType:  a.typ,
			CurrencyCode: testCurrency,
		}, testUser)
		s.Require().NoError(err)
	}
}

func (s *ledgerSuite) account(code string) *domain.Account {
	acc, err := s.svc.Account.GetAccountByCode(s.ctx, code)
	s.Require().NoError(err)
	return acc
}

func (s *ledgerSuite) balance(code string) decimal.Decimal {
	return s.account(code).Balance
}

func (s *ledgerSuite) assertBalance(code, want string) {
	s.True(d(want).Equal(s.balance(code)), "account %s: want %s, got %s", code, want, s.balance(code))
}

func (s *ledgerSuite) assertDecimal(want string, got decimal.Decimal) {
	s.True(d(want).Equal(got), "want %s, got %s", want, got.String())
}

// assertLedgerBalanced checks that debit-normal balances equal credit-normal balances.
func (s *ledgerSuite) assertLedgerBalanced() {
	debits, credits := decimal.Zero, decimal.Zero
	for _, code := range []string{testCodes.Cash, testCodes.Receivable, testCodes.Inventory, testCodes.TaxPayable, testCodes.Revenue, testCodes.COGS, "3000"} {
		acc := s.account(code)
		if acc.NormalBalance == domain.Debit {
			debits = debits.Add(acc.Balance)
		} else {
			credits = credits.Add(acc.Balance)
		}
	}
	s.True(debits.Equal(credits), "debit-normal total %s != credit-normal total %s", debits, credits)
}

func (s *ledgerSuite) post(ref string, lines ...dto.PostingLineRequest) (*domain.Journal, error) {
	return s.svc.Journal.Post(s.ctx, dto.PostJournalRequest{
		ReferenceNumber: ref,
		CurrencyCode:    testCurrency,
		Lines:           lines,
	}, testUser)
}

func (s *ledgerSuite) line(code string, side domain.TransactionType, amount string) dto.PostingLineRequest {
	return dto.PostingLineRequest{AccountID: s.account(code).AccountID, Side: string(side), Amount: d(amount)}
}

// receive books opening stock and the matching Dr Inventory / Cr Equity entry.
func (s *ledgerSuite) receive(productID, qty, rate string) {
	s.receipts++
	ref := fmt.Sprintf("OPEN-%s-%d", productID, s.receipts)

	_, err := s.svc.Stock.RecordMovement(s.ctx, dto.RecordMovementRequest{
		ProductID:     productID,
		WarehouseID:   testWarehouse,
		QtyDelta:      d(qty),
		ValuationRate: d(rate),
		VoucherType:   string(domain.VoucherOpening),
		VoucherNo:     ref,
		EntryType:     domain.EntryTypeMaterialReceipt.Code,
	}, testUser)
	s.Require().NoError(err)

	value := domain.RoundMoney(d(qty).Mul(d(rate))).StringFixed(domain.MoneyScale)
	_, err = s.post(ref,
		s.line(testCodes.Inventory, domain.Debit, value),
		s.line("3000", domain.Credit, value))
	s.Require().NoError(err)
}

func (s *ledgerSuite) onHand(productID string) decimal.Decimal {
	qty, err := s.svc.Stock.CurrentQuantity(s.ctx, productID, testWarehouse)
	s.Require().NoError(err)
	return qty
}

func (s *ledgerSuite) draftSale(mode domain.PaymentMode, items ...dto.SaleItemRequest) *domain.Sale {
	sale, err := s.svc.Sale.CreateSale(s.ctx, dto.CreateSaleRequest{
		WarehouseID:  testWarehouse,
		CurrencyCode: testCurrency,
		PaymentMode:  string(mode),
		Items:        items,
	}, testUser)
	s.Require().NoError(err)
	return sale
}

func item(productID, qty, price, taxRate string) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, Quantity: d(qty), UnitPrice: d(price), TaxRate: d(taxRate)}
}

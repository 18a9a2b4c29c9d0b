package accounting

import (
	"fmt"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the balance delta a line applies to an account.
// A line on the account's normal side increases the balance, the other side decreases it.
func SignedAmount(line domain.JournalLine, normalBalance domain.TransactionType) (decimal.Decimal, error) {
	switch normalBalance {
	case domain.Debit, domain.Credit:
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown normal balance '%s' for account %s", apperrors.ErrDataIntegrity, normalBalance, line.AccountID)
	}
	if line.Side == normalBalance {
		return line.Amount, nil
	}
	return line.Amount.Neg(), nil
}

// ValidateJournalBalance checks the structural rules of a posting: at least two
// lines, positive amounts, and debits equal to credits using exact decimal arithmetic.
func ValidateJournalBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal must have at least two lines", apperrors.ErrValidation)
	}

	debits, credits := decimal.Zero, decimal.Zero
	for i, line := range lines {
		if !line.Amount.IsPositive() {
			return fmt.Errorf("%w: line %d amount must be positive, got %s", apperrors.ErrValidation, i+1, line.Amount.String())
		}
		switch line.Side {
		case domain.Debit:
			debits = debits.Add(line.Amount)
		case domain.Credit:
			credits = credits.Add(line.Amount)
		default:
			return fmt.Errorf("%w: line %d has unknown side %q", apperrors.ErrValidation, i+1, line.Side)
		}
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s", apperrors.ErrUnbalancedEntry, debits.String(), credits.String())
	}
	return nil
}

// BalanceChanges aggregates the signed delta per account for a set of lines.
func BalanceChanges(lines []domain.JournalLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, apperrors.NewNotFoundError("account", line.AccountID)
		}
		delta, err := SignedAmount(line, acc.NormalBalance)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

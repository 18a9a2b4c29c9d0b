package domain

import (
	"fmt"

	"github.com/SscSPs/settlement_app/internal/apperrors"
)

// TransactionType indicates whether a journal line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// ParseTransactionType converts a raw value into a TransactionType, rejecting unknown values.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case Debit, Credit:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, s)
}

// Opposite returns the other side.
func (t TransactionType) Opposite() TransactionType {
	if t == Debit {
		return Credit
	}
	return Debit
}

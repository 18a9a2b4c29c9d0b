package dto

import (
	"time"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new ledger account.
type CreateAccountRequest struct {
	Code            string `json:"code" binding:"required,max=32"`
	Name            string `json:"name" binding:"required"`
	AccountType     string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance   string `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // defaults from the account type
	CurrencyCode    string `json:"currencyCode" binding:"required,iso4217"`
	ParentAccountID string `json:"parentAccountID"`
	IsGroup         bool   `json:"isGroup"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	NormalBalance   string             `json:"normalBalance"`
	CurrencyCode    string             `json:"currencyCode"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	IsGroup         bool               `json:"isGroup"`
	Lifecycle       string             `json:"lifecycle"`
	Balance         decimal.Decimal    `json:"balance"`
	Version         int64              `json:"version"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		NormalBalance:   string(acc.NormalBalance),
		CurrencyCode:    acc.CurrencyCode,
		ParentAccountID: acc.ParentAccountID,
		IsGroup:         acc.IsGroup,
		Lifecycle:       string(acc.Lifecycle),
		Balance:         acc.Balance,
		Version:         acc.Version,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

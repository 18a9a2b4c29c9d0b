package mapping

import (
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		NormalBalance:   string(d.NormalBalance),
		CurrencyCode:    d.CurrencyCode,
		ParentAccountID: Nullable(d.ParentAccountID),
		IsGroup:         d.IsGroup,
		Lifecycle:       string(d.Lifecycle),
		Balance:         d.Balance,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
// Unknown enum values yield apperrors.ErrDataIntegrity.
func ToDomainAccount(m models.Account) (domain.Account, error) {
	accountType, err := domain.ParseAccountType(m.AccountType)
	if err != nil {
		return domain.Account{}, integrityError("account", m.AccountID, err)
	}
	normalBalance, err := domain.ParseTransactionType(m.NormalBalance)
	if err != nil {
		return domain.Account{}, integrityError("account", m.AccountID, err)
	}
	lifecycle, err := domain.ParseLifecycle(m.Lifecycle)
	if err != nil {
		return domain.Account{}, integrityError("account", m.AccountID, err)
	}
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     accountType,
		NormalBalance:   normalBalance,
		CurrencyCode:    m.CurrencyCode,
		ParentAccountID: Deref(m.ParentAccountID),
		IsGroup:         m.IsGroup,
		Lifecycle:       lifecycle,
		Balance:         m.Balance,
		Version:         m.Version,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

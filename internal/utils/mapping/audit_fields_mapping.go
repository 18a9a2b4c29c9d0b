package mapping

import (
	"fmt"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/models"
)

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// Nullable maps "" to NULL.
func Nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref maps NULL to "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// integrityError marks a stored value the domain does not recognise.
func integrityError(entity, id string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", apperrors.ErrDataIntegrity, entity, id, err)
}

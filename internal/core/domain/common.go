package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/settlement_app/internal/apperrors"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps both the created and updated pairs.
func NewAuditFields(actorID string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     actorID,
		LastUpdatedAt: at,
		LastUpdatedBy: actorID,
	}
}

// Touch records an update by actorID.
func (a *AuditFields) Touch(actorID string, at time.Time) {
	a.LastUpdatedAt = at
	a.LastUpdatedBy = actorID
}

// Lifecycle replaces the usual soft-delete flags on master data.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "ACTIVE"
	LifecycleDisabled Lifecycle = "DISABLED"
	LifecycleDeleted  Lifecycle = "DELETED"
)

// ParseLifecycle converts a stored value, rejecting anything unknown.
func ParseLifecycle(s string) (Lifecycle, error) {
	switch l := Lifecycle(s); l {
	case LifecycleActive, LifecycleDisabled, LifecycleDeleted:
		return l, nil
	}
	return "", fmt.Errorf("%w: unknown lifecycle %q", apperrors.ErrValidation, s)
}

// CanTransitionTo reports whether the lifecycle may move to next.
// DELETED is terminal.
func (l Lifecycle) CanTransitionTo(next Lifecycle) bool {
	switch l {
	case LifecycleActive:
		return next == LifecycleDisabled || next == LifecycleDeleted
	case LifecycleDisabled:
		return next == LifecycleDeleted
	}
	return false
}

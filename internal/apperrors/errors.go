package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal is returned for failures the caller cannot act on.
var ErrInternal = errors.New("internal error")

// ErrDataIntegrity indicates a stored value could not be interpreted, e.g. an unknown enum.
var ErrDataIntegrity = errors.New("stored data failed integrity check")

// ErrAccountInUse is returned when deleting an account that has postings.
var ErrAccountInUse = errors.New("account has postings and cannot be deleted")

var (
	// ErrUnbalancedEntry: journal lines do not net to zero.
	ErrUnbalancedEntry = errors.New("journal entry is not balanced")
	// ErrNotPosted: only POSTED journal entries can be reversed.
	ErrNotPosted = errors.New("journal entry is not posted")
	// ErrInsufficientStock: the movement would drive on-hand quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrSaleNotDraft: the sale is no longer in DRAFT.
	ErrSaleNotDraft = errors.New("sale is not in draft status")
	// ErrSaleNotCompleted: the sale is not in COMPLETED.
	ErrSaleNotCompleted = errors.New("sale is not completed")
	// ErrConcurrentModification: an optimistic version check or lock acquisition lost a race.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error wrapping ErrNotFound for the given resource.
func NewNotFoundError(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// InsufficientStockError reports the pair and quantities that failed the stock check.
// errors.Is(err, ErrInsufficientStock) holds for it.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s in warehouse %s has %s, requested %s",
		ErrInsufficientStock.Error(), e.ProductID, e.WarehouseID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

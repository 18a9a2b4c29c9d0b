package pgsql

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/settlement_app/internal/apperrors"
)

func TestMapPgError(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{pgUniqueViolation, apperrors.ErrDuplicate},
		{pgForeignKeyViolation, apperrors.ErrValidation},
		{pgCheckViolation, apperrors.ErrValidation},
		{pgSerializationFailure, apperrors.ErrConcurrentModification},
		{pgDeadlockDetected, apperrors.ErrConcurrentModification},
		{pgLockNotAvailable, apperrors.ErrConcurrentModification},
	}
	for _, tc := range cases {
		err := mapPgError(&pgconn.PgError{Code: tc.code}, "op")
		assert.ErrorIs(t, err, tc.want, tc.code)
	}

	plain := errors.New("connection reset")
	err := mapPgError(plain, "op")
	assert.ErrorIs(t, err, plain)
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestExpectOne(t *testing.T) {
	assert.NoError(t, expectOne(pgconn.NewCommandTag("UPDATE 1"), "row"))
	assert.ErrorIs(t, expectOne(pgconn.NewCommandTag("UPDATE 0"), "row"), apperrors.ErrConcurrentModification)
}

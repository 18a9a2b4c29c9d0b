package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestNewDocumentNumber(t *testing.T) {
	at := time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)
	a, err := NewDocumentNumber("S", at)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^S-20240131-[0-9A-F]{8}$`), a)

	b, err := NewDocumentNumber("S", at)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

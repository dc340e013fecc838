package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianyyz/ShareRidesV2Server/internal/apperr"
)

func TestNew(t *testing.T) {
	err := apperr.New(apperr.CodeRideDateInPast, "date is in the past")

	assert.Equal(t, apperr.CodeRideDateInPast, err.Code)
	assert.Equal(t, "code 601: date is in the past", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Wrap(apperr.CodeRequestLookupFailed, "lookup failed", cause)

	assert.Equal(t, "code 804: lookup failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	inner := apperr.New(apperr.CodeRequestNoSeats, "no seats")
	wrapped := fmt.Errorf("create request: %w", inner)

	var aerr *apperr.Error
	require.ErrorAs(t, wrapped, &aerr)
	assert.Equal(t, apperr.CodeRequestNoSeats, aerr.Code)
}

package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianyyz/ShareRidesV2Server/internal/apperr"
	"github.com/brianyyz/ShareRidesV2Server/internal/models"
	"github.com/brianyyz/ShareRidesV2Server/internal/services"
)

func TestValidateRideFields(t *testing.T) {
	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		ride     models.Ride
		wantCode int
	}{
		{
			name: "valid ride passes",
			ride: models.Ride{RideDate: future, SeatsInCar: 3},
		},
		{
			name:     "date in the past",
			ride:     models.Ride{RideDate: now.Add(-time.Minute), SeatsInCar: 3},
			wantCode: apperr.CodeRideDateInPast,
		},
		{
			name:     "zero seats",
			ride:     models.Ride{RideDate: future, SeatsInCar: 0},
			wantCode: apperr.CodeRideTooFewSeats,
		},
		{
			name:     "negative seats",
			ride:     models.Ride{RideDate: future, SeatsInCar: -1},
			wantCode: apperr.CodeRideTooFewSeats,
		},
		{
			name:     "too many seats",
			ride:     models.Ride{RideDate: future, SeatsInCar: 6},
			wantCode: apperr.CodeRideTooManySeats,
		},
		{
			name: "boundary seats pass",
			ride: models.Ride{RideDate: future, SeatsInCar: 5},
		},
		{
			name: "ride exactly now passes",
			ride: models.Ride{RideDate: now, SeatsInCar: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateRideFields(&tt.ride, now, 1, 5)
			if tt.wantCode == 0 {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantCode, err.Code)
		})
	}
}

// The date rule outranks the seat rules when both are violated.
func TestValidateRideFields_DateWinsOverSeats(t *testing.T) {
	now := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	ride := models.Ride{RideDate: now.Add(-time.Hour), SeatsInCar: 0}

	err := services.ValidateRideFields(&ride, now, 1, 5)

	require.NotNil(t, err)
	assert.Equal(t, apperr.CodeRideDateInPast, err.Code)
}

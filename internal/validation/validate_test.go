package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/gasflow/internal/model"
)

type sampleRequest struct {
	Address  string `json:"address" validate:"notblank"`
	Date     string `json:"scheduled_date" validate:"required,date"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	DriverID string `json:"driver_id" validate:"omitempty,uuid"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  sampleRequest{Address: "Calle 1", Date: "2026-02-16", Quantity: 2},
		},
		{
			name:    "blank address",
			req:     sampleRequest{Address: "  ", Date: "2026-02-16", Quantity: 2},
			wantErr: "address is required",
		},
		{
			name:    "bad date",
			req:     sampleRequest{Address: "a", Date: "16/02/2026", Quantity: 2},
			wantErr: "scheduled_date must be a date in YYYY-MM-DD format",
		},
		{
			name:    "zero quantity",
			req:     sampleRequest{Address: "a", Date: "2026-02-16"},
			wantErr: "quantity must be greater than 0",
		},
		{
			name:    "bad uuid",
			req:     sampleRequest{Address: "a", Date: "2026-02-16", Quantity: 1, DriverID: "x"},
			wantErr: "driver_id must be a UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, model.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2026-02-16")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("date", "2026-13-01")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("date", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseOptionalDate("date", "2026-02-18")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 18, d.Day())

	_, err = ParseOptionalDate("date", "tomorrow")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestParseUUID(t *testing.T) {
	_, err := ParseUUID("id", "not-a-uuid")
	assert.ErrorIs(t, err, model.ErrValidation)

	id, err := ParseUUID("id", " 3f1c2b8e-6a0f-4c1e-9d2e-1b2c3d4e5f60 ")
	require.NoError(t, err)
	assert.Equal(t, "3f1c2b8e-6a0f-4c1e-9d2e-1b2c3d4e5f60", id.String())
}

package validation

import (
	"errors"
	"testing"

	"studysmarter/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity int64  `json:"capacity" validate:"gt=0"`
	Kind     string `json:"kind" validate:"omitempty,oneof=image video audio"`
}

func TestStruct(t *testing.T) {
	msgs := Messages{
		"name.required": "Study room name cannot be empty",
		"capacity.gt":   "Capacity must be greater than zero",
	}

	tests := []struct {
		name    string
		req     roomRequest
		wantMsg string
	}{
		{name: "valid", req: roomRequest{Name: "Math", Capacity: 3}},
		{name: "empty name", req: roomRequest{Capacity: 3}, wantMsg: "Study room name cannot be empty"},
		{name: "zero capacity", req: roomRequest{Name: "Math"}, wantMsg: "Capacity must be greater than zero"},
		{name: "negative capacity", req: roomRequest{Name: "Math", Capacity: -1}, wantMsg: "Capacity must be greater than zero"},
		{name: "unregistered rule", req: roomRequest{Name: "Math", Capacity: 1, Kind: "pdf"}, wantMsg: "Invalid value for kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req, msgs)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, models.CodeValidation, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestStruct_FieldLevelFallbackMessage(t *testing.T) {
	err := Struct(roomRequest{Name: "Math", Capacity: 1, Kind: "pdf"}, Messages{"kind": "Invalid media type"})
	require.Error(t, err)
	assert.Equal(t, "Invalid media type", err.(*models.AppError).Message)
}

package listshape

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID int64 `json:"id"`
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLen   int
		wantTotal int
	}{
		{"data with total", `{"data":[{"id":1},{"id":2}],"total":50}`, 2, 50},
		{"data without total", `{"data":[{"id":1}]}`, 1, 1},
		{"items", `{"items":[{"id":1},{"id":2},{"id":3}]}`, 3, 3},
		{"bare array", `[{"id":1},{"id":2}]`, 2, 2},
		{"empty data", `{"data":[],"total":0}`, 0, 0},
		{"empty bare array", `[]`, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, total, err := Normalize[item](json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Len(t, data, tt.wantLen)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestNormalizeRejectsNonList(t *testing.T) {
	_, _, err := Normalize[item](json.RawMessage(`{"id":1}`))
	assert.Error(t, err)
}

func TestNormalizePrefersDataOverItems(t *testing.T) {
	data, total, err := Normalize[item](json.RawMessage(`{"data":[{"id":1}],"items":[{"id":2},{"id":3}],"total":1}`))
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, int64(1), data[0].ID)
	assert.Equal(t, 1, total)
}

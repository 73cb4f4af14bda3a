// Package listshape normalizes the list payload shapes the backend has
// shipped over time ({data,total}, {items}, and a bare array) into one
// data-plus-total pair.
package listshape

import (
	"encoding/json"
	"fmt"
)

func Normalize[T any](raw json.RawMessage) ([]T, int, error) {
	var envelope struct {
		Data  []T  `json:"data"`
		Items []T  `json:"items"`
		Total *int `json:"total"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && (envelope.Data != nil || envelope.Items != nil) {
		data := envelope.Data
		if data == nil {
			data = envelope.Items
		}
		total := len(data)
		if envelope.Total != nil {
			total = *envelope.Total
		}
		return data, total, nil
	}

	var bare []T
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, 0, fmt.Errorf("failed to decode list payload: %w", err)
	}
	return bare, len(bare), nil
}

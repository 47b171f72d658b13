package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type request struct {
	Name   string `json:"name" validate:"required"`
	Effort *int   `json:"perceived_effort" validate:"omitempty,min=1,max=10"`
	Kind   string `json:"kind" validate:"omitempty,oneof=time weight"`
}

func intPtr(n int) *int { return &n }

// TestStruct verifies failures name fields by their JSON key and match ErrInvalid.
func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   request
		want []string
	}{
		{"valid", request{Name: "x", Effort: intPtr(5)}, nil},
		{"missing name", request{}, []string{"name is required"}},
		{"effort too high", request{Name: "x", Effort: intPtr(11)}, []string{"perceived_effort must be at most 10"}},
		{"every failure", request{Effort: intPtr(0), Kind: "pace"}, []string{
			"name is required", "perceived_effort must be at least 1", "kind must be one of: time weight",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Struct(%+v) = %v, want ErrInvalid", tt.in, err)
			}
			for _, msg := range tt.want {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

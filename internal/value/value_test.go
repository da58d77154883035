// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package value

import (
	"testing"
)

type handle struct{ name string }

// compare by identity, not by content
func (h *handle) Equal(other *handle) bool { return h == other }

func TestEqual(t *testing.T) {
	t.Parallel()

	a, b := &handle{"x"}, &handle{"x"}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"int equal", Equal(1, 1), true},
		{"int differ", Equal(1, 2), false},
		{"string", Equal("EE", "EE"), true},
		{"slice deep", Equal([]string{"a"}, []string{"a"}), true},
		{"equaler same", Equal(a, a), true},
		{"equaler identity", Equal(a, b), false},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s, want %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}

func TestIsZero(t *testing.T) {
	t.Parallel()

	var nilHandle *handle

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"0", IsZero(0), true},
		{"1", IsZero(1), false},
		{"false", IsZero(false), true},
		{"true", IsZero(true), false},
		{"empty string", IsZero(""), true},
		{"nil pointer", IsZero(nilHandle), true},
		{"pointer", IsZero(&handle{}), false},
		{"nil any", IsZero[any](nil), true},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s, want %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}

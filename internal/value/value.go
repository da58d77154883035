// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package value compares generic trie payloads at runtime.
//
// Two sibling leaves are only aggregated into their parent when their
// payloads are equal. Payload types may decide their own equality by
// implementing Equaler, e.g. metadata handles that compare by identity.
// Everything else falls back to reflect.DeepEqual.
package value

import (
	"reflect"
)

// Equaler is a generic interface for types that can decide their own
// equality logic. It can be used to override the potentially expensive
// default comparison with [reflect.DeepEqual].
type Equaler[V any] interface {
	Equal(other V) bool
}

// Equal compares two values of type V for equality.
// If V implements Equaler[V], that custom equality method is used,
// avoiding the potentially expensive reflect.DeepEqual.
// Otherwise, reflect.DeepEqual is used as a fallback.
func Equal[V any](v1, v2 V) bool {
	// you can't assert directly on a type parameter
	if v1, ok := any(v1).(Equaler[V]); ok {
		return v1.Equal(v2)
	}
	// fallback
	return reflect.DeepEqual(v1, v2)
}

// IsZero reports whether v is the zero value of V.
// Zero values mark an empty payload and never aggregate.
func IsZero[V any](v V) bool {
	return reflect.ValueOf(&v).Elem().IsZero()
}

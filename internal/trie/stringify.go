// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package trie

import (
	"fmt"
	"io"
	"net/netip"
	"strings"
)

// String returns the entries as a sorted list, just a wrapper for
// [Trie.Fprint]. If Fprint returns an error, String panics.
func (t *Trie[V]) String() string {
	w := new(strings.Builder)
	if err := t.Fprint(w); err != nil {
		panic(err)
	}

	return w.String()
}

// Fprint writes the entries in ascending order with default formatted
// payload V to w. Entries never nest, the list is flat.
//
//	▼
//	├─ 10.0.0.0/24 (V)
//	├─ 10.0.1.0/25 (V)
//	└─ 192.168.0.0/16 (V)
func (t *Trie[V]) Fprint(w io.Writer) error {
	if t.root.isEmpty() {
		return nil
	}

	if _, err := fmt.Fprint(w, "▼\n"); err != nil {
		return err
	}

	// one lookahead, the last entry gets a different glyph
	var (
		prev    netip.Prefix
		prevVal V
		werr    error
	)

	err := t.Walk(func(pfx netip.Prefix, val V) bool {
		if prev.IsValid() {
			if _, werr = fmt.Fprintf(w, "├─ %s (%v)\n", prev, prevVal); werr != nil {
				return false
			}
		}
		prev, prevVal = pfx, val
		return true
	})
	if err != nil {
		return err
	}
	if werr != nil {
		return werr
	}

	if prev.IsValid() {
		if _, err := fmt.Fprintf(w, "└─ %s (%v)\n", prev, prevVal); err != nil {
			return err
		}
	}

	return nil
}

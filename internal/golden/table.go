// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package golden provides a simple and slow reference for the
// binary prefix trie, implemented as a slice of prefixes.
package golden

import (
	"cmp"
	"fmt"
	"net/netip"
	"slices"

	"github.com/gaissmai/rirstat/internal/value"
)

// Table is a simple and slow prefix table with the same insert
// precedence and aggregation rules as the trie.
type Table[V any] []TableItem[V]

type TableItem[V any] struct {
	Pfx netip.Prefix
	Val V
}

func (g TableItem[V]) String() string {
	return fmt.Sprintf("(%s, %v)", g.Pfx, g.Val)
}

// Insert drops pfx if a shorter prefix already covers it, otherwise
// it removes all prefixes covered by pfx, pfx itself included, and
// appends pfx.
func (t *Table[V]) Insert(pfx netip.Prefix, val V) (inserted bool) {
	pfx = pfx.Masked()
	for _, item := range *t {
		if item.Pfx.Bits() < pfx.Bits() && item.Pfx.Contains(pfx.Addr()) {
			return false
		}
	}

	*t = slices.DeleteFunc(*t, func(item TableItem[V]) bool {
		return item.Pfx.Bits() >= pfx.Bits() && pfx.Contains(item.Pfx.Addr())
	})
	*t = append(*t, TableItem[V]{pfx, val})
	return true
}

// Merge replaces sibling prefixes with equal, non-zero values by
// their parent until nothing changes anymore.
func (t *Table[V]) Merge() {
	for changed := true; changed; {
		changed = false

		for i, item := range *t {
			if item.Pfx.Bits() == 0 || value.IsZero(item.Val) {
				continue
			}

			j := t.index(sibling(item.Pfx))
			if j < 0 || !value.Equal(item.Val, (*t)[j].Val) {
				continue
			}

			parent, _ := item.Pfx.Addr().Prefix(item.Pfx.Bits() - 1)
			(*t)[i] = TableItem[V]{parent, item.Val}
			*t = slices.Delete(*t, j, j+1)

			changed = true
			break
		}
	}
}

func (t Table[V]) index(pfx netip.Prefix) int {
	return slices.IndexFunc(t, func(item TableItem[V]) bool { return item.Pfx == pfx })
}

// sibling returns pfx with the last prefix bit flipped.
func sibling(pfx netip.Prefix) netip.Prefix {
	octets := pfx.Addr().AsSlice()
	last := pfx.Bits() - 1
	octets[last/8] ^= 0x80 >> (last % 8)

	addr, _ := netip.AddrFromSlice(octets)
	return netip.PrefixFrom(addr, pfx.Bits())
}

// Sort, inplace by netip.Prefix, all prefixes are in normalized form
func (t *Table[V]) Sort() {
	slices.SortFunc(*t, func(a, b TableItem[V]) int {
		return CmpPrefix(a.Pfx, b.Pfx)
	})
}

// AllSorted returns the prefixes in ascending order.
func (t Table[V]) AllSorted() []netip.Prefix {
	var result []netip.Prefix

	for _, item := range t {
		result = append(result, item.Pfx)
	}
	slices.SortFunc(result, CmpPrefix)
	return result
}

// Overlaps reports whether any two prefixes in the table overlap.
func (t Table[V]) Overlaps() bool {
	for i, a := range t {
		for _, b := range t[i+1:] {
			if a.Pfx.Overlaps(b.Pfx) {
				return true
			}
		}
	}
	return false
}

// CmpPrefix, helper function, compare func for prefix sort,
// all cidrs are already normalized
func CmpPrefix(a, b netip.Prefix) int {
	if cmpAddr := a.Addr().Compare(b.Addr()); cmpAddr != 0 {
		return cmpAddr
	}

	return cmp.Compare(a.Bits(), b.Bits())
}

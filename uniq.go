// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"fmt"
	"net/netip"

	"github.com/gaissmai/rirstat/internal/bitcodec"
	"github.com/gaissmai/rirstat/internal/trie"
)

// UniqPrefixes reduces pfxs to a non-overlapping set, IPv4 prefixes
// first, each family in ascending order. Prefixes covered by another
// prefix of the set vanish. With merge, adjacent prefixes are
// aggregated into their supernets.
//
// Host bits are masked, invalid prefixes return an error.
func UniqPrefixes(pfxs []netip.Prefix, merge bool) ([]netip.Prefix, error) {
	tries := [...]*trie.Trie[bool]{
		trie.New[bool](bitcodec.V4),
		trie.New[bool](bitcodec.V6),
	}

	for _, pfx := range pfxs {
		if !pfx.IsValid() {
			return nil, fmt.Errorf("invalid prefix %q", pfx)
		}

		t := tries[1]
		if bitcodec.FamilyOf(pfx) == bitcodec.V4 {
			t = tries[0]
		}

		if _, err := t.InsertPrefix(pfx.Masked(), true, trie.Silent); err != nil {
			return nil, err
		}
	}

	var out []netip.Prefix
	for _, t := range tries {
		if merge {
			if err := t.Merge(); err != nil {
				return nil, err
			}
		}

		err := t.Walk(func(pfx netip.Prefix, _ bool) bool {
			out = append(out, pfx)
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

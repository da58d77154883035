// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"math/rand/v2"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaissmai/rirstat/internal/golden"
	"github.com/gaissmai/rirstat/internal/tests/random"
)

func prefixes(ss ...string) []netip.Prefix {
	var out []netip.Prefix
	for _, s := range ss {
		out = append(out, mpp(s))
	}
	return out
}

func TestUniqPrefixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    []string
		merge bool
		want  []string
	}{
		{
			name: "empty",
		},
		{
			name: "covered",
			in:   []string{"10.0.0.0/24", "10.0.0.0/8", "10.1.0.0/16"},
			want: []string{"10.0.0.0/8"},
		},
		{
			name: "families",
			in:   []string{"2001:db8::/32", "192.168.0.0/16", "::/0", "10.0.0.0/8"},
			want: []string{"10.0.0.0/8", "192.168.0.0/16", "::/0"},
		},
		{
			name: "host bits",
			in:   []string{"10.0.0.1/24", "10.0.0.0/24"},
			want: []string{"10.0.0.0/24"},
		},
		{
			name: "no merge",
			in:   []string{"10.0.1.0/24", "10.0.0.0/24"},
			want: []string{"10.0.0.0/24", "10.0.1.0/24"},
		},
		{
			name:  "merge",
			in:    []string{"10.0.1.0/24", "10.0.0.0/24", "10.0.2.0/23", "2001:db8::/33", "2001:db8:8000::/33"},
			merge: true,
			want:  []string{"10.0.0.0/22", "2001:db8::/32"},
		},
		{
			name:  "no siblings",
			in:    []string{"10.0.1.0/24", "10.0.2.0/24"},
			merge: true,
			want:  []string{"10.0.1.0/24", "10.0.2.0/24"},
		},
	}

	for _, tt := range tests {
		got, err := UniqPrefixes(prefixes(tt.in...), tt.merge)
		require.NoError(t, err, tt.name)
		assert.Equal(t, prefixes(tt.want...), got, tt.name)
	}
}

func TestUniqPrefixesInvalid(t *testing.T) {
	t.Parallel()

	_, err := UniqPrefixes([]netip.Prefix{{}}, false)
	assert.ErrorContains(t, err, "invalid prefix")
}

func TestUniqPrefixesGolden(t *testing.T) {
	t.Parallel()

	prng := rand.New(rand.NewPCG(42, 42))

	for range 20 {
		pfxs := append(random.RealWorldPrefixes4(prng, 500), random.RealWorldPrefixes6(prng, 500)...)

		var gold golden.Table[bool]
		for _, pfx := range pfxs {
			gold.Insert(pfx, true)
		}
		gold.Merge()

		got, err := UniqPrefixes(pfxs, true)
		require.NoError(t, err)

		assert.Equal(t, gold.AllSorted(), got)
	}
}

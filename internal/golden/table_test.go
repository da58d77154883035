// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package golden

import (
	"net/netip"
	"slices"
	"testing"
)

var mpp = netip.MustParsePrefix

func TestTableInsert(t *testing.T) {
	tbl := new(Table[int])

	if !tbl.Insert(mpp("10.0.0.0/8"), 1) {
		t.Fatal("expected first insert to succeed")
	}

	// covered by 10.0.0.0/8, dropped
	if tbl.Insert(mpp("10.1.0.0/16"), 2) {
		t.Error("expected covered insert to be dropped")
	}

	// same prefix replaces
	tbl.Insert(mpp("10.0.0.0/8"), 3)
	if len(*tbl) != 1 || (*tbl)[0].Val != 3 {
		t.Errorf("expected single item with value 3, got %v", *tbl)
	}

	// broader prefix prunes
	tbl.Insert(mpp("192.168.1.0/24"), 4)
	tbl.Insert(mpp("192.168.2.0/24"), 4)
	tbl.Insert(mpp("192.168.0.0/16"), 5)

	want := []netip.Prefix{mpp("10.0.0.0/8"), mpp("192.168.0.0/16")}
	if got := tbl.AllSorted(); !slices.Equal(got, want) {
		t.Errorf("AllSorted, want %v, got %v", want, got)
	}
}

func TestTableMerge(t *testing.T) {
	tbl := new(Table[string])
	tbl.Insert(mpp("10.0.0.0/26"), "x")
	tbl.Insert(mpp("10.0.0.64/26"), "x")
	tbl.Insert(mpp("10.0.0.128/25"), "x")
	tbl.Insert(mpp("10.0.1.0/24"), "y")
	tbl.Insert(mpp("2001:db8::/33"), "x")
	tbl.Insert(mpp("2001:db8:8000::/33"), "x")

	tbl.Merge()

	want := []netip.Prefix{mpp("10.0.0.0/24"), mpp("10.0.1.0/24"), mpp("2001:db8::/32")}
	if got := tbl.AllSorted(); !slices.Equal(got, want) {
		t.Errorf("Merge, want %v, got %v", want, got)
	}
}

func TestTableMergeZeroValue(t *testing.T) {
	tbl := new(Table[int])
	tbl.Insert(mpp("10.0.0.0/25"), 0)
	tbl.Insert(mpp("10.0.0.128/25"), 0)

	tbl.Merge()

	if len(*tbl) != 2 {
		t.Errorf("zero values must not aggregate, got %v", *tbl)
	}
}

func TestSibling(t *testing.T) {
	tests := []struct{ pfx, want string }{
		{"10.0.0.0/25", "10.0.0.128/25"},
		{"10.0.0.128/25", "10.0.0.0/25"},
		{"0.0.0.0/1", "128.0.0.0/1"},
		{"2001:db8::/32", "2001:db9::/32"},
	}

	for _, tt := range tests {
		if got := sibling(mpp(tt.pfx)); got != mpp(tt.want) {
			t.Errorf("sibling(%s), want %s, got %s", tt.pfx, tt.want, got)
		}
	}
}

func TestTableOverlaps(t *testing.T) {
	tbl := new(Table[int])
	tbl.Insert(mpp("10.0.0.0/24"), 1)
	tbl.Insert(mpp("10.0.1.0/24"), 1)
	if tbl.Overlaps() {
		t.Error("expected no overlaps")
	}

	// bypass Insert
	*tbl = append(*tbl, TableItem[int]{mpp("10.0.0.0/16"), 1})
	if !tbl.Overlaps() {
		t.Error("expected overlaps")
	}
}

// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package trie implements an insert-only binary prefix trie for one
// address family, keyed by the bit sequences of package bitcodec.
//
// A node is either a leaf holding a value or an internal node with
// an optional zero and one branch, never both. Along any path from
// the root there is at most one leaf: a prefix covered by an already
// inserted shorter prefix is never stored, and inserting a shorter
// prefix prunes all longer prefixes beneath it.
//
// This makes the result depend on the insertion order:
//
//	insert 10.0.0.0/8, then 10.1.0.0/16  ->  10.0.0.0/8 (the /16 is dropped)
//	insert 10.1.0.0/16, then 10.0.0.0/8  ->  10.0.0.0/8 (the /16 is pruned)
//
// Both orders end with the broader prefix, but only the first one
// reports the dropped entry, or fails in [Error] mode.
//
// [Trie.Merge] aggregates two sibling leaves with equal, non-zero
// values into their common parent prefix, bottom-up.
package trie

import (
	"iter"
	"net/netip"

	"github.com/gaissmai/rirstat/internal/bitcodec"
	"github.com/gaissmai/rirstat/internal/value"
	"lukechampine.com/uint128"
)

// ConflictMode decides what Insert does when an ancestor prefix
// of the new entry is already present.
type ConflictMode int

const (
	// Silent drops the new, more specific entry.
	Silent ConflictMode = iota

	// Error fails the insert with a *ConflictError.
	Error
)

func (m ConflictMode) String() string {
	if m == Error {
		return "error"
	}
	return "silent"
}

// Entry is a prefix with its value.
type Entry[V any] struct {
	Prefix netip.Prefix
	Value  V
}

// node is a leaf with a value or an internal node with up to two
// children, child[0] is the zero branch and child[1] the one branch.
type node[V any] struct {
	leaf  bool
	val   V
	child [2]*node[V]
}

func (n *node[V]) isEmpty() bool {
	return !n.leaf && n.child[0] == nil && n.child[1] == nil
}

// Trie is a binary prefix trie for a single address family.
// The zero value is not usable, see [New].
type Trie[V any] struct {
	family bitcodec.Family
	root   *node[V]
}

// New returns an empty trie for family f.
func New[V any](f bitcodec.Family) *Trie[V] {
	return &Trie[V]{family: f, root: &node[V]{}}
}

// Family returns the address family of the trie.
func (t *Trie[V]) Family() bitcodec.Family {
	return t.family
}

// Insert stores val under the prefix given by bits.
//
// If a node strictly before the end of bits already holds a value, the
// new entry is covered by a shorter prefix. In [Silent] mode it is
// dropped and Insert returns false, in [Error] mode Insert returns a
// *ConflictError. Otherwise the end node becomes a leaf with val and
// all longer prefixes beneath it are pruned. Inserting the same prefix
// again replaces its value.
//
// A bit sequence longer than the family width returns a
// *bitcodec.PrefixLengthError and leaves the trie untouched.
func (t *Trie[V]) Insert(bits iter.Seq[bool], val V, mode ConflictMode) (bool, error) {
	maxBits := t.family.MaxBits()

	// collect first, the walk below must not start on a too long key
	path := make([]bool, 0, maxBits)
	for bit := range bits {
		if len(path) == maxBits {
			return false, &bitcodec.PrefixLengthError{Family: t.family, Bits: maxBits + 1}
		}
		path = append(path, bit)
	}

	n := t.root
	for depth, bit := range path {
		if n.leaf {
			if mode == Error {
				return false, t.conflict(path, depth)
			}
			return false, nil
		}

		i := idx(bit)
		if n.child[i] == nil {
			n.child[i] = &node[V]{}
		}
		n = n.child[i]
	}

	// supersede everything beneath
	n.leaf = true
	n.val = val
	n.child = [2]*node[V]{}

	return true, nil
}

// InsertPrefix is a wrapper for Insert with the bitcodec encoded pfx.
func (t *Trie[V]) InsertPrefix(pfx netip.Prefix, val V, mode ConflictMode) (bool, error) {
	if !pfx.IsValid() || bitcodec.FamilyOf(pfx) != t.family {
		return false, &FamilyError{Want: t.family, Prefix: pfx}
	}
	return t.Insert(bitcodec.Encode(pfx), val, mode)
}

func (t *Trie[V]) conflict(path []bool, depth int) error {
	pfx, _ := bitcodec.FromPath(t.family, path)
	existing, _ := bitcodec.FromPath(t.family, path[:depth])
	return &ConflictError{Prefix: pfx, Existing: existing}
}

// Merge aggregates the trie bottom-up: whenever both children of a
// node are leaves holding equal, non-zero values, they are replaced
// by a single leaf at the node. Children are merged before their
// parent is considered, so a single pass reaches the fixpoint and
// a second Merge is a no-op.
//
// The set of covered addresses never changes.
func (t *Trie[V]) Merge() error {
	root, err := merge(t.root, 0, t.family)
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// merge returns the replacement for n.
func merge[V any](n *node[V], depth int, f bitcodec.Family) (*node[V], error) {
	if n == nil || n.leaf {
		return n, nil
	}
	if depth >= f.MaxBits() {
		// an internal node at full width can't exist
		return nil, &DepthError{Family: f, Depth: depth}
	}

	for i, c := range n.child {
		m, err := merge(c, depth+1, f)
		if err != nil {
			return nil, err
		}
		n.child[i] = m
	}

	zero, one := n.child[0], n.child[1]
	if zero == nil || one == nil || !zero.leaf || !one.leaf {
		return n, nil
	}
	if value.IsZero(zero.val) || !value.Equal(zero.val, one.val) {
		return n, nil
	}

	return &node[V]{leaf: true, val: zero.val}, nil
}

// Walk calls yield for every entry in ascending prefix order, the zero
// branch before the one branch. A leaf yields once and is not descended.
// Walk stops early if yield returns false.
func (t *Trie[V]) Walk(yield func(netip.Prefix, V) bool) error {
	path := make([]bool, 0, t.family.MaxBits()+1)
	_, err := t.root.walkRec(t.family, path, yield)
	return err
}

func (n *node[V]) walkRec(f bitcodec.Family, path []bool, yield func(netip.Prefix, V) bool) (bool, error) {
	if len(path) > f.MaxBits() {
		return false, &DepthError{Family: f, Depth: len(path)}
	}

	if n.leaf {
		pfx, err := bitcodec.FromPath(f, path)
		if err != nil {
			return false, err
		}
		return yield(pfx, n.val), nil
	}

	for i, c := range n.child {
		if c == nil {
			continue
		}
		ok, err := c.walkRec(f, append(path, i == 1), yield)
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

// Entries returns all entries in ascending prefix order.
func (t *Trie[V]) Entries() ([]Entry[V], error) {
	var entries []Entry[V]
	err := t.Walk(func(pfx netip.Prefix, val V) bool {
		entries = append(entries, Entry[V]{Prefix: pfx, Value: val})
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Len returns the number of entries.
func (t *Trie[V]) Len() int {
	return t.root.lenRec()
}

func (n *node[V]) lenRec() int {
	if n == nil {
		return 0
	}
	if n.leaf {
		return 1
	}
	return n.child[0].lenRec() + n.child[1].lenRec()
}

// AddrCount returns the number of addresses covered by all entries.
// The count saturates at [uint128.Max], only reachable with ::/0.
func (t *Trie[V]) AddrCount() uint128.Uint128 {
	return t.root.addrCountRec(t.family.MaxBits())
}

func (n *node[V]) addrCountRec(hostBits int) uint128.Uint128 {
	if n == nil || hostBits < 0 {
		return uint128.Zero
	}
	if n.leaf {
		if hostBits >= 128 {
			return uint128.Max
		}
		return uint128.From64(1).Lsh(uint(hostBits))
	}

	sum := n.child[0].addrCountRec(hostBits - 1)
	more := n.child[1].addrCountRec(hostBits - 1)
	if uint128.Max.Sub(sum).Cmp(more) < 0 {
		return uint128.Max
	}
	return sum.Add(more)
}

func idx(bit bool) int {
	if bit {
		return 1
	}
	return 0
}

// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package trie

import (
	"fmt"
	"net/netip"

	"github.com/gaissmai/rirstat/internal/bitcodec"
)

// ConflictError is returned by Insert in [Error] mode when Prefix is
// covered by the already present, shorter prefix Existing.
type ConflictError struct {
	Prefix   netip.Prefix
	Existing netip.Prefix
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict inserting %s: covered by %s", e.Prefix, e.Existing)
}

// DepthError signals a corrupted trie, a traversal went deeper
// than the address width of the family.
type DepthError struct {
	Family bitcodec.Family
	Depth  int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: too deep in trie, depth %d over %d bits", e.Family, e.Depth, e.Family.MaxBits())
}

// FamilyError is returned by InsertPrefix for an invalid prefix or a
// prefix of the other address family.
type FamilyError struct {
	Want   bitcodec.Family
	Prefix netip.Prefix
}

func (e *FamilyError) Error() string {
	return fmt.Sprintf("prefix %s does not belong to %s trie", e.Prefix, e.Want)
}

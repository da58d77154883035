// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bitcodec converts network prefixes to and from the ordered
// bit sequences used as trie keys.
//
// A prefix of length n is encoded as exactly n bits, most significant
// bit first across the packed address bytes. Decoding packs the bits
// back into the address width of the family and zero fills the rest.
package bitcodec

import (
	"fmt"
	"iter"
	"net/netip"
)

// Family is the address family of a prefix.
type Family uint8

const (
	V4 Family = 4
	V6 Family = 6
)

// FamilyOf returns the address family of pfx.
func FamilyOf(pfx netip.Prefix) Family {
	if pfx.Addr().Is4() {
		return V4
	}
	return V6
}

// ParseFamily maps the record type tags "ipv4" and "ipv6" to a Family.
func ParseFamily(s string) (Family, bool) {
	switch s {
	case "ipv4":
		return V4, true
	case "ipv6":
		return V6, true
	}
	return 0, false
}

// Bytes returns the packed address size in bytes.
func (f Family) Bytes() int {
	if f == V4 {
		return 4
	}
	return 16
}

// MaxBits returns the address width in bits, 32 or 128.
func (f Family) MaxBits() int {
	return f.Bytes() * 8
}

// String returns "ipv4" or "ipv6", the record type tag of the family.
func (f Family) String() string {
	switch f {
	case V4:
		return "ipv4"
	case V6:
		return "ipv6"
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

// PrefixLengthError is returned when a bit sequence is longer than
// the address width of its family.
type PrefixLengthError struct {
	Family Family
	Bits   int
}

func (e *PrefixLengthError) Error() string {
	return fmt.Sprintf("%s: prefix length over %d bits", e.Family, e.Family.MaxBits())
}

// Encode returns the first pfx.Bits() bits of the prefix address,
// MSB first. The sequence is lazy and can be ranged over repeatedly.
func Encode(pfx netip.Prefix) iter.Seq[bool] {
	return func(yield func(bool) bool) {
		if !pfx.IsValid() {
			return
		}
		octets := pfx.Addr().AsSlice()
		for i := range pfx.Bits() {
			if !yield(octets[i/8]&(0x80>>(i%8)) != 0) {
				return
			}
		}
	}
}

// Decode packs bits MSB first into an address of family f and returns
// the prefix with len(bits) as prefix length.
func Decode(f Family, bits iter.Seq[bool]) (netip.Prefix, error) {
	var octets [16]byte
	maxBits := f.MaxBits()

	n := 0
	for bit := range bits {
		if n >= maxBits {
			return netip.Prefix{}, &PrefixLengthError{Family: f, Bits: n + 1}
		}
		if bit {
			octets[n/8] |= 0x80 >> (n % 8)
		}
		n++
	}

	return netip.PrefixFrom(addrFrom(f, octets), n), nil
}

// FromPath decodes a bit path collected during a trie descent.
func FromPath(f Family, path []bool) (netip.Prefix, error) {
	return Decode(f, func(yield func(bool) bool) {
		for _, bit := range path {
			if !yield(bit) {
				return
			}
		}
	})
}

func addrFrom(f Family, octets [16]byte) netip.Addr {
	if f == V4 {
		return netip.AddrFrom4([4]byte(octets[:4]))
	}
	return netip.AddrFrom16(octets)
}

// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package random generates reproducible test input: addresses,
// prefixes and IPv4 host ranges like the ones found in RIR
// delegation files.
package random

import (
	"math/rand/v2"
	"net/netip"
)

// IP4 returns a random IPv4 address.
func IP4(prng *rand.Rand) netip.Addr {
	var b [4]byte
	for i := range b {
		b[i] = byte(prng.Uint32() & 0xff)
	}
	return netip.AddrFrom4(b)
}

// IP6 returns a random IPv6 address.
func IP6(prng *rand.Rand) netip.Addr {
	var b [16]byte
	for i := range b {
		b[i] = byte(prng.Uint32() & 0xff)
	}
	return netip.AddrFrom16(b)
}

// Prefix4 returns a random masked IPv4 prefix, /0 to /32.
func Prefix4(prng *rand.Rand) netip.Prefix {
	pfx, err := IP4(prng).Prefix(prng.IntN(33))
	if err != nil {
		panic(err)
	}
	return pfx
}

// Prefix6 returns a random masked IPv6 prefix, /0 to /128.
func Prefix6(prng *rand.Rand) netip.Prefix {
	pfx, err := IP6(prng).Prefix(prng.IntN(129))
	if err != nil {
		panic(err)
	}
	return pfx
}

// Prefix returns either a random IPv4 or IPv6 prefix.
func Prefix(prng *rand.Rand) netip.Prefix {
	if prng.IntN(2) == 1 {
		return Prefix4(prng)
	}
	return Prefix6(prng)
}

// RealWorldPrefixes4 returns n distinct IPv4 prefixes with lengths
// between /8 and /28, outside of 240.0.0.0/8.
func RealWorldPrefixes4(prng *rand.Rand, n int) []netip.Prefix {
	reserved := netip.MustParsePrefix("240.0.0.0/8")
	seen := make(map[netip.Prefix]bool, n)

	pfxs := make([]netip.Prefix, 0, n)
	for len(pfxs) < n {
		pfx, _ := IP4(prng).Prefix(8 + prng.IntN(21))
		if seen[pfx] || pfx.Overlaps(reserved) {
			continue
		}
		seen[pfx] = true
		pfxs = append(pfxs, pfx)
	}
	return pfxs
}

// RealWorldPrefixes6 returns n distinct global unicast IPv6 prefixes
// with lengths between /16 and /56.
func RealWorldPrefixes6(prng *rand.Rand, n int) []netip.Prefix {
	globalUnicast := netip.MustParsePrefix("2000::/3")
	seen := make(map[netip.Prefix]bool, n)

	pfxs := make([]netip.Prefix, 0, n)
	for len(pfxs) < n {
		pfx, _ := IP6(prng).Prefix(16 + prng.IntN(41))
		if seen[pfx] || !globalUnicast.Contains(pfx.Addr()) {
			continue
		}
		seen[pfx] = true
		pfxs = append(pfxs, pfx)
	}
	return pfxs
}

// Range4 returns a random IPv4 start address and host count, the count
// is between 1 and 1<<16 and the range never wraps past 255.255.255.255.
func Range4(prng *rand.Rand) (netip.Addr, uint64) {
	start := prng.Uint32()
	count := uint64(1 + prng.IntN(1<<16))

	if room := uint64(^uint32(0)-start) + 1; count > room {
		count = room
	}

	return netip.AddrFrom4([4]byte{byte(start >> 24), byte(start >> 16), byte(start >> 8), byte(start)}), count
}

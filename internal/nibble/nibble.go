// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package nibble splits IPv6 networks on nibble boundaries, as needed
// for ip6.arpa reverse zones.
package nibble

import (
	"fmt"
	"net/netip"

	"lukechampine.com/uint128"
)

// Bits rounds the prefix length up to the next multiple of 4.
func Bits(bits int) int {
	return (bits + 3) &^ 3
}

// Split subdivides pfx into the 1, 2, 4 or 8 subnets with the prefix
// length rounded up to the next nibble boundary, in ascending order.
// Host bits of pfx are masked.
func Split(pfx netip.Prefix) ([]netip.Prefix, error) {
	if !pfx.IsValid() || !pfx.Addr().Is6() || pfx.Addr().Is4In6() {
		return nil, fmt.Errorf("nibble split: not an IPv6 prefix: %s", pfx)
	}
	pfx = pfx.Masked()

	bits := Bits(pfx.Bits())
	n := 1 << (bits - pfx.Bits())

	a16 := pfx.Addr().As16()
	addr := uint128.FromBytesBE(a16[:])
	step := uint128.From64(1).Lsh(uint(128 - bits))

	out := make([]netip.Prefix, 0, n)
	for i := range n {
		if i > 0 {
			addr = addr.Add(step)
		}
		addr.PutBytesBE(a16[:])
		out = append(out, netip.PrefixFrom(netip.AddrFrom16(a16), bits))
	}
	return out, nil
}

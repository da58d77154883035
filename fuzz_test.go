// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"math/rand/v2"
	"net/netip"
	"strings"
	"testing"
)

func FuzzIPv4RangeToSubnets(f *testing.F) {
	// Seed corpus
	f.Add(uint32(0x0a000005), uint32(3))
	f.Add(uint32(0), uint32(0))
	f.Add(^uint32(0), uint32(1))
	f.Add(uint32(0x7ff50105), uint32(256))

	f.Fuzz(func(t *testing.T, start, count uint32) {
		addr := netip.AddrFrom4([4]byte{byte(start >> 24), byte(start >> 16), byte(start >> 8), byte(start)})

		pfxs, err := IPv4RangeToSubnets(addr, uint64(count))
		if uint64(start)+uint64(count) > 1<<32 {
			if err == nil {
				t.Fatalf("%s + %d: expected error", addr, count)
			}
			return
		}
		if err != nil {
			t.Fatal(err)
		}

		var covered uint64
		next := addr
		for _, pfx := range pfxs {
			if pfx.Addr() != next || pfx != pfx.Masked() {
				t.Fatalf("%s + %d: unexpected block %s", addr, count, pfx)
			}
			size := uint64(1) << (32 - pfx.Bits())
			covered += size
			next = addrAdd(pfx.Addr(), size)
		}
		if covered != uint64(count) {
			t.Fatalf("%s + %d: covered %d", addr, count, covered)
		}
	})
}

func FuzzParse(f *testing.F) {
	f.Add(sample)
	f.Add(strings.ReplaceAll(sample, "\n", "\r\n"))
	f.Add(delegation("test|EE|ipv4|10.0.0.0|1000|20100101|allocated|x"))
	f.Add("")
	f.Add(delegation("test|EE|asn|2|18446744073709551615|20100101|allocated|x"))
	f.Add(delegation("test|EE|ipv4|10.0.0.0|18446744073709551615|20100101|allocated|x"))
	f.Add("2|test|1|0|||+0000\ntest|*|asn|*|9223372036854775807|summary\ntest|*|ipv4|*|1|summary\ntest|*|ipv6|*|0|summary\n")
	f.Add("2|test|1|0|||+0000\ntest|*|asn|*|9223372036854775807|summary\ntest|*|ipv4|*|9223372036854775807|summary\ntest|*|ipv6|*|2|summary\n")

	f.Fuzz(func(t *testing.T, input string) {
		// parse must never panic, a result must be non-overlapping
		res, err := Parse(strings.NewReader(input))
		if err != nil {
			return
		}

		for _, records := range [][]SubnetRecord{res.Records.IPv4, res.Records.IPv6} {
			for i, a := range records {
				for _, b := range records[i+1:] {
					if a.Prefix.Overlaps(b.Prefix) {
						t.Fatalf("%s overlaps %s", a.Subnet, b.Subnet)
					}
				}
			}
		}
	})
}

func FuzzUniqPrefixes(f *testing.F) {
	f.Add(uint64(12345), 150, true)
	f.Add(uint64(67890), 400, false)
	f.Add(uint64(0), 64, true)

	f.Fuzz(func(t *testing.T, seed uint64, n int, merge bool) {
		if n < 1 || n > 2000 {
			t.Skip("bounds")
		}

		prng := rand.New(rand.NewPCG(seed, 13))
		var pfxs []netip.Prefix
		for range n {
			bits := prng.IntN(33)
			pfx, _ := netip.AddrFrom4([4]byte{byte(prng.Uint32()), byte(prng.Uint32()), 0, 0}).Prefix(bits)
			pfxs = append(pfxs, pfx)
		}

		uniq, err := UniqPrefixes(pfxs, merge)
		if err != nil {
			t.Fatal(err)
		}

		for i, a := range uniq {
			for _, b := range uniq[i+1:] {
				if a.Overlaps(b) {
					t.Fatalf("%s overlaps %s", a, b)
				}
			}
		}

		// every input address stays covered
		for _, pfx := range pfxs {
			found := false
			for _, u := range uniq {
				if u.Contains(pfx.Addr()) {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("%s lost", pfx)
			}
		}
	})
}

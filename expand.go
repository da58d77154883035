// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"net/netip"
	"strconv"
)

// Expanded is a raw record, expanded into its atomic parts. Exactly
// one of ASNs and Subnets is set, depending on Type.
type Expanded struct {
	Type     string
	Metadata Metadata

	ASNs    []uint32
	Subnets []netip.Prefix
}

// ASNRecords returns one record per ASN, all sharing one handle.
func (e Expanded) ASNRecords() []ASNRecord {
	if len(e.ASNs) == 0 {
		return nil
	}

	md := e.Metadata
	records := make([]ASNRecord, len(e.ASNs))
	for i, asn := range e.ASNs {
		records[i] = ASNRecord{Metadata: &md, ASN: asn}
	}
	return records
}

// Expand turns a raw record into its atomic parts, keeping only
// the retained metadata fields:
//
//   - asn:  Value is a count, one ASN per number from Start
//   - ipv4: Value is a host count, the minimal CIDR cover of the range
//   - ipv6: Value is the prefix length of Start
//
// Any other type returns an *UnsupportedRecordTypeError.
func Expand(rec Record, retained Field) (Expanded, error) {
	exp := Expanded{Type: rec.Type, Metadata: project(rec, retained)}

	var err error
	switch rec.Type {
	case TypeASN:
		exp.ASNs, err = expandASN(rec)
	case TypeIPv4:
		exp.Subnets, err = expandIPv4(rec)
	case TypeIPv6:
		exp.Subnets, err = expandIPv6(rec)
	default:
		return Expanded{}, &UnsupportedRecordTypeError{Line: rec.Line, Type: rec.Type}
	}

	if err != nil {
		return Expanded{}, err
	}
	return exp, nil
}

func expandASN(rec Record) ([]uint32, error) {
	start, err := strconv.ParseUint(rec.Start, 10, 32)
	if err != nil {
		return nil, &ParseError{Line: rec.Line, Field: "start", Value: rec.Start, Err: err}
	}

	count, err := parseCount(rec)
	if err != nil {
		return nil, err
	}
	if count > math.MaxUint32+1-start {
		return nil, &ParseError{Line: rec.Line, Field: "value", Value: rec.Value, Err: errors.New("ASN range overflows 32 bits")}
	}

	asns := make([]uint32, 0, count)
	for asn := start; asn < start+count; asn++ {
		asns = append(asns, uint32(asn))
	}
	return asns, nil
}

func expandIPv4(rec Record) ([]netip.Prefix, error) {
	start, err := netip.ParseAddr(rec.Start)
	if err != nil {
		return nil, &ParseError{Line: rec.Line, Field: "start", Value: rec.Start, Err: err}
	}

	count, err := parseCount(rec)
	if err != nil {
		return nil, err
	}

	pfxs, err := IPv4RangeToSubnets(start, count)
	if err != nil {
		return nil, &ParseError{Line: rec.Line, Field: "start", Value: rec.Start, Err: err}
	}
	return pfxs, nil
}

func expandIPv6(rec Record) ([]netip.Prefix, error) {
	cidr := rec.Start + "/" + rec.Value

	pfx, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, &ParseError{Line: rec.Line, Field: "subnet", Value: cidr, Err: err}
	}
	if !pfx.Addr().Is6() || pfx.Addr().Is4In6() {
		return nil, &ParseError{Line: rec.Line, Field: "subnet", Value: cidr, Err: errors.New("not an IPv6 prefix")}
	}
	if pfx != pfx.Masked() {
		return nil, &ParseError{Line: rec.Line, Field: "subnet", Value: cidr, Err: errors.New("host bits set")}
	}
	return []netip.Prefix{pfx}, nil
}

func parseCount(rec Record) (uint64, error) {
	count, err := strconv.ParseUint(rec.Value, 10, 64)
	if err != nil {
		return 0, &ParseError{Line: rec.Line, Field: "value", Value: rec.Value, Err: err}
	}
	return count, nil
}

// IPv4RangeToSubnets returns the minimal set of CIDRs covering exactly
// count hosts from start, in ascending order.
//
// Each block is the largest power of two not above the remaining host
// count and not above the alignment of the current start address:
//
//	10.0.0.5 + 3  ->  10.0.0.5/32, 10.0.0.6/31
func IPv4RangeToSubnets(start netip.Addr, count uint64) ([]netip.Prefix, error) {
	if !start.Is4() {
		return nil, fmt.Errorf("%s is not an IPv4 address", start)
	}

	b := start.As4()
	cur := uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])

	if count > 1<<32-cur {
		return nil, fmt.Errorf("range %s + %d runs past 255.255.255.255", start, count)
	}

	var pfxs []netip.Prefix
	for count > 0 {
		hostBits := bits.Len64(count) - 1

		align := 32
		if cur != 0 {
			align = bits.TrailingZeros64(cur)
		}
		hostBits = min(hostBits, align)

		addr := netip.AddrFrom4([4]byte{byte(cur >> 24), byte(cur >> 16), byte(cur >> 8), byte(cur)})
		pfxs = append(pfxs, netip.PrefixFrom(addr, 32-hostBits))

		size := uint64(1) << hostBits
		cur += size
		count -= size
	}

	return pfxs, nil
}

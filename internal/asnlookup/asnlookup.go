// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package asnlookup maps autonomous system numbers to their announced
// prefixes, loaded from an IPASN snapshot:
//
//	; comment
//	1.0.0.0/24	13335
//	2001:db8::/32	64500
package asnlookup

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"github.com/gaissmai/rirstat/internal/bitcodec"
	"github.com/gaissmai/rirstat/internal/source"
)

// DB is an immutable ASN to prefixes index.
type DB struct {
	byASN map[uint32][]netip.Prefix
	n     int
}

// Load reads the snapshot at path, compressed files are supported.
func Load(path string) (*DB, error) {
	rc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	db, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

// Read parses a snapshot from r.
func Read(r io.Reader) (*DB, error) {
	db := &DB{byASN: make(map[uint32][]netip.Prefix)}

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want prefix and asn, got %q", lineNo, line)
		}

		pfx, err := netip.ParsePrefix(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		asn, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid asn %q: %w", lineNo, fields[1], err)
		}

		db.byASN[uint32(asn)] = append(db.byASN[uint32(asn)], pfx.Masked())
		db.n++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading asn snapshot: %w", err)
	}

	return db, nil
}

// Len returns the number of prefixes.
func (db *DB) Len() int {
	return db.n
}

// Prefixes returns the prefixes of family f announced by asn, in
// snapshot order.
func (db *DB) Prefixes(asn uint32, f bitcodec.Family) []netip.Prefix {
	var out []netip.Prefix
	for _, pfx := range db.byASN[asn] {
		if bitcodec.FamilyOf(pfx) == f {
			out = append(out, pfx)
		}
	}
	return out
}

// ASNs returns all known ASNs in ascending order.
func (db *DB) ASNs() []uint32 {
	asns := make([]uint32, 0, len(db.byASN))
	for asn := range db.byASN {
		asns = append(asns, asn)
	}
	slices.Sort(asns)
	return asns
}

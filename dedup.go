// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"encoding/binary"
	"strings"

	"github.com/OneOfOne/xxhash"
)

// Field is a set of metadata fields.
type Field uint8

const (
	FieldRegistry Field = 1 << iota
	FieldCC
	FieldDate
	FieldStatus
	FieldExtensions

	// AllFields retains every metadata field.
	AllFields = FieldRegistry | FieldCC | FieldDate | FieldStatus | FieldExtensions

	// DefaultFields drops registry, date and extensions, adjacent
	// blocks differing only in their allocation date still aggregate.
	DefaultFields = FieldCC | FieldStatus
)

var fieldNames = []struct {
	f    Field
	name string
}{
	{FieldRegistry, "registry"},
	{FieldCC, "cc"},
	{FieldDate, "date"},
	{FieldStatus, "status"},
	{FieldExtensions, "extensions"},
}

// ParseField maps a field name as used in the output to its Field.
func ParseField(name string) (Field, bool) {
	for _, fn := range fieldNames {
		if fn.name == name {
			return fn.f, true
		}
	}
	return 0, false
}

func (f Field) String() string {
	var names []string
	for _, fn := range fieldNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// project copies the retained fields of rec, the address part and
// the type tag are consumed by the expansion.
func project(rec Record, retained Field) Metadata {
	var md Metadata
	if retained&FieldRegistry != 0 {
		md.Registry = rec.Registry
	}
	if retained&FieldCC != 0 {
		md.CC = rec.CC
	}
	if retained&FieldDate != 0 {
		md.Date = rec.Date
	}
	if retained&FieldStatus != 0 {
		md.Status = rec.Status
	}
	if retained&FieldExtensions != 0 {
		md.Extensions = rec.Extensions
	}
	return md
}

// fingerprintVersion changes whenever the set or encoding of the
// fingerprint fields changes.
const fingerprintVersion = 1

// Fingerprint names exactly the metadata fields compared by the
// deduplication, the address part is never included.
type Fingerprint struct {
	Version    uint8
	Registry   string
	CC         string
	Date       string
	Status     string
	Extensions string
}

// Fingerprint returns the fingerprint of the metadata.
func (m *Metadata) Fingerprint() Fingerprint {
	return Fingerprint{
		Version:    fingerprintVersion,
		Registry:   m.Registry,
		CC:         m.CC,
		Date:       m.Date,
		Status:     m.Status,
		Extensions: m.Extensions,
	}
}

// Sum64 returns the xxhash of the length prefixed fields.
func (fp Fingerprint) Sum64() uint64 {
	buf := make([]byte, 0, 64)
	buf = append(buf, fp.Version)
	for _, s := range [...]string{fp.Registry, fp.CC, fp.Date, fp.Status, fp.Extensions} {
		buf = binary.AppendUvarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	}
	return xxhash.Checksum64(buf)
}

// dedupCache interns metadata, scoped to a single parse.
type dedupCache struct {
	buckets map[uint64][]*Metadata
	handles int
}

func newDedupCache() *dedupCache {
	return &dedupCache{buckets: make(map[uint64][]*Metadata)}
}

// intern returns the canonical handle for md, the first metadata
// seen with this fingerprint.
func (c *dedupCache) intern(md Metadata) *Metadata {
	fp := md.Fingerprint()
	sum := fp.Sum64()

	// hash collisions are resolved by comparing the fingerprints
	for _, h := range c.buckets[sum] {
		if h.Fingerprint() == fp {
			return h
		}
	}

	h := &md
	c.buckets[sum] = append(c.buckets[sum], h)
	c.handles++
	return h
}

// len returns the number of distinct handles.
func (c *dedupCache) len() int {
	return c.handles
}

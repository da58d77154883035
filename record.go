// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"net/netip"
)

// record type tags
const (
	TypeASN  = "asn"
	TypeIPv4 = "ipv4"
	TypeIPv6 = "ipv6"
)

// Record is a raw, unexpanded data line:
//
//	registry|cc|type|start|value|date|status|extensions
//
// Blank fields stay empty, Extensions holds the rest of the line.
type Record struct {
	Registry   string
	CC         string
	Type       string
	Start      string
	Value      string
	Date       string
	Status     string
	Extensions string

	// Line is the line number in the input, starting with 1.
	Line int
}

// Filter decides on the raw record whether a data line is expanded.
// Only the native fields of the line are available, never the
// expanded ASNs or subnets.
type Filter func(Record) bool

// Metadata is the non-address part of an assignment record. All subnet
// records with equal metadata share the same *Metadata handle.
// Fields not retained by the parser stay empty.
type Metadata struct {
	Registry   string `json:"registry,omitempty"`
	CC         string `json:"cc,omitempty"`
	Date       string `json:"date,omitempty"`
	Status     string `json:"status,omitempty"`
	Extensions string `json:"extensions,omitempty"`
}

// Equal compares handles by identity, deduplicated metadata is
// equal if and only if it is the same handle.
func (m *Metadata) Equal(other *Metadata) bool {
	return m == other
}

// ASNRecord is one expanded autonomous system number.
type ASNRecord struct {
	*Metadata
	ASN uint32 `json:"asn"`
}

// SubnetRecord is one aggregated IPv4 or IPv6 network.
type SubnetRecord struct {
	*Metadata
	Subnet string `json:"subnet"`

	// Prefix is Subnet, parsed.
	Prefix netip.Prefix `json:"-"`
}

// Header is the version line of a delegation file.
type Header struct {
	Version   string `json:"version,omitempty"`
	Registry  string `json:"registry,omitempty"`
	Serial    string `json:"serial,omitempty"`
	Records   string `json:"records,omitempty"`
	StartDate string `json:"startdate,omitempty"`
	EndDate   string `json:"enddate,omitempty"`
	UTCOffset string `json:"utc_offset,omitempty"`
}

// Summary is one of the three summary lines, Count is the declared
// number of data lines of this type.
type Summary struct {
	Registry string `json:"registry,omitempty"`
	Type     string `json:"type"`
	Count    int    `json:"count"`
	Summary  string `json:"summary,omitempty"`
}

// Records holds the expanded and aggregated records per type.
type Records struct {
	ASN  []ASNRecord    `json:"asn"`
	IPv4 []SubnetRecord `json:"ipv4"`
	IPv6 []SubnetRecord `json:"ipv6"`
}

// Result of a parse. The summary counts are the declared counts of
// the input, they are not adjusted by the filter.
type Result struct {
	Header    Header             `json:"header"`
	Summaries map[string]Summary `json:"summaries"`
	Records   Records            `json:"records"`

	Stats Stats `json:"-"`
}

// Stats are counters collected during a parse.
type Stats struct {
	// Lines is the number of data lines read.
	Lines int

	// Filtered is the number of data lines rejected by the filter.
	Filtered int

	// ASNs is the number of expanded ASN records.
	ASNs int

	// Handles is the number of distinct metadata handles.
	Handles int

	IPv4 FamilyStats
	IPv6 FamilyStats
}

// FamilyStats are the subnet counters of one address family.
type FamilyStats struct {
	// Expanded subnet records before insertion.
	Expanded int

	// Dropped inserts, covered by an already present shorter prefix.
	Dropped int

	// Entries in the trie before and after aggregation.
	Entries int
	Merged  int
}

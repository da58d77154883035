// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package rirstat parses RIR extended delegation statistics and
// canonicalizes them into deduplicated, non-overlapping prefix sets.
//
// An extended delegation file is pipe separated text with one header
// line, three summary lines and the declared number of data lines:
//
//	2|ripencc|1700000000|3|19830705|20231115|+0100
//	ripencc|*|asn|*|1|summary
//	ripencc|*|ipv4|*|1|summary
//	ripencc|*|ipv6|*|1|summary
//	ripencc|EE|asn|64500|3|20100101|allocated|abc123
//	ripencc|EE|ipv4|10.0.0.5|3|20100101|allocated|abc123
//	ripencc|EE|ipv6|2001:db8::|32|20100101|allocated|abc123
//
// A caller supplied [Filter] sees every raw data line. Surviving lines
// are expanded into atomic records: one record per ASN of an ASN range,
// the minimal CIDR cover of an IPv4 host range, one record per IPv6
// prefix. Subnet records with equal metadata share one [*Metadata]
// handle and are inserted into a binary prefix trie per address
// family. After the pass each trie is aggregated, adjacent prefixes
// with the same metadata handle collapse into their supernet, and
// drained into the [Result].
//
// Parsing is all or nothing, any error aborts and no partial result
// is returned.
package rirstat

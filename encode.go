// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Format is an output encoding of a Result.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat returns the Format for s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q, want json or cbor", s)
}

// cborMode uses core deterministic encoding, equal results encode to
// identical bytes.
var cborMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("rirstat: CBOR encoder initialization failed: " + err.Error())
	}
	return em
}()

// Encode writes r to w in format f. Subnet records carry their
// metadata fields and the subnet in address/prefixlen form.
func (r *Result) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return json.NewEncoder(w).Encode(r)
	case FormatCBOR:
		return cborMode.NewEncoder(w).Encode(r)
	}
	return fmt.Errorf("unknown output format %q", f)
}

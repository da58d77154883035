// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gaissmai/rirstat/internal/bitcodec"
	"github.com/gaissmai/rirstat/internal/trie"
)

// maxPreview is the max length of unexpected content quoted in errors.
const maxPreview = 100

// ErrUnexpectedEOF is returned when the input ends before the header,
// the summaries and all declared data lines are read.
var ErrUnexpectedEOF = errors.New("unexpected EOF")

type (
	// PrefixLengthError is returned for a prefix longer than the
	// address width of its family.
	PrefixLengthError = bitcodec.PrefixLengthError

	// ConflictError is returned in strict mode for a prefix covered
	// by an already inserted shorter prefix.
	ConflictError = trie.ConflictError

	// DepthError signals a corrupted trie.
	DepthError = trie.DepthError
)

// ParseError is returned for a malformed field.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %s: %v", e.Line, e.Field, quote(e.Value), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedRecordTypeError is returned for a type tag other than
// asn, ipv4 or ipv6.
type UnsupportedRecordTypeError struct {
	Line int
	Type string
}

func (e *UnsupportedRecordTypeError) Error() string {
	return fmt.Sprintf("line %d: unknown record type %q", e.Line, e.Type)
}

// CorruptInputError is returned when data follows the declared number
// of data lines. Preview is the quoted, length capped content.
type CorruptInputError struct {
	Line    int
	Preview string
}

func (e *CorruptInputError) Error() string {
	return fmt.Sprintf("line %d: data left over: %s", e.Line, e.Preview)
}

// quote returns s quoted, capped at maxPreview characters.
func quote(s string) string {
	if len(s) > maxPreview {
		return strconv.Quote(s[:maxPreview]) + fmt.Sprintf("[...] (over %d chars)", maxPreview)
	}
	return strconv.Quote(s)
}

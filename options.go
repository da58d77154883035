// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"io"
	"log/slog"

	"github.com/gaissmai/rirstat/internal/trie"
)

// Option configures a Parser.
type Option func(*Parser)

// WithFilter sets the predicate applied to every raw data line.
// The default accepts all lines.
func WithFilter(f Filter) Option {
	return func(p *Parser) {
		if f != nil {
			p.filter = f
		}
	}
}

// WithRetainedFields sets the metadata fields kept in the records and
// compared by the deduplication, default is [DefaultFields].
func WithRetainedFields(f Field) Option {
	return func(p *Parser) {
		p.retained = f
	}
}

// WithStrictConflicts fails the parse with a *ConflictError when a
// subnet is covered by an already inserted shorter subnet, instead of
// silently dropping it.
func WithStrictConflicts() Option {
	return func(p *Parser) {
		p.mode = trie.Error
	}
}

// WithLogger sets the logger, the default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

func acceptAll(Record) bool { return true }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package rirstat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/gaissmai/rirstat/internal/bitcodec"
	"github.com/gaissmai/rirstat/internal/source"
	"github.com/gaissmai/rirstat/internal/trie"
)

// number of fields per line type
const (
	headerFields  = 7
	summaryFields = 6
	recordFields  = 8
)

// Parser parses extended delegation files. A Parser is immutable and
// may be shared, every Parse call owns its tries and dedup cache.
type Parser struct {
	filter   Filter
	retained Field
	mode     trie.ConflictMode
	logger   *slog.Logger
}

// NewParser returns a Parser configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		filter:   acceptAll,
		retained: DefaultFields,
		mode:     trie.Silent,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a wrapper for NewParser(opts...).Parse(r).
func Parse(r io.Reader, opts ...Option) (*Result, error) {
	return NewParser(opts...).Parse(r)
}

// ParseFile parses the file at path, gzip and zstd compressed files
// are decompressed transparently.
func ParseFile(path string, opts ...Option) (*Result, error) {
	rc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	res, err := NewParser(opts...).Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Parse reads one complete delegation file from r.
//
// The stages run one after the other, each on the finite output of
// the previous one: read all declared lines, filter the raw records,
// expand the survivors, intern and insert the subnets, aggregate and
// drain the tries.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	lr := &lineReader{r: bufio.NewReader(r)}
	res := &Result{}

	var err error
	if res.Header, err = readHeader(lr); err != nil {
		return nil, err
	}
	p.logger.Debug("header", "registry", res.Header.Registry, "serial", res.Header.Serial, "version", res.Header.Version)

	var declared int
	if res.Summaries, declared, err = readSummaries(lr); err != nil {
		return nil, err
	}

	raw, err := readRecords(lr, declared)
	if err != nil {
		return nil, err
	}
	if err := lr.expectEOF(); err != nil {
		return nil, err
	}
	res.Stats.Lines = len(raw)

	accepted := p.filterRecords(raw)
	res.Stats.Filtered = len(raw) - len(accepted)

	expanded, err := p.expandRecords(accepted)
	if err != nil {
		return nil, err
	}

	cache := newDedupCache()
	tries := map[bitcodec.Family]*trie.Trie[*Metadata]{
		bitcodec.V4: trie.New[*Metadata](bitcodec.V4),
		bitcodec.V6: trie.New[*Metadata](bitcodec.V6),
	}

	if res.Records.ASN, err = p.insertRecords(expanded, cache, tries, &res.Stats); err != nil {
		return nil, err
	}
	res.Stats.ASNs = len(res.Records.ASN)
	res.Stats.Handles = cache.len()

	if res.Records.IPv4, err = drain(tries[bitcodec.V4], &res.Stats.IPv4); err != nil {
		return nil, err
	}
	if res.Records.IPv6, err = drain(tries[bitcodec.V6], &res.Stats.IPv6); err != nil {
		return nil, err
	}

	p.logger.Info("parsed delegation file",
		"registry", res.Header.Registry,
		"lines", res.Stats.Lines,
		"filtered", res.Stats.Filtered,
		"asn", res.Stats.ASNs,
		"ipv4", len(res.Records.IPv4),
		"ipv6", len(res.Records.IPv6),
		"handles", res.Stats.Handles,
	)

	return res, nil
}

func (p *Parser) filterRecords(raw []Record) []Record {
	accepted := make([]Record, 0, len(raw))
	for _, rec := range raw {
		if p.filter(rec) {
			accepted = append(accepted, rec)
		}
	}
	return accepted
}

func (p *Parser) expandRecords(recs []Record) ([]Expanded, error) {
	expanded := make([]Expanded, 0, len(recs))
	for _, rec := range recs {
		exp, err := Expand(rec, p.retained)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, exp)
	}
	return expanded, nil
}

// insertRecords interns and inserts the subnets into the tries of
// their family and returns the ASN records.
func (p *Parser) insertRecords(expanded []Expanded, cache *dedupCache, tries map[bitcodec.Family]*trie.Trie[*Metadata], stats *Stats) ([]ASNRecord, error) {
	asns := []ASNRecord{}

	for _, exp := range expanded {
		if exp.Type == TypeASN {
			asns = append(asns, exp.ASNRecords()...)
			continue
		}

		f, _ := bitcodec.ParseFamily(exp.Type)
		fs := familyStats(stats, f)

		h := cache.intern(exp.Metadata)
		for _, pfx := range exp.Subnets {
			fs.Expanded++

			ok, err := tries[f].InsertPrefix(pfx, h, p.mode)
			if err != nil {
				return nil, err
			}
			if !ok {
				fs.Dropped++
				p.logger.Debug("subnet covered by shorter prefix, dropped", "subnet", pfx)
			}
		}
	}

	return asns, nil
}

// drain aggregates t and returns its entries as records.
func drain(t *trie.Trie[*Metadata], fs *FamilyStats) ([]SubnetRecord, error) {
	fs.Entries = t.Len()

	if err := t.Merge(); err != nil {
		return nil, err
	}

	entries, err := t.Entries()
	if err != nil {
		return nil, err
	}
	fs.Merged = len(entries)

	records := make([]SubnetRecord, len(entries))
	for i, e := range entries {
		records[i] = SubnetRecord{Metadata: e.Value, Subnet: e.Prefix.String(), Prefix: e.Prefix}
	}
	return records, nil
}

func familyStats(stats *Stats, f bitcodec.Family) *FamilyStats {
	if f == bitcodec.V4 {
		return &stats.IPv4
	}
	return &stats.IPv6
}

func readHeader(lr *lineReader) (Header, error) {
	fields, err := lr.fields("header", headerFields)
	if err != nil {
		return Header{}, err
	}

	return Header{
		Version:   fields[0],
		Registry:  fields[1],
		Serial:    fields[2],
		Records:   fields[3],
		StartDate: fields[4],
		EndDate:   fields[5],
		UTCOffset: fields[6],
	}, nil
}

// readSummaries reads exactly three summary lines, one per type, and
// returns the sum of the declared counts.
func readSummaries(lr *lineReader) (map[string]Summary, int, error) {
	summaries := make(map[string]Summary, 3)
	var total int

	for range 3 {
		fields, err := lr.fields("summary", summaryFields)
		if err != nil {
			return nil, 0, err
		}

		s := Summary{Registry: fields[0], Type: fields[2], Summary: fields[5]}

		switch s.Type {
		case TypeASN, TypeIPv4, TypeIPv6:
		default:
			return nil, 0, &UnsupportedRecordTypeError{Line: lr.lineNo, Type: s.Type}
		}
		if _, ok := summaries[s.Type]; ok {
			return nil, 0, &ParseError{Line: lr.lineNo, Field: "type", Value: s.Type, Err: errors.New("duplicate summary")}
		}

		if s.Count, err = strconv.Atoi(fields[4]); err != nil || s.Count < 0 {
			if err == nil {
				err = errors.New("negative count")
			}
			return nil, 0, &ParseError{Line: lr.lineNo, Field: "count", Value: fields[4], Err: err}
		}

		if s.Count > math.MaxInt-total {
			return nil, 0, &ParseError{Line: lr.lineNo, Field: "count", Value: fields[4], Err: errors.New("declared records overflow")}
		}
		total += s.Count

		summaries[s.Type] = s
	}

	return summaries, total, nil
}

// readRecords reads exactly n data lines.
func readRecords(lr *lineReader, n int) ([]Record, error) {
	// n is untrusted input
	recs := make([]Record, 0, min(n, 1<<16))

	for range n {
		fields, err := lr.fields("record", recordFields)
		if err != nil {
			return nil, err
		}

		recs = append(recs, Record{
			Registry:   fields[0],
			CC:         fields[1],
			Type:       fields[2],
			Start:      fields[3],
			Value:      fields[4],
			Date:       fields[5],
			Status:     fields[6],
			Extensions: fields[7],
			Line:       lr.lineNo,
		})
	}

	return recs, nil
}

// lineReader reads lines, skipping comments and blank lines.
type lineReader struct {
	r      *bufio.Reader
	lineNo int
}

// next returns the next meaningful line, without trailing white space.
// At the end of input it returns io.EOF.
func (lr *lineReader) next() (string, error) {
	for {
		line, err := lr.r.ReadString('\n')
		if line == "" && err != nil {
			return "", err
		}
		lr.lineNo++

		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" || strings.HasPrefix(line, "#") {
			if err != nil {
				return "", err
			}
			continue
		}
		return line, nil
	}
}

// fields returns the n pipe separated fields of the next line, the
// last field holds the rest of the line and missing fields are empty.
func (lr *lineReader) fields(section string, n int) ([]string, error) {
	line, err := lr.next()
	if err == io.EOF {
		return nil, fmt.Errorf("reading %s: %w", section, ErrUnexpectedEOF)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", section, err)
	}

	fields := make([]string, n)
	copy(fields, strings.SplitN(line, "|", n))
	return fields, nil
}

// expectEOF returns a *CorruptInputError if any meaningful line is left.
func (lr *lineReader) expectEOF() error {
	line, err := lr.next()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return &CorruptInputError{Line: lr.lineNo, Preview: quote(line)}
}

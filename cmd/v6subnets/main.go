// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// v6subnets prints the IPv6 networks of a country, split on nibble
// boundaries, one per line.
//
// The networks are the IPv6 delegations of the country plus, with
// --asndb, the IPv6 prefixes announced by the ASNs delegated to the
// country. Covered networks are removed and adjacent ones aggregated
// before the split.
//
// Usage:
//
//	v6subnets [--cc EE] [--asndb ipasn.dat] [file]
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gaissmai/rirstat"
	"github.com/gaissmai/rirstat/internal/asnlookup"
	"github.com/gaissmai/rirstat/internal/bitcodec"
	"github.com/gaissmai/rirstat/internal/nibble"
)

const defaultFile = "delegated-ripencc-extended-latest"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "v6subnets: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		cc       string
		asnDB    string
		logLevel string
	)

	flagSet := pflag.NewFlagSet("v6subnets", pflag.ContinueOnError)
	flagSet.StringVar(&cc, "cc", "EE", "country code")
	flagSet.StringVar(&asnDB, "asndb", "", "IPASN snapshot, adds the prefixes announced by the country's ASNs")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() > 1 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(1))
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	path := defaultFile
	if flagSet.NArg() == 1 {
		path = flagSet.Arg(0)
	}

	cc = strings.ToUpper(cc)
	filter := func(rec rirstat.Record) bool {
		return rec.CC == cc && rec.Type != rirstat.TypeIPv4
	}

	res, err := rirstat.ParseFile(path, rirstat.WithFilter(filter), rirstat.WithLogger(logger))
	if err != nil {
		return err
	}

	subnets := make([]netip.Prefix, 0, len(res.Records.IPv6))
	for _, rec := range res.Records.IPv6 {
		subnets = append(subnets, rec.Prefix)
	}

	if asnDB != "" {
		db, err := asnlookup.Load(asnDB)
		if err != nil {
			return err
		}

		before := len(subnets)
		for _, rec := range res.Records.ASN {
			subnets = append(subnets, db.Prefixes(rec.ASN, bitcodec.V6)...)
		}
		logger.Info("asn prefixes", "asns", len(res.Records.ASN), "prefixes", len(subnets)-before)
	}

	uniq, err := rirstat.UniqPrefixes(subnets, true)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	for _, pfx := range uniq {
		nets, err := nibble.Split(pfx)
		if err != nil {
			return err
		}
		for _, n := range nets {
			fmt.Fprintln(w, n)
		}
	}
	return w.Flush()
}

// Copyright (c) 2026 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// rirparse parses an extended delegation file of a regional internet
// registry and writes the expanded and aggregated records to stdout.
//
// Usage:
//
//	rirparse [flags] [file]
//
// Without a file argument delegated-ripencc-extended-latest is read,
// "-" reads from stdin. Gzip and zstd compressed files are supported.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/gaissmai/rirstat"
	"github.com/gaissmai/rirstat/internal/config"
)

const defaultFile = "delegated-ripencc-extended-latest"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "rirparse: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath string
		format     string
		countries  []string
		strict     bool
		logLevel   string
	)

	flagSet := pflag.NewFlagSet("rirparse", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "config file (default $"+config.EnvVar+")")
	flagSet.StringVarP(&format, "format", "f", "", "output format, json or cbor (overrides config)")
	flagSet.StringSliceVar(&countries, "cc", nil, "only these country codes (overrides config)")
	flagSet.BoolVar(&strict, "strict", false, "fail on subnets covered by a shorter subnet")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() > 1 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(1))
	}

	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if len(countries) > 0 {
		cfg.Filter.Countries = countries
	}
	if strict {
		cfg.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts = append(opts, rirstat.WithLogger(logger))

	path := defaultFile
	if flagSet.NArg() == 1 {
		path = flagSet.Arg(0)
	}

	var res *rirstat.Result
	if path == "-" {
		res, err = rirstat.Parse(bufio.NewReader(os.Stdin), opts...)
	} else {
		res, err = rirstat.ParseFile(path, opts...)
	}
	if err != nil {
		return err
	}

	logger.Info("stats",
		"lines", res.Stats.Lines,
		"filtered", res.Stats.Filtered,
		"ipv4_expanded", res.Stats.IPv4.Expanded,
		"ipv4_dropped", res.Stats.IPv4.Dropped,
		"ipv4_merged", res.Stats.IPv4.Merged,
		"ipv6_expanded", res.Stats.IPv6.Expanded,
		"ipv6_dropped", res.Stats.IPv6.Dropped,
		"ipv6_merged", res.Stats.IPv6.Merged,
	)

	outFormat, err := cfg.Format()
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	if err := res.Encode(w, outFormat); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return w.Flush()
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

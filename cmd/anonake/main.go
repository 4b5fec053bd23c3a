// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Command anonake registers N clients with a server and runs handshakes in-process, printing the message flow with
// per-round timings and message lengths, and timing statistics over all runs.
//
// # Configuration File
//
// An optional YAML file sets the parameters, which command-line flags override:
//
//	kem: ristretto255
//	signature: ed25519
//	hash: sha256
//	prf: aes-ctr
//	broadcast: pke
//	clients: 16
//	workers: 0
//	runs: 10
//
// # Usage
//
//	go run ./cmd/anonake --kem=kyber768 --sig=mldsa44 --clients=64 --runs=20
//	go run ./cmd/anonake --sig=mldsa65 --broadcast=xvrf --clients=32
//	go run ./cmd/anonake --config=anonake.yaml --verbose
//	go run ./cmd/anonake --list
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bytemare/anonake"
)

// config is the command's configuration file.
type config struct {
	KEM       string `yaml:"kem"`
	Signature string `yaml:"signature"`
	Hash      string `yaml:"hash"`
	PRF       string `yaml:"prf"`
	Broadcast string `yaml:"broadcast"`
	Clients   int    `yaml:"clients"`
	Workers   int    `yaml:"workers"`
	Runs      int    `yaml:"runs"`
}

func defaultConfig() *config {
	return &config{
		KEM:       "ristretto255",
		Signature: "ed25519",
		Hash:      "sha256",
		PRF:       "aes-ctr",
		Broadcast: "pke",
		Clients:   anonake.DefaultClients,
		Runs:      1,
	}
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func (c *config) protocol() (*anonake.Configuration, error) {
	k, err := anonake.ParseKEM(c.KEM)
	if err != nil {
		return nil, err
	}

	s, err := anonake.ParseSignature(c.Signature)
	if err != nil {
		return nil, err
	}

	h, err := anonake.ParseHash(c.Hash)
	if err != nil {
		return nil, err
	}

	p, err := anonake.ParsePRF(c.PRF)
	if err != nil {
		return nil, err
	}

	b, err := anonake.ParseBroadcast(c.Broadcast)
	if err != nil {
		return nil, err
	}

	return &anonake.Configuration{
		Clients:   c.Clients,
		Workers:   c.Workers,
		KEM:       k,
		Signature: s,
		Hash:      h,
		PRF:       p,
		Broadcast: b,
	}, nil
}

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		kem        = flag.String("kem", "", "KEM of the public key encryption")
		sig        = flag.String("sig", "", "Server signature scheme")
		hash       = flag.String("hash", "", "Hash function for commitments and session keys")
		prf        = flag.String("prf", "", "PRF scheduling the broadcast randomness")
		bcast      = flag.String("broadcast", "", "Broadcast construction, pke or xvrf")
		clients    = flag.Int("clients", 0, "Number of registered clients")
		workers    = flag.Int("workers", -1, "Parallel fan-out bound, 0 for GOMAXPROCS")
		runs       = flag.Int("runs", 0, "Number of handshakes to run")
		verbose    = flag.Bool("verbose", false, "Log protocol verifications")
		list       = flag.Bool("list", false, "List the supported algorithms and exit")
	)
	flag.Parse()

	if *list {
		printSupported()
		return
	}

	cfg := defaultConfig()

	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Command-line flags override config file
	if *kem != "" {
		cfg.KEM = *kem
	}
	if *sig != "" {
		cfg.Signature = *sig
	}
	if *hash != "" {
		cfg.Hash = *hash
	}
	if *prf != "" {
		cfg.PRF = *prf
	}
	if *bcast != "" {
		cfg.Broadcast = *bcast
	}
	if *clients > 0 {
		cfg.Clients = *clients
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *runs > 0 {
		cfg.Runs = *runs
	}

	conf, err := cfg.protocol()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		printSupported()
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Printf("Logger error: %v\n", err)
			os.Exit(1)
		}
	}

	defer func() { _ = logger.Sync() }()

	conf.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err = run(ctx, conf, max(cfg.Runs, 1)); err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, conf *anonake.Configuration, runs int) error {
	fmt.Printf("[!] %s\n", conf)
	fmt.Printf("[R] Registering %d clients...\n", conf.Clients)

	start := time.Now()

	server, credentials, err := conf.Registration()
	if err != nil {
		return err
	}

	fmt.Printf("[!] Registration of %d clients took %s\n\n", conf.Clients, time.Since(start))

	durations := make(map[string][]float64)

	for i := range runs {
		creds := credentials[i%len(credentials)]

		client, err := conf.Client(creds)
		if err != nil {
			return err
		}

		transcript, err := anonake.Handshake(ctx, client, server)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}

		if i == 0 {
			printDiagram(transcript)
		}

		for _, round := range transcript.Rounds {
			durations[round.Name] = append(durations[round.Name], milliseconds(round.Duration))
		}

		durations["total"] = append(durations["total"], milliseconds(transcript.Total()))
	}

	fmt.Printf("\n=== STATS OVER %d RUNS ===\n", runs)

	for _, name := range []string{"round1", "round2", "round3", "round4", "round5", "round6", "total"} {
		printStats(name, durations[name])
	}

	return nil
}

func printDiagram(t *anonake.Transcript) {
	fmt.Printf("%-24s%24s\n", fmt.Sprintf("Client %d", t.ID), "Server")

	for _, round := range t.Rounds {
		arrow := "  ----- %s (%d B) ----->  "
		if round.Sender == anonake.PartyServer {
			arrow = "  <---- %s (%d B) ------  "
		}

		label := strings.ToUpper(round.Name[:1]) + round.Name[1:]
		message := "m" + round.Name[len(round.Name)-1:]

		if round.Length == 0 {
			fmt.Printf("%-48s%12s\n", "", label)
		} else {
			fmt.Printf("%-12s"+arrow+"\n", label, message, round.Length)
		}

		fmt.Printf("%48s[%s]\n", "", round.Duration)
	}

	fmt.Printf("\nSession key: %x\nSession id:  %x\nExchanged %d bytes in %s\n",
		t.SessionKey, t.SessionID, t.Bytes(), t.Total())
}

// printStats prints the mean, median, and standard deviation of the durations.
func printStats(name string, values []float64) {
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	stddev, _ := stats.StandardDeviation(values)

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Mean: %.3f ms\n", mean)
	fmt.Printf("  Median: %.3f ms\n", median)
	fmt.Printf("  Standard Deviation: %.3f ms\n", stddev)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func printSupported() {
	fmt.Println("Supported KEMs:")

	for _, k := range anonake.SupportedKEMs() {
		fmt.Printf("  %s\n", k)
	}

	fmt.Println("Supported signature schemes:")

	for _, s := range anonake.SupportedSignatures() {
		fmt.Printf("  %s\n", s)
	}

	fmt.Println("Supported hash functions:")

	for _, h := range anonake.SupportedHashes() {
		fmt.Printf("  %s\n", h)
	}

	fmt.Println("Supported PRFs:")

	for _, p := range anonake.SupportedPRFs() {
		fmt.Printf("  %s\n", p)
	}

	fmt.Println("Supported broadcasts:")

	for _, b := range anonake.SupportedBroadcasts() {
		fmt.Printf("  %s\n", b)
	}
}

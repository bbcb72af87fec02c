// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Command lexctl is a manual exercise harness for the conversion engine.

It loads a dictionary (either a compiled LXDX binary or a small JSON
reading->entries fixture), an optional connection matrix, and an optional
TOML config, then drives an InputSession from line-oriented stdin input.
It exists for local testing and debugging of session behavior; it is not a
dictionary compiler and not an IPC server.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/lexcore/internal/cli"
	"github.com/bastiangx/lexcore/pkg/config"
	"github.com/bastiangx/lexcore/pkg/conn"
	"github.com/bastiangx/lexcore/pkg/dict"
	"github.com/bastiangx/lexcore/pkg/history"
	"github.com/charmbracelet/log"
)

const Version = "0.1.0-beta"

func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Print("\nExiting...")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()

	dictPath := flag.String("dict", "", "Path to an LXDX dictionary (.lxdx) or a JSON reading->entries fixture (.json)")
	connPath := flag.String("conn", "", "Path to a connection matrix (binary .bin or MeCab/Mozc text matrix.def)")
	configFile := flag.String("config", "", "Path to a config.toml file (defaults applied when omitted)")
	debugMode := flag.Bool("v", false, "Toggle verbose mode")
	showVersion := flag.Bool("version", false, "Show current version")

	flag.Parse()

	if *showVersion {
		log.Printf("lexctl %s", Version)
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	if *dictPath == "" {
		log.Fatal("missing -dict: lexctl needs a dictionary fixture to exercise a session against")
	}
	d, err := loadDictionary(*dictPath)
	if err != nil {
		log.Fatalf("failed to load dictionary: %v", err)
	}

	var matrix *conn.Matrix
	if *connPath != "" {
		matrix, err = loadMatrix(*connPath)
		if err != nil {
			log.Fatalf("failed to load connection matrix: %v", err)
		}
	} else {
		log.Warn("no -conn given, running without bigram connection costs")
	}

	store := history.New(cfg)

	repl := cli.NewSessionRepl(d, matrix, store, cfg)
	if err := repl.Start(); err != nil {
		log.Fatalf("repl exited: %v", err)
	}
}

func loadDictionary(path string) (*dict.TrieDictionary, error) {
	if strings.HasSuffix(path, ".json") {
		return dict.LoadJSONFixture(path)
	}
	return dict.Open(path)
}

func loadMatrix(path string) (*conn.Matrix, error) {
	if strings.HasSuffix(path, ".def") || strings.HasSuffix(path, ".txt") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return conn.FromText(string(data))
	}
	return conn.Open(path)
}

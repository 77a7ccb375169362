// Copyright 2025 The pinyinserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements an interactive debug CLI for the pinyin decoder.

pyctl loads the same lexicon and history bigram pyserve does, then drives
an interactive terminal loop: type pinyin keystrokes to see ranked
candidates, or issue ":commit", ":clear" and ":flags" control commands. It
is intended for development and testing, never for production IPC use.

# Usage

	pyctl -lexicon /path/to/lexicon.bin -config /path/to/config.toml

# Command Line Flags

	-lexicon string
	    Path to the binary lexicon file (default "lexicon.bin")
	-config string
	    Path to config.toml (default resolved from the platform config dir)
	-history string
	    Path to the persisted history bigram file (overrides config)
	-flags string
	    Comma-separated fuzzy flag names to enable at startup
	-d  Enable debug mode with detailed logging
*/
package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"

	"github.com/kxchu/pinyinserve/internal/cli"
	"github.com/kxchu/pinyinserve/internal/utils"
	"github.com/kxchu/pinyinserve/pkg/config"
	"github.com/kxchu/pinyinserve/pkg/decoder"
	"github.com/kxchu/pinyinserve/pkg/history"
	"github.com/kxchu/pinyinserve/pkg/langmodel"
	"github.com/kxchu/pinyinserve/pkg/pinyin"
)

const Version = "0.1.0-beta"

// main calls other packages to initialize the CLI. main() does not
// implement decoding logic itself and only manages the startup flow.
func main() {
	lexiconPath := flag.String("lexicon", "lexicon.bin", "Path to the binary lexicon file")
	configPath := flag.String("config", "", "Path to config.toml (default resolved from platform config dir)")
	historyPath := flag.String("history", "", "Path to the persisted history bigram file (overrides config)")
	fuzzyFlags := flag.String("flags", "", "Comma-separated fuzzy flag names to enable at startup")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
		os.Exit(1)
	}

	appConfig, resolvedConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", resolvedConfigPath)

	if *historyPath != "" {
		appConfig.History.FilePath = *historyPath
	}

	resolvedLexiconPath := pathResolver.ResolveRelativePath(*lexiconPath)
	lm := loadModel(resolvedLexiconPath)
	hist := loadHistory(appConfig.History.FilePath, appConfig.History.UnknownFloor)

	opts := decoder.Options{
		BeamWidth:  appConfig.Decoder.BeamWidth,
		Candidates: appConfig.Decoder.Candidates,
		LMWeight:   appConfig.Decoder.LMWeight,
		HistWeight: appConfig.Decoder.HistWeight,
	}

	log.SetReportTimestamp(false)
	log.Debug("Input info:",
		"beamWidth", opts.BeamWidth,
		"candidates", opts.Candidates,
		"lexicon", resolvedLexiconPath)

	handler := cli.NewInputHandler(lm, hist, opts)

	var names []string
	if *fuzzyFlags != "" {
		names = splitNonEmpty(*fuzzyFlags, ',')
	} else {
		names = appConfig.Fuzzy.DefaultFlags
	}
	if len(names) > 0 {
		handler.SetFuzzyFlags(pinyin.ParseFlagNames(names))
	}

	if err := handler.Start(); err != nil {
		saveHistory(hist, appConfig.History.FilePath)
		log.Fatalf("CLI error: %v", err)
		os.Exit(1)
	}

	saveHistory(hist, appConfig.History.FilePath)
}

func loadModel(path string) *langmodel.StaticModel {
	m := langmodel.NewStaticModel()
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("No lexicon loaded from %s: %v. Running with an empty model...", path, err)
		return m
	}
	defer f.Close()

	if err := langmodel.LoadLexicon(f, m); err != nil {
		log.Errorf("Failed to load lexicon from %s: %v", path, err)
	}
	return m
}

func loadHistory(path string, unknownFloor float64) *history.Bigram {
	h := history.New()
	h.SetUnknown(unknownFloor)

	f, err := os.Open(path)
	if err != nil {
		log.Debugf("No history file at %s, starting fresh: %v", path, err)
		return h
	}
	defer f.Close()

	if err := h.Load(f); err != nil {
		log.Errorf("Failed to load history from %s: %v", path, err)
	}
	return h
}

func saveHistory(h *history.Bigram, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Errorf("Failed to open history file %s for writing: %v", path, err)
		return
	}
	defer f.Close()
	if err := h.Save(f); err != nil {
		log.Errorf("Failed to persist history to %s: %v", path, err)
	}
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// Copyright 2025 The pinyinserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the pinyin decoder's MessagePack IPC server.

Note: This is a BETA release. APIs and functionality may rapidly change.

pyserve loads a lexicon and a persisted history bigram, then serves decode
and commit requests over stdin/stdout using the wire protocol documented
in pkg/server.

# Usage

Start the server with default settings:

	pyserve

Use a custom lexicon and config path, with debug logging:

	pyserve -lexicon /path/to/lexicon.bin -config /path/to/config.toml -d

# Configuration

Runtime configuration is managed through a TOML file with decoder, history,
fuzzy and server sections. See pkg/config for the full shape. The config
file is created with defaults if it does not already exist.

# Command Line Flags

	-lexicon string
	    Path to the binary lexicon file (default "lexicon.bin")
	-config string
	    Path to config.toml (default resolved from the platform config dir)
	-history string
	    Path to the persisted history bigram file (overrides config)
	-d  Enable debug mode with detailed logging
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/kxchu/pinyinserve/internal/utils"
	"github.com/kxchu/pinyinserve/pkg/config"
	"github.com/kxchu/pinyinserve/pkg/decoder"
	"github.com/kxchu/pinyinserve/pkg/history"
	"github.com/kxchu/pinyinserve/pkg/langmodel"
	"github.com/kxchu/pinyinserve/pkg/pinyin"
	"github.com/kxchu/pinyinserve/pkg/server"
)

const (
	Version = "0.1.0-beta"
	AppName = "pinyinserve"
	gh      = "https://github.com/kxchu/pinyinserve"
)

// sigHandler saves the history bigram to historyPath and exits on
// Ctrl+C or SIGTERM.
func sigHandler(h *history.Bigram, historyPath string) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		saveHistory(h, historyPath)
		os.Exit(0)
	}()
}

func saveHistory(h *history.Bigram, path string) {
	f := mustCreate(path)
	if f == nil {
		return
	}
	defer f.Close()
	if err := h.Save(f); err != nil {
		log.Errorf("Failed to persist history to %s: %v", path, err)
	}
}

// main calls other packages to initialize the server. main() does not
// implement decoding logic itself and only manages the startup flow.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	lexiconPath := flag.String("lexicon", "lexicon.bin", "Path to the binary lexicon file")
	configPath := flag.String("config", "", "Path to config.toml (default resolved from platform config dir)")
	historyPath := flag.String("history", "", "Path to the persisted history bigram file (overrides config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

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

	sigHandler(hist, appConfig.History.FilePath)

	opts := decoder.Options{
		BeamWidth:  appConfig.Decoder.BeamWidth,
		Candidates: appConfig.Decoder.Candidates,
		LMWeight:   appConfig.Decoder.LMWeight,
		HistWeight: appConfig.Decoder.HistWeight,
	}

	srv := server.NewStdioServer(lm, hist, opts)
	if len(appConfig.Fuzzy.DefaultFlags) > 0 {
		srv.SetFuzzyFlags(pinyin.ParseFlagNames(appConfig.Fuzzy.DefaultFlags))
	}

	showStartupInfo(resolvedLexiconPath, appConfig.History.FilePath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}

	saveHistory(hist, appConfig.History.FilePath)
}

// loadModel reads the lexicon file at path into a StaticModel. A missing
// or unreadable lexicon yields an empty model rather than failing
// startup, matching the teacher's "run with empty dict" tolerance.
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

// loadHistory reads the persisted history bigram at path, if present.
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

func mustCreate(path string) *os.File {
	f, err := os.Create(path)
	if err != nil {
		log.Errorf("Failed to open history file %s for writing: %v", path, err)
		return nil
	}
	return f
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ pinyinserve ] Decodes pinyin keystrokes into ranked hanzi candidates!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(lexiconPath, historyPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("=============")
	println(" pinyinserve ")
	println("=============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("lexicon: ( %s )", lexiconPath)
	log.Infof("history: ( %s )", historyPath)
	log.Info("status: ready")
	println("=============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

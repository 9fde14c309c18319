package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/pokernow/analyzer/cmd/pokernow-analyzer/shared"
	"github.com/pokernow/analyzer/internal/builder"
	"github.com/pokernow/analyzer/internal/config"
	"github.com/pokernow/analyzer/internal/ledger"
	"github.com/pokernow/analyzer/internal/merge"
	"github.com/pokernow/analyzer/internal/parser"
	"github.com/pokernow/analyzer/internal/storage"
)

// AnalyzeCmd parses raw logs into per-session datasets
type AnalyzeCmd struct {
	Logs   []string `kong:"arg,required,help='PokerNow log CSV files'"`
	Ledger string   `kong:"help='Ledger CSV with buy-ins and cash-outs'"`
	Output string   `kong:"short='o',help='Output directory (overrides config)'"`
	Config string   `kong:"default='analyzer.hcl',help='Config file path'"`
	Debug  bool     `kong:"help='Enable debug logging'"`
}

func (c *AnalyzeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(c.Debug, cfg.Analyzer.LogLevel)

	outputDir := cfg.Analyzer.OutputDir
	if c.Output != "" {
		outputDir = c.Output
	}

	ledgerPath := cfg.Analyzer.Ledger
	if c.Ledger != "" {
		ledgerPath = c.Ledger
	}
	var entries []ledger.Entry
	if ledgerPath != "" {
		entries, err = ledger.ParseFile(ledgerPath)
		if err != nil {
			logger.Warn("could not read ledger, profits will be incomplete",
				"path", ledgerPath, "error", err)
		}
	} else {
		logger.Warn("no ledger given, profits will be incomplete")
	}

	opts := builder.Options{
		AbsTolerance: cfg.Checks.AbsTolerance,
		PctTolerance: cfg.Checks.PctTolerance,
	}

	var g errgroup.Group
	for _, logPath := range c.Logs {
		logPath := logPath
		g.Go(func() error {
			return analyzeLog(logger, logPath, entries, outputDir, cfg, opts)
		})
	}
	return g.Wait()
}

func analyzeLog(logger *log.Logger, logPath string, entries []ledger.Entry, outputDir string, cfg *config.Config, opts builder.Options) error {
	logLogger := logger.With("log", filepath.Base(logPath))

	events, err := parser.New().ParseFile(logPath)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", logPath, err)
	}

	hands, players, err := builder.New(logLogger, opts).Build(events, entries)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", logPath, err)
	}

	date := merge.DateToken(logPath, cfg.Merge.DefaultYear)
	dir := filepath.Join(outputDir, date)
	summary := storage.NewSummary(logPath, date, hands, players)
	if err := storage.Save(dir, hands, players, summary); err != nil {
		return err
	}

	logLogger.Info("analyzed log",
		"hands", len(hands), "players", len(players), "output", dir)
	return nil
}

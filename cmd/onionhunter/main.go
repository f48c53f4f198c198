// Command onionhunter searches for Tor v3 onion addresses whose
// hostname starts with one of the given prefixes and prints the
// matching keypairs in the key blob format tor expects on disk.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/onionvanity/onionhunter/internal/config"
	"github.com/onionvanity/onionhunter/internal/ui"
	"github.com/onionvanity/onionhunter/pkg/generator"
	"github.com/onionvanity/onionhunter/pkg/generator/cpu"
	"github.com/onionvanity/onionhunter/pkg/generator/stats"
	"github.com/onionvanity/onionhunter/pkg/generator/tor"
	"github.com/onionvanity/onionhunter/pkg/onion"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s[!] Error: %v%s\n", ui.ColorRed, err, ui.ColorReset)
		os.Exit(1)
	}
}

func run() error {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	workers := flag.Int("workers", 0, "number of worker threads (default: number of CPU cores)")
	updateInterval := flag.Int("update-interval", 0, "statistics update interval in seconds (default: 30)")
	count := flag.Int("count", 0, "generate this many addresses without prefix filtering and exit")
	saveDir := flag.String("save-dir", "", "write hidden service key files for each match under this directory")
	mnemonic := flag.Bool("mnemonic", false, "print the seed of each match as a BIP-39 mnemonic")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (optional)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *showVersion {
		fmt.Printf("onionhunter version=%s\n", version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.Prefixes = args
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *updateInterval > 0 {
		cfg.UpdateIntervalSec = *updateInterval
	}
	if *count > 0 {
		cfg.Count = *count
	}
	if *saveDir != "" {
		cfg.SaveDir = *saveDir
	}
	if *mnemonic {
		cfg.Mnemonic = true
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ui.PrintBanner(version)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	if cfg.Count > 0 {
		return runBatch(ctx, cfg)
	}
	return runSearch(ctx, cfg, logger)
}

// runBatch generates a fixed number of addresses with no prefix
// filtering and prints each one.
func runBatch(ctx context.Context, cfg config.Config) error {
	cand := tor.NewCandidate(nil)
	for i := 0; i < cfg.Count; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		res, err := cand.Next()
		if err != nil {
			return err
		}
		ui.PrintResult(res)
		if err := handleMatch(cfg, res, zap.NewNop()); err != nil {
			return err
		}
	}
	return nil
}

// runSearch runs the parallel prefix search until interrupted.
func runSearch(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	agg := stats.New(prometheus.DefaultRegisterer)
	coord := cpu.New(nil, agg, logger)

	results, err := coord.Start(ctx, &generator.Config{
		Prefixes:    cfg.Prefixes,
		Workers:     cfg.Workers,
		ReportEvery: cfg.ReportEvery,
		GracePeriod: time.Duration(cfg.GracePeriodSec) * time.Second,
	})
	if err != nil {
		return err
	}

	shortest := cfg.Prefixes[0]
	for _, p := range cfg.Prefixes {
		if len(p) < len(shortest) {
			shortest = p
		}
	}
	ui.PrintSearchInfo(cfg.Prefixes, cfg.Workers, tor.EstimateAttempts(len(shortest)))
	ui.StartStatusMonitor(ctx, agg.Snapshot)

	start := time.Now()
	ticker := time.NewTicker(time.Duration(cfg.UpdateIntervalSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case res, ok := <-results:
			if !ok {
				// Workers died without a cancellation: source failure.
				agg.Flush()
				gen, found := agg.Snapshot()
				ui.PrintStatus(gen, found)
				return errors.New("search stopped: all workers exited")
			}
			ui.PrintResult(res)
			if err := handleMatch(cfg, res, logger); err != nil {
				logger.Error("handling match", zap.Error(err))
			}

		case <-ticker.C:
			gen, found := agg.Snapshot()
			ui.PrintStatus(gen, found)

		case <-ctx.Done():
			for range results {
				// Matches queued at shutdown are discarded with the search.
			}
			agg.Flush()
			gen, found := agg.Snapshot()
			ui.PrintShutdown(gen, found, time.Since(start))
			return nil
		}
	}
}

// handleMatch applies the optional per-match outputs: key file
// persistence and the seed mnemonic.
func handleMatch(cfg config.Config, res generator.Result, logger *zap.Logger) error {
	if cfg.SaveDir != "" {
		dir := filepath.Join(cfg.SaveDir, strings.TrimSuffix(res.Hostname, onion.Suffix))
		if err := onion.SaveKeyFiles(dir, res.Hostname, res.PublicKey, res.PrivateKey); err != nil {
			return err
		}
		fmt.Printf("Saved key files to:            %s\n\n", dir)
		logger.Info("saved key files", zap.String("dir", dir))
	}
	if cfg.Mnemonic {
		words, err := onion.SeedMnemonic(res.Seed)
		if err != nil {
			return err
		}
		fmt.Printf("Seed mnemonic:                 %s\n\n", words)
	}
	return nil
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

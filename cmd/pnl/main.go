package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"vaultpnl/internal/cli"
	"vaultpnl/internal/config"
	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/chain"
	"vaultpnl/pkg/format"
	"vaultpnl/pkg/source"

	// Import for side-effects: registers source providers
	_ "vaultpnl/pkg/source/morpho"
	_ "vaultpnl/pkg/source/postgres"
)

const requestTimeout = 60 * time.Second

// archiver is implemented by providers that can store fetched history.
type archiver interface {
	Migrate(ctx context.Context) error
	Archive(ctx context.Context, address string, chainID int, points []analytics.Point) error
}

func main() {
	var (
		configFile = flag.String("f", config.DefaultPath, "the config file")
		vault      = flag.String("vault", "", "vault address (0x...)")
		chainID    = flag.Int("chain", 1, "chain id")
		start      = flag.String("start", "", "start date, YYYY-MM-DD[ HH:MM[:SS]] UTC (default: 30 days ago)")
		end        = flag.String("end", "", "end date (default: today)")
		full       = flag.Bool("full", false, "use the whole history instead of start/end")
		archive    = flag.String("archive", "", "provider name to archive the fetched history into")
		verbose    = flag.Bool("v", false, "print the configuration summary")
	)
	flag.Parse()
	log.SetFlags(0)

	if !chain.LooksLikeAddress(*vault) {
		fmt.Fprintln(os.Stderr, "usage: pnl -vault 0x... [-chain 1] [-start 2025-01-01] [-end 2025-02-01] [-full] [-archive name]")
		os.Exit(2)
	}
	network, ok := chain.NetworkByID(*chainID)
	if !ok {
		log.Fatalf("unknown chain id %d", *chainID)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *verbose {
		for _, line := range cli.ConfigSummaryLines(cfg) {
			log.Printf("  - %s", line)
		}
	}
	if cfg.Source.Value == nil {
		log.Fatalf("source config is not loaded")
	}
	provider, providers, err := cfg.Source.Value.Build()
	if err != nil {
		log.Fatalf("build source providers: %v", err)
	}

	defStart, defEnd := format.DefaultRange(time.Now(), cfg.DefaultRangeDays)
	startDate, endDate := orDefault(*start, defStart), orDefault(*end, defEnd)
	startTS, err := format.ParseDate(startDate)
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	endTS, err := format.ParseDate(endDate)
	if err != nil {
		log.Fatalf("end: %v", err)
	}
	if !*full && endTS <= startTS {
		log.Fatalf("end date must be strictly after start date")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var lo, hi *int64
	if !*full {
		lo, hi = &startTS, &endTS
	}
	// Archiving reads from the upstream default provider, never from the archive itself.
	var reader source.SeriesSource = provider
	if *archive != "" {
		reader = providers[cfg.Source.Value.Default]
	}
	series, err := reader.Series(ctx, *vault, *chainID, lo, hi)
	if err != nil {
		log.Fatalf("fetch series: %v", err)
	}

	priced := make([]analytics.Point, 0, len(series))
	for _, p := range series {
		if p.HasPrice() {
			priced = append(priced, p)
		}
	}
	var pair analytics.BoundaryPair
	if *full {
		pair, err = analytics.FullRange(priced)
	} else {
		pair, err = analytics.SelectBoundaries(priced, startTS, endTS)
	}
	if err != nil {
		log.Fatalf("select boundaries: %v", err)
	}
	pnl, err := analytics.PnL(pair.Start.Price(), pair.End.Price())
	if err != nil {
		log.Fatalf("compute pnl: %v", err)
	}

	fmt.Printf("Vault:   %s\n", chain.Checksum(*vault))
	fmt.Printf("Chain:   %d (%s)\n", *chainID, network.Slug)
	fmt.Printf("Start:   %d (%s)  price %.6f\n", pair.Start.Timestamp, format.Timestamp(pair.Start.Timestamp), pair.Start.Price())
	fmt.Printf("End:     %d (%s)  price %.6f\n", pair.End.Timestamp, format.Timestamp(pair.End.Timestamp), pair.End.Price())
	fmt.Printf("PnL:     %.4f (%s)\n", pnl, format.Percent(&pnl))
	if perf := analytics.ComputePerformance(series); perf != nil {
		fmt.Printf("Drawdown: %s  Flows: %s  TVL change: %s\n",
			format.Percent(&perf.DrawdownPct),
			format.SignedUSDShort(&perf.FlowUSD),
			format.SignedUSDShort(&perf.TVLChangeUSD))
	}

	if *archive != "" {
		if err := archiveSeries(ctx, providers, *archive, *vault, *chainID, series); err != nil {
			log.Fatalf("archive: %v", err)
		}
		fmt.Printf("Archived %d points into %s\n", len(series), *archive)
	}
}

func archiveSeries(ctx context.Context, providers map[string]source.Provider, name, vault string, chainID int, series []analytics.Point) error {
	target, ok := providers[name]
	if !ok {
		return fmt.Errorf("provider %q is not configured", name)
	}
	store, ok := target.(archiver)
	if !ok {
		return fmt.Errorf("provider %q cannot archive history", name)
	}
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	return store.Archive(ctx, vault, chainID, series)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

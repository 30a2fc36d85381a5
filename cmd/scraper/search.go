package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/aluiziolira/go-scrape-drinks/pipeline"
	"github.com/aluiziolira/go-scrape-drinks/scraper"
	"github.com/aluiziolira/go-scrape-drinks/sites"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type searchFlags struct {
	drink         string
	mode          string
	configPath    string
	format        string
	output        string
	parallel      int
	pages         int
	fetcher       string
	metricsAddr   string
	searchURLs    []string
	respectRobots bool
	verbose       bool
}

func searchCmd() *cobra.Command {
	flags := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search every configured retailer for a drink and rank results by price per standard drink",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.drink, "drink", "d", "vodka", "search term")
	f.StringVarP(&flags.mode, "mode", "m", config.ModePopulate, "database mode: populate or update")
	f.StringVarP(&flags.configPath, "config", "c", "", "path to a YAML config file")
	f.StringVar(&flags.format, "format", "csv", "output format: csv, json, dual, postgres or mongo")
	f.StringVarP(&flags.output, "output", "o", "", "output file for csv, json and dual formats")
	f.IntVarP(&flags.parallel, "parallel", "n", 0, "extraction workers, must be greater than one")
	f.IntVar(&flags.pages, "pages", 0, "maximum listing pages per retailer")
	f.StringVar(&flags.fetcher, "fetcher", config.FetcherHTTP, "page fetcher: http or browser")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	f.StringSliceVar(&flags.searchURLs, "url", nil, "retailer search URL prefix; the search term is appended")
	f.BoolVar(&flags.respectRobots, "respect-robots", false, "respect robots.txt directives")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")

	return cmd
}

func runSearch(cmd *cobra.Command, flags *searchFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, flags, cfg)

	logger, _ := newLogger(cfg.Verbose)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
	}()

	metrics := scraper.NewMetrics()
	fetcher, closeFetcher, err := createFetcher(cfg, metrics)
	if err != nil {
		return fmt.Errorf("initialising fetcher: %w", err)
	}
	defer closeFetcher()

	writer, err := createWriter(cfg)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	metricsServer := serveMetrics(cfg.MetricsAddr, metrics)

	slog.Info("starting search",
		slog.String("drink", flags.drink),
		slog.Any("search_urls", cfg.SearchURLs),
		slog.Int("pages", cfg.MaxPages),
		slog.Int("workers", cfg.Parallelism),
		slog.String("fetcher", cfg.FetcherType),
		slog.String("format", cfg.OutputFormat),
		slog.String("mode", cfg.Mode),
	)

	s := scraper.NewSearcher(cfg, fetcher, metrics)
	p := pipeline.NewPipeline(writer, cfg.BatchSize)

	result, err := s.Run(ctx, flags.drink, p)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("pipeline shutdown failed: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return fmt.Errorf("output validation failed: %w", err)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, cfg, p.GetMetrics())
	return nil
}

// applyFlags lets explicitly set flags win over file and environment values.
func applyFlags(cmd *cobra.Command, flags *searchFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("mode") {
		cfg.Mode = strings.ToLower(flags.mode)
	}
	if changed("format") {
		cfg.OutputFormat = strings.ToLower(flags.format)
	}
	if changed("output") {
		cfg.OutputFile = flags.output
	}
	if changed("parallel") {
		cfg.Parallelism = flags.parallel
	}
	if changed("pages") {
		cfg.MaxPages = flags.pages
	}
	if changed("fetcher") {
		cfg.FetcherType = strings.ToLower(flags.fetcher)
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = flags.metricsAddr
	}
	if changed("url") {
		cfg.SearchURLs = flags.searchURLs
	}
	if changed("respect-robots") {
		cfg.RespectRobotsTxt = flags.respectRobots
	}
	if changed("verbose") {
		cfg.Verbose = flags.verbose
	}
}

func createFetcher(cfg *config.Config, metrics *scraper.Metrics) (sites.Fetcher, func(), error) {
	if cfg.FetcherType == config.FetcherBrowser {
		bf, err := scraper.NewBrowserFetcher(cfg, metrics)
		if err != nil {
			return nil, nil, err
		}
		return bf, func() {
			if err := bf.Close(); err != nil {
				slog.Error("close browser", slog.Any("error", err))
			}
		}, nil
	}

	hf, err := scraper.NewHTTPFetcher(cfg, metrics)
	if err != nil {
		return nil, nil, err
	}
	return hf, func() {}, nil
}

func serveMetrics(addr string, metrics *scraper.Metrics) *http.Server {
	if addr == "" {
		return nil
	}
	server := &http.Server{
		Addr:    addr,
		Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

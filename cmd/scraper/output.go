package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aluiziolira/go-scrape-drinks/config"
	"github.com/aluiziolira/go-scrape-drinks/models"
	"github.com/aluiziolira/go-scrape-drinks/pipeline"
)

func createWriter(cfg *config.Config) (pipeline.OutputWriter, error) {
	switch cfg.OutputFormat {
	case "json":
		return pipeline.NewJSONWriter(cfg.OutputFile)
	case "csv":
		return pipeline.NewCSVWriter(cfg.OutputFile)
	case "dual":
		return pipeline.NewDualWriter(cfg.OutputFile)
	case "postgres":
		return pipeline.NewPostgresWriter(cfg.PostgresDSN, cfg.Mode, cfg.BatchSize)
	case "mongo":
		return pipeline.NewMongoWriter(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.Mode)
	default:
		return nil, fmt.Errorf("unsupported format: %s", cfg.OutputFormat)
	}
}

func printSummary(result *models.SearchResult, cfg *config.Config, metrics map[string]interface{}) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Printf("Search complete: %q\n", result.Term)

	totalItems := int64(0)
	if processed, ok := metrics["processed_records"].(int64); ok {
		totalItems = processed
	}
	duration := result.EndTime.Sub(result.StartTime)

	fmt.Printf("  Listing pages: %d\n", result.PageCount)
	fmt.Printf("  Item URLs:     %d\n", result.ItemCount)
	fmt.Printf("  Records:       %d\n", totalItems)
	fmt.Printf("  Failed items:  %d\n", result.FailureCount)
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	if len(result.MalformedPages) > 0 {
		fmt.Printf("  Malformed:     %v\n", result.MalformedPages)
	}
	if len(result.SkippedRetailers) > 0 {
		fmt.Printf("  Skipped sites: %v\n", result.SkippedRetailers)
	}
	if valErrors, ok := metrics["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Printf("  Validation:    %v\n", valErrors)
	}
	if len(result.Records) > 0 {
		best := result.Records[0]
		fmt.Printf("  Best value:    %s (%s) $%s, %.3f drinks per dollar\n",
			best.Name, best.Retailer, best.Price.StringFixed(2), best.Efficiency)
	}
	fmt.Printf("  Duration:      %v\n", duration.Round(time.Millisecond))
	switch cfg.OutputFormat {
	case "postgres", "mongo":
		fmt.Printf("  Output:        %s (%s mode)\n", cfg.OutputFormat, cfg.Mode)
	default:
		fmt.Printf("  Output file:   %s\n", cfg.OutputFile)
	}
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/devsalary/internal/api"
	"github.com/fr4nk3nst1ner/devsalary/internal/client"
	"github.com/fr4nk3nst1ner/devsalary/internal/config"
	"github.com/fr4nk3nst1ner/devsalary/internal/models"
	"github.com/fr4nk3nst1ner/devsalary/internal/scraper"
	"github.com/fr4nk3nst1ner/devsalary/internal/stats"
	"github.com/fr4nk3nst1ner/devsalary/internal/ui"
	"github.com/fr4nk3nst1ner/devsalary/internal/utils"
)

// printExamples displays usage examples for the program
func printExamples() {
	fmt.Println("\nDevSalary Usage Examples")
	fmt.Println("\n1. Average salaries per language on HeadHunter (Moscow):")
	fmt.Println("   devsalary -source hh")

	fmt.Println("\n2. Both sources, four languages at a time, keep going when a language fails:")
	fmt.Println("   devsalary -workers 4 -isolate")

	fmt.Println("\n3. Only Go and Rust on SuperJob, as JSON (needs SUPERJOB_API_KEY):")
	fmt.Println("   devsalary -source superjob -languages Go,Rust -json")

	fmt.Println("\n4. Show the Python vacancies SuperJob returns and how each salary is estimated:")
	fmt.Println("   devsalary -source superjob -listings Python")

	fmt.Println("\n5. Serve reports over HTTP:")
	fmt.Println("   devsalary -serve :8080")
}

func main() {
	// Command line flags
	source := flag.String("source", "all", "Source to query (hh, superjob, all)")
	languages := flag.String("languages", "", "Comma separated languages, overrides the configured catalog")
	configPath := flag.String("config", "", "Path to config.yaml")
	workers := flag.Int("workers", 0, "Languages fetched concurrently (default from config, 1 = sequential)")
	isolate := flag.Bool("isolate", false, "Skip languages whose fetch failed instead of aborting")
	jsonOutput := flag.Bool("json", false, "Print reports as JSON")
	listings := flag.String("listings", "", "Print the listings of one language instead of statistics")
	serve := flag.String("serve", "", "Serve statistics over HTTP on this address")
	proxyURL := flag.String("proxy", "", "Proxy URL to use")
	debug := flag.Bool("debug", false, "Enable debug logging")
	logJSON := flag.Bool("log-json", false, "Write logs as JSON")
	examples := flag.Bool("examples", false, "Show usage examples")

	// Banner control flags (two aliases for the same functionality)
	silence := flag.Bool("silence", false, "Silence the banner")
	noBanner := flag.Bool("nobanner", false, "Silence the banner (alias for -silence)")

	flag.Parse()

	logger := ui.NewLogger(*debug, *logJSON)

	ui.PrintBanner(*silence || *noBanner || *jsonOutput)

	if *examples {
		printExamples()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", logger.Args("error", err))
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *isolate {
		cfg.IsolateFailures = true
	}
	if *proxyURL != "" {
		cfg.HTTP.ProxyURL = *proxyURL
	}
	if list := utils.SplitList(*languages); len(list) > 0 {
		cfg.Languages = list
	}

	httpClient := client.NewClient(client.Options{
		ConnectTimeout:    cfg.HTTP.ConnectTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ProxyURL:          cfg.HTTP.ProxyURL,
		UserAgent:         cfg.HTTP.UserAgent,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
	})
	factory := func(name string) (scraper.Source, error) {
		return newSource(name, cfg, httpClient, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *serve != "" {
		srv := api.NewServer(cfg, factory, logger)
		logger.Info("starting server", logger.Args("addr", *serve))
		if err := http.ListenAndServe(*serve, srv.Router()); err != nil {
			logger.Fatal("server failed", logger.Args("error", err))
		}
		return
	}

	// Set sources to search - default to all sources if not specified
	var sourcesToSearch []string
	if strings.ToLower(*source) == "all" {
		sourcesToSearch = scraper.SourceNames
	} else {
		if !scraper.IsValidSource(*source) {
			logger.Fatal("invalid source", logger.Args("source", *source, "valid", strings.Join(scraper.SourceNames, ", ")))
		}
		sourcesToSearch = []string{strings.ToLower(*source)}
	}

	if *listings != "" {
		for _, name := range sourcesToSearch {
			err := printListings(ctx, factory, name, *listings, cfg.Currency)
			if errors.Is(err, config.ErrMissingAPIKey) && len(sourcesToSearch) > 1 {
				logger.Warn("skipping source without API key", logger.Args("source", name))
				continue
			}
			if err != nil {
				logger.Fatal("failed to fetch listings", logger.Args("source", name, "error", err))
			}
		}
		return
	}

	var reports []*models.Report
	for _, name := range sourcesToSearch {
		src, err := factory(name)
		if errors.Is(err, config.ErrMissingAPIKey) && len(sourcesToSearch) > 1 {
			logger.Warn("skipping source without API key", logger.Args("source", name))
			continue
		}
		if err != nil {
			logger.Fatal("failed to create source", logger.Args("source", name, "error", err))
		}

		driver := stats.NewDriver(src, cfg.Currency)
		driver.Workers = cfg.Workers
		driver.IsolateFailures = cfg.IsolateFailures
		driver.Logger = logger

		var bar *pb.ProgressBar
		if !*jsonOutput {
			bar = pb.New(len(cfg.Languages)).SetWriter(os.Stderr).Start()
			driver.Progress = bar
		}

		report, err := driver.Run(ctx, cfg.Languages)
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			logger.Fatal("failed to collect statistics", logger.Args("source", name, "error", err))
		}
		reports = append(reports, report)
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			logger.Fatal("failed to encode reports", logger.Args("error", err))
		}
		return
	}

	for _, report := range reports {
		out, err := ui.RenderReport(report)
		if err != nil {
			logger.Fatal("failed to render report", logger.Args("error", err))
		}
		fmt.Println(out)
	}
}

func newSource(name string, cfg *config.AppConfig, httpClient *client.Client, logger *pterm.Logger) (scraper.Source, error) {
	src, err := scraper.NewSource(name, cfg, httpClient)
	if err != nil {
		return nil, err
	}
	switch s := src.(type) {
	case *scraper.HeadHunter:
		s.WithLogger(logger)
	case *scraper.SuperJob:
		s.WithLogger(logger)
	}
	return src, nil
}

// printListings dumps one language's listings with the estimate each one yields
func printListings(ctx context.Context, factory api.SourceFactory, name, language, currency string) error {
	src, err := factory(name)
	if err != nil {
		return err
	}
	listings, found, err := src.FetchAll(ctx, language)
	if err != nil {
		return err
	}
	fmt.Println(ui.RenderListings(name, language, listings, found, currency))
	return nil
}

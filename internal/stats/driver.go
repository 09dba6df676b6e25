package stats

import (
	"context"
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/fr4nk3nst1ner/devsalary/internal/models"
	"github.com/fr4nk3nst1ner/devsalary/internal/scraper"
	"github.com/fr4nk3nst1ner/devsalary/internal/utils"
)

// Driver builds a per-language report from one source
type Driver struct {
	Source   scraper.Source
	Currency string

	// Workers bounds how many languages are fetched at once. One keeps
	// a single request in flight.
	Workers int

	// IsolateFailures drops a language whose fetch failed instead of
	// aborting the whole run
	IsolateFailures bool

	Logger   *pterm.Logger
	Progress *pb.ProgressBar
}

type languageResult struct {
	stats models.LanguageStatistics
	found bool
	err   error
}

// NewDriver creates a sequential, fail-fast driver for a source
func NewDriver(source scraper.Source, currency string) *Driver {
	return &Driver{
		Source:   source,
		Currency: currency,
		Workers:  1,
	}
}

// Run collects statistics for every catalog language. The report keeps
// catalog order and leaves out languages the source found too few vacancies for.
func (d *Driver) Run(ctx context.Context, catalog []string) (*models.Report, error) {
	logger := d.logger()
	languages := utils.NormalizeLanguages(catalog)
	results := make([]languageResult, len(languages))

	if d.Workers <= 1 {
		for i, lang := range languages {
			results[i] = d.collect(ctx, lang)
			if results[i].err != nil && !d.IsolateFailures {
				return nil, results[i].err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.Workers)
		for i, lang := range languages {
			g.Go(func() error {
				results[i] = d.collect(gctx, lang)
				if results[i].err != nil && !d.IsolateFailures {
					return results[i].err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	report := &models.Report{Source: d.Source.Name()}
	for i, lang := range languages {
		r := results[i]
		switch {
		case r.err != nil:
			logger.Warn("language skipped after fetch failure",
				logger.Args("source", report.Source, "language", lang, "error", r.err))
			report.Failures = append(report.Failures, models.LanguageFailure{Language: lang, Error: r.err.Error()})
		case r.found:
			report.Add(lang, r.stats)
		}
	}
	return report, nil
}

// Language collects the statistics of a single language. ok is false when
// the source reported nothing worth averaging.
func (d *Driver) Language(ctx context.Context, language string) (models.LanguageStatistics, bool, error) {
	r := d.collect(ctx, language)
	return r.stats, r.found, r.err
}

func (d *Driver) collect(ctx context.Context, language string) languageResult {
	logger := d.logger()
	if d.Progress != nil {
		defer d.Progress.Increment()
	}

	listings, found, err := d.Source.FetchAll(ctx, language)
	if err != nil {
		return languageResult{err: fmt.Errorf("%s statistics for %s: %w", d.Source.Name(), language, err)}
	}
	if found == 0 {
		logger.Debug("language omitted", logger.Args("source", d.Source.Name(), "language", language))
		return languageResult{}
	}

	estimates := make([]models.Estimate, 0, len(listings))
	for _, listing := range listings {
		estimates = append(estimates, Estimate(listing.Salary, d.Currency))
	}
	stats := Summarize(estimates, found)

	logger.Debug("language summarized", logger.Args(
		"source", d.Source.Name(),
		"language", language,
		"found", stats.VacanciesFound,
		"processed", stats.VacanciesProcessed,
		"average", stats.AverageSalary,
	))
	return languageResult{stats: stats, found: true}
}

func (d *Driver) logger() *pterm.Logger {
	if d.Logger == nil {
		return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return d.Logger
}

package stats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cheggaaa/pb/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/devsalary/internal/client"
	"github.com/fr4nk3nst1ner/devsalary/internal/config"
	"github.com/fr4nk3nst1ner/devsalary/internal/models"
	"github.com/fr4nk3nst1ner/devsalary/internal/scraper"
)

type fakeResult struct {
	listings []models.Listing
	found    int
	err      error
}

type fakeSource struct {
	mu      sync.Mutex
	results map[string]fakeResult
	calls   []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchAll(ctx context.Context, language string) ([]models.Listing, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, language)
	r := f.results[language]
	return r.listings, r.found, r.err
}

func rur(from, to float64) models.Listing {
	s := &models.Salary{Currency: models.LocalCurrency}
	if from > 0 {
		s.From = &from
	}
	if to > 0 {
		s.To = &to
	}
	return models.Listing{Salary: s}
}

func newFakeSource() *fakeSource {
	return &fakeSource{results: map[string]fakeResult{
		"Python": {found: 300, listings: []models.Listing{rur(0, 1000), rur(1000, 0), rur(1000, 2000)}},
		"Go":     {found: 150, listings: []models.Listing{rur(200000, 300000), {Salary: nil}, {Salary: &models.Salary{Currency: "USD", To: ptr(5000)}}}},
		"Ruby":   {found: 0},
		"1C":     {found: 400},
	}}
}

func ptr(v float64) *float64 { return &v }

func TestDriverRun(t *testing.T) {
	src := newFakeSource()
	report, err := NewDriver(src, models.LocalCurrency).Run(context.Background(), []string{"Python", "Ruby", "Go", "1C"})
	require.NoError(t, err)

	assert.Equal(t, "fake", report.Source)
	assert.Equal(t, []string{"Python", "Go", "1C"}, report.Languages())
	assert.Equal(t, []string{"Python", "Ruby", "Go", "1C"}, src.calls)

	python, _ := report.Get("Python")
	assert.Equal(t, models.LanguageStatistics{VacanciesFound: 300, VacanciesProcessed: 3, AverageSalary: 1167}, python)

	golang, _ := report.Get("Go")
	assert.Equal(t, models.LanguageStatistics{VacanciesFound: 150, VacanciesProcessed: 1, AverageSalary: 250000}, golang)

	oneC, _ := report.Get("1C")
	assert.Equal(t, models.LanguageStatistics{VacanciesFound: 400}, oneC)

	_, ok := report.Get("Ruby")
	assert.False(t, ok, "languages below threshold are omitted, not zeroed")
}

func TestDriverFailFast(t *testing.T) {
	src := newFakeSource()
	src.results["Go"] = fakeResult{err: &client.TransportError{Source: "fake", Status: http.StatusServiceUnavailable, Err: errors.New("unavailable")}}

	report, err := NewDriver(src, models.LocalCurrency).Run(context.Background(), []string{"Python", "Go", "1C"})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, []string{"Python", "Go"}, src.calls, "no language is fetched after a failure")

	var te *client.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusServiceUnavailable, te.Status)
	assert.Contains(t, err.Error(), "Go")
}

func TestDriverIsolateFailures(t *testing.T) {
	src := newFakeSource()
	src.results["Go"] = fakeResult{err: errors.New("connection reset")}

	d := NewDriver(src, models.LocalCurrency)
	d.IsolateFailures = true
	report, err := d.Run(context.Background(), []string{"Python", "Go", "1C"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Python", "1C"}, report.Languages())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "Go", report.Failures[0].Language)
	assert.Contains(t, report.Failures[0].Error, "connection reset")
}

func TestDriverWorkersKeepCatalogOrder(t *testing.T) {
	src := &fakeSource{results: map[string]fakeResult{}}
	var catalog []string
	for i := 0; i < 20; i++ {
		lang := fmt.Sprintf("lang-%02d", i)
		catalog = append(catalog, lang)
		src.results[lang] = fakeResult{found: 101 + i, listings: []models.Listing{rur(float64(1000*(i+1)), 0)}}
	}

	bar := pb.New(len(catalog))
	d := NewDriver(src, models.LocalCurrency)
	d.Workers = 4
	d.Progress = bar
	report, err := d.Run(context.Background(), append(catalog, "lang-03"))
	require.NoError(t, err)

	assert.Equal(t, catalog, report.Languages())
	assert.Len(t, src.calls, len(catalog), "duplicates are fetched once")
	assert.Equal(t, int64(len(catalog)), bar.Current())

	stats, _ := report.Get("lang-04")
	assert.Equal(t, models.LanguageStatistics{VacanciesFound: 105, VacanciesProcessed: 1, AverageSalary: 6000}, stats)
}

func TestDriverWorkersFailFast(t *testing.T) {
	src := newFakeSource()
	src.results["Go"] = fakeResult{err: errors.New("timeout")}

	d := NewDriver(src, models.LocalCurrency)
	d.Workers = 3
	_, err := d.Run(context.Background(), []string{"Python", "Go", "1C"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestDriverLanguage(t *testing.T) {
	d := NewDriver(newFakeSource(), models.LocalCurrency)

	stats, ok, err := d.Language(context.Background(), "Python")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1167, stats.AverageSalary)

	_, ok, err = d.Language(context.Background(), "Ruby")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestDriverWithHeadHunter runs the whole pipeline against a fake hh.ru
func TestDriverWithHeadHunter(t *testing.T) {
	found := map[string]int{"Go": 101, "Ruby": 100}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		text := r.URL.Query().Get("text")
		lang := "Ruby"
		if strings.Contains(text, "Go") {
			lang = "Go"
		}
		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `{"found": %d, "pages": 2, "items": [
			{"id": "%s", "salary": {"from": 100000, "to": 200000, "currency": "RUR"}},
			{"id": "%s-usd", "salary": {"from": 1000, "to": null, "currency": "USD"}}
		]}`, found[lang], page, page)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.HeadHunter.BaseURL = srv.URL
	src, err := scraper.NewSource(scraper.SourceHeadHunter, cfg, client.NewClient(client.Options{}))
	require.NoError(t, err)

	report, err := NewDriver(src, cfg.Currency).Run(context.Background(), []string{"Ruby", "Go"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Go"}, report.Languages())
	golang, _ := report.Get("Go")
	assert.Equal(t, models.LanguageStatistics{VacanciesFound: 101, VacanciesProcessed: 2, AverageSalary: 150000}, golang)
}

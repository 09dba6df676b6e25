package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"

	"github.com/fr4nk3nst1ner/devsalary/internal/client"
	"github.com/fr4nk3nst1ner/devsalary/internal/config"
	"github.com/fr4nk3nst1ner/devsalary/internal/models"
	"github.com/fr4nk3nst1ner/devsalary/internal/utils"
)

const (
	// keywords[0][srws]=1 restricts the keyword match to the profession field
	superJobProfessionOnly = 1
)

// superJobCurrencies maps SuperJob currency codes onto hh.ru style codes
var superJobCurrencies = map[string]string{
	"rub": "RUR",
	"usd": "USD",
	"eur": "EUR",
	"uah": "UAH",
	"uzs": "UZS",
}

// SuperJob fetches vacancies from api.superjob.ru in a single request
type SuperJob struct {
	client *client.Client
	cfg    config.SuperJobConf
	logger *pterm.Logger
}

// NewSuperJob creates a SuperJob source. It needs an app key.
func NewSuperJob(c *client.Client, cfg config.SuperJobConf) (*SuperJob, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, config.ErrMissingAPIKey
	}
	return &SuperJob{
		client: c,
		cfg:    cfg,
		logger: pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled),
	}, nil
}

// WithLogger sets the logger used for debug output
func (s *SuperJob) WithLogger(logger *pterm.Logger) *SuperJob {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *SuperJob) Name() string {
	return SourceSuperJob
}

// Query builds the keyword search for a language
func (s *SuperJob) Query(language string) url.Values {
	q := url.Values{}
	q.Set("keywords[0][srws]", strconv.Itoa(superJobProfessionOnly))
	q.Set("keywords[0][keys]", strings.TrimSpace(s.cfg.Profession+" "+language))
	q.Set("catalogues", strconv.Itoa(s.cfg.Catalogue))
	q.Set("town", s.cfg.Town)
	if s.cfg.Count > 0 {
		q.Set("count", strconv.Itoa(s.cfg.Count))
	}
	return q
}

// FetchAll issues one search for the language. SuperJob reports the total
// number of matches while returning at most Count objects.
func (s *SuperJob) FetchAll(ctx context.Context, language string) ([]models.Listing, int, error) {
	headers := http.Header{}
	headers.Set("X-Api-App-Id", s.cfg.APIKey)

	query := s.Query(language)
	decoded, _ := url.QueryUnescape(query.Encode())
	s.logger.Debug("searching", s.logger.Args("source", SourceSuperJob, "url", s.cfg.BaseURL+"?"+decoded))

	res, err := s.client.GetJSON(ctx, SourceSuperJob, s.cfg.BaseURL, query, headers)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", language, err)
	}

	total := int(res.Get("total").Int())
	if belowThreshold(total, s.cfg.MinFound) {
		s.logger.Debug("too few vacancies, skipping language",
			s.logger.Args("source", SourceSuperJob, "language", language, "found", total, "min_found", s.cfg.MinFound))
		return nil, 0, nil
	}

	var listings []models.Listing
	for _, obj := range res.Get("objects").Array() {
		listings = append(listings, parseSuperJobObject(obj))
	}
	return listings, total, nil
}

func parseSuperJobObject(obj gjson.Result) models.Listing {
	return models.Listing{
		ID:       obj.Get("id").String(),
		Title:    obj.Get("profession").String(),
		Employer: obj.Get("firm_name").String(),
		Location: obj.Get("town.title").String(),
		URL:      obj.Get("link").String(),
		Snippet:  utils.PlainText(obj.Get("candidat").String()),
		Salary:   parseSuperJobSalary(obj),
		Raw:      obj,
	}
}

// parseSuperJobSalary reads payment_from/payment_to, where 0 means "not published"
func parseSuperJobSalary(obj gjson.Result) *models.Salary {
	from := obj.Get("payment_from").Float()
	to := obj.Get("payment_to").Float()
	if from <= 0 && to <= 0 && obj.Get("agreement").Bool() {
		return nil
	}

	currency := strings.ToLower(obj.Get("currency").String())
	if mapped, ok := superJobCurrencies[currency]; ok {
		currency = mapped
	}

	return &models.Salary{
		Currency: currency,
		From:     optionalNumber(from, from > 0),
		To:       optionalNumber(to, to > 0),
	}
}

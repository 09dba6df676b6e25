package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"

	"github.com/fr4nk3nst1ner/devsalary/internal/client"
	"github.com/fr4nk3nst1ner/devsalary/internal/config"
	"github.com/fr4nk3nst1ner/devsalary/internal/models"
	"github.com/fr4nk3nst1ner/devsalary/internal/utils"
)

// HeadHunter fetches vacancies from the api.hh.ru search, page by page
type HeadHunter struct {
	client *client.Client
	cfg    config.HeadHunterConf
	logger *pterm.Logger
}

// NewHeadHunter creates a HeadHunter source
func NewHeadHunter(c *client.Client, cfg config.HeadHunterConf) *HeadHunter {
	return &HeadHunter{
		client: c,
		cfg:    cfg,
		logger: pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled),
	}
}

// WithLogger sets the logger used for per-page debug output
func (h *HeadHunter) WithLogger(logger *pterm.Logger) *HeadHunter {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *HeadHunter) Name() string {
	return SourceHeadHunter
}

// Query builds the search parameters for one page
func (h *HeadHunter) Query(language string, page int) url.Values {
	q := url.Values{}
	q.Set("text", fmt.Sprintf(`"%s %s" OR "%s %s"`, h.cfg.Profession, language, language, h.cfg.Profession))
	q.Set("search_field", h.cfg.SearchField)
	q.Set("area", strconv.Itoa(h.cfg.Area))
	q.Set("page", strconv.Itoa(page))
	if h.cfg.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(h.cfg.PerPage))
	}
	return q
}

// FetchAll walks every result page for a language. When the reported found
// count does not exceed MinFound it returns no listings and a zero count.
func (h *HeadHunter) FetchAll(ctx context.Context, language string) ([]models.Listing, int, error) {
	var listings []models.Listing
	found := 0

	for page := 0; ; page++ {
		res, err := h.client.GetJSON(ctx, SourceHeadHunter, h.cfg.BaseURL, h.Query(language, page), nil)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch %s page %d: %w", language, page, err)
		}

		found = int(res.Get("found").Int())
		if belowThreshold(found, h.cfg.MinFound) {
			h.logger.Debug("too few vacancies, skipping language",
				h.logger.Args("source", SourceHeadHunter, "language", language, "found", found, "min_found", h.cfg.MinFound))
			return nil, 0, nil
		}

		for _, item := range res.Get("items").Array() {
			listings = append(listings, parseHeadHunterItem(item))
		}

		pages := int(res.Get("pages").Int())
		h.logger.Debug("fetched page",
			h.logger.Args("source", SourceHeadHunter, "language", language, "page", page+1, "pages", pages, "found", found))
		if page+1 >= pages {
			break
		}
	}

	return listings, found, nil
}

func parseHeadHunterItem(item gjson.Result) models.Listing {
	return models.Listing{
		ID:       item.Get("id").String(),
		Title:    item.Get("name").String(),
		Employer: item.Get("employer.name").String(),
		Location: item.Get("area.name").String(),
		URL:      item.Get("alternate_url").String(),
		Snippet:  utils.PlainText(item.Get("snippet.requirement").String()),
		Salary:   parseHeadHunterSalary(item.Get("salary")),
		Raw:      item,
	}
}

func parseHeadHunterSalary(s gjson.Result) *models.Salary {
	if !s.IsObject() {
		return nil
	}
	from := s.Get("from")
	to := s.Get("to")
	return &models.Salary{
		Currency: s.Get("currency").String(),
		From:     optionalNumber(from.Float(), from.Type == gjson.Number),
		To:       optionalNumber(to.Float(), to.Type == gjson.Number),
	}
}

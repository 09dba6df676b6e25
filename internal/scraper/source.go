package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fr4nk3nst1ner/devsalary/internal/client"
	"github.com/fr4nk3nst1ner/devsalary/internal/config"
	"github.com/fr4nk3nst1ner/devsalary/internal/models"
)

// ErrUnknownSource is returned for source names that are not supported
var ErrUnknownSource = errors.New("unknown source")

// Source is a vacancy API that can list every listing for one language.
// A found count of zero means the language should be left out of reports.
type Source interface {
	Name() string
	FetchAll(ctx context.Context, language string) ([]models.Listing, int, error)
}

const (
	SourceHeadHunter = "hh"
	SourceSuperJob   = "superjob"
)

// SourceNames lists supported sources in display order
var SourceNames = []string{SourceHeadHunter, SourceSuperJob}

// IsValidSource checks if the source is supported
func IsValidSource(source string) bool {
	source = strings.ToLower(source)
	for _, name := range SourceNames {
		if name == source {
			return true
		}
	}
	return false
}

// NewSource builds the named source from configuration
func NewSource(name string, cfg *config.AppConfig, c *client.Client) (Source, error) {
	switch strings.ToLower(name) {
	case SourceHeadHunter:
		return NewHeadHunter(c, cfg.HeadHunter), nil
	case SourceSuperJob:
		return NewSuperJob(c, cfg.SuperJob)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
}

// belowThreshold reports whether a found count is too small to average.
// The threshold is inclusive.
func belowThreshold(found, minFound int) bool {
	return found <= minFound
}

func optionalNumber(v float64, present bool) *float64 {
	if !present {
		return nil
	}
	return &v
}

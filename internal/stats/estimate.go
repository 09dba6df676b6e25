package stats

import (
	"math"

	"github.com/fr4nk3nst1ner/devsalary/internal/models"
)

const (
	// Published ceilings overstate and floors understate a typical offer by about 20%
	upperBoundFactor = 0.8
	lowerBoundFactor = 1.2
)

// Estimate converts a salary sub-record into one number in the given currency.
// Records in other currencies, or without any bound, are not estimable.
// A bound of zero or less counts as not published.
func Estimate(s *models.Salary, currency string) models.Estimate {
	if s == nil || s.Currency != currency {
		return models.Estimate{}
	}

	from, hasFrom := bound(s.From)
	to, hasTo := bound(s.To)

	switch {
	case !hasFrom && !hasTo:
		return models.Estimate{}
	case !hasFrom:
		return models.Estimate{Value: to * upperBoundFactor, Valid: true}
	case !hasTo:
		return models.Estimate{Value: from * lowerBoundFactor, Valid: true}
	default:
		return models.Estimate{Value: math.Trunc((from + to) / 2), Valid: true}
	}
}

func bound(v *float64) (float64, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

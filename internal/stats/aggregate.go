package stats

import (
	"math"

	"github.com/fr4nk3nst1ner/devsalary/internal/models"
)

// Summarize reduces the estimates of one language. found is the count the
// source reported, not the number of estimates.
func Summarize(estimates []models.Estimate, found int) models.LanguageStatistics {
	var sum float64
	processed := 0
	for _, e := range estimates {
		if !e.Valid {
			continue
		}
		sum += e.Value
		processed++
	}

	average := 0
	if processed > 0 {
		average = int(math.Round(sum / float64(processed)))
	}

	if found < processed {
		found = processed
	}

	return models.LanguageStatistics{
		VacanciesFound:     found,
		VacanciesProcessed: processed,
		AverageSalary:      average,
	}
}

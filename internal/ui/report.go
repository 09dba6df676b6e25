package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/devsalary/internal/models"
	"github.com/fr4nk3nst1ner/devsalary/internal/stats"
	"github.com/fr4nk3nst1ner/devsalary/internal/utils"
)

var sourceTitles = map[string]string{
	"hh":       "HeadHunter Moscow",
	"superjob": "SuperJob Moscow",
}

// SourceTitle returns the display name of a source
func SourceTitle(source string) string {
	if title, ok := sourceTitles[source]; ok {
		return title
	}
	return source
}

// RenderReport renders a report as a boxed table
func RenderReport(report *models.Report) (string, error) {
	data := pterm.TableData{
		{"Language", "Vacancies found", "Vacancies processed", "Average salary"},
	}
	for _, e := range report.Entries {
		data = append(data, []string{
			e.Language,
			strconv.Itoa(e.Statistics.VacanciesFound),
			strconv.Itoa(e.Statistics.VacanciesProcessed),
			ColorizeSalary(e.Statistics.AverageSalary),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(data).Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(pterm.DefaultBox.WithTitle(SourceTitle(report.Source)).Sprint(table))
	sb.WriteString("\n")

	if report.Len() == 0 {
		sb.WriteString(pterm.Yellow("No language had enough vacancies to report\n"))
	}
	for _, f := range report.Failures {
		sb.WriteString(pterm.Red(fmt.Sprintf("%s: %s\n", f.Language, f.Error)))
	}
	return sb.String(), nil
}

// RenderListings prints normalized listings of one language with their estimates
func RenderListings(source, language string, listings []models.Listing, found int, currency string) string {
	var sb strings.Builder
	sb.WriteString(pterm.DefaultSection.Sprintf("%s: %s", SourceTitle(source), language))

	for _, l := range listings {
		estimate := stats.Estimate(l.Salary, currency)
		salary := pterm.Gray("not estimable")
		if estimate.Valid {
			salary = ColorizeSalary(int(estimate.Value))
		}
		sb.WriteString(fmt.Sprintf("%s, %s\n", utils.TruncateString(l.Title, 60), l.Location))
		sb.WriteString(fmt.Sprintf("  %s  %s\n", salary, l.URL))
		if l.Snippet != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", pterm.Gray(utils.TruncateString(l.Snippet, 100))))
		}
	}

	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("total: %d, fetched: %d\n", found, len(listings)))
	return sb.String()
}

package models

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// LocalCurrency is the currency code salary estimates are expressed in
const LocalCurrency = "RUR"

// Salary represents the salary sub-record embedded in a listing.
// Nil bounds mean the source did not publish them.
type Salary struct {
	Currency string   `json:"currency"`
	From     *float64 `json:"from"`
	To       *float64 `json:"to"`
}

// Listing represents one vacancy as returned by a source
type Listing struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Employer string  `json:"employer"`
	Location string  `json:"location"`
	URL      string  `json:"url"`
	Snippet  string  `json:"snippet,omitempty"`
	Salary   *Salary `json:"salary"`

	// Raw is the untouched source record
	Raw gjson.Result `json:"-"`
}

// Estimate is a salary estimate in local currency. Valid is false when
// the listing carried nothing usable.
type Estimate struct {
	Value float64
	Valid bool
}

// LanguageStatistics represents the aggregated numbers for one language
type LanguageStatistics struct {
	VacanciesFound     int `json:"vacancies_found"`
	VacanciesProcessed int `json:"vacancies_processed"`
	AverageSalary      int `json:"average_salary"`
}

// ReportEntry is one language row of a report
type ReportEntry struct {
	Language   string
	Statistics LanguageStatistics
}

// LanguageFailure records a language dropped from a report because its fetch failed
type LanguageFailure struct {
	Language string `json:"language"`
	Error    string `json:"error"`
}

// Report maps language names to statistics, keeping catalog order
type Report struct {
	Source   string
	Entries  []ReportEntry
	Failures []LanguageFailure
}

// Add appends a language to the report
func (r *Report) Add(language string, stats LanguageStatistics) {
	r.Entries = append(r.Entries, ReportEntry{Language: language, Statistics: stats})
}

// Get returns the statistics for a language, if present
func (r *Report) Get(language string) (LanguageStatistics, bool) {
	for _, e := range r.Entries {
		if e.Language == language {
			return e.Statistics, true
		}
	}
	return LanguageStatistics{}, false
}

// Languages returns the reported languages in order
func (r *Report) Languages() []string {
	langs := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		langs = append(langs, e.Language)
	}
	return langs
}

// Len returns the number of reported languages
func (r *Report) Len() int {
	return len(r.Entries)
}

// MarshalJSON encodes the report as an object keyed by language in report order
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"source":`)
	src, err := json.Marshal(r.Source)
	if err != nil {
		return nil, err
	}
	buf.Write(src)

	buf.WriteString(`,"languages":{`)
	for i, e := range r.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Language)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Statistics)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	if len(r.Failures) > 0 {
		failures, err := json.Marshal(r.Failures)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"failures":`)
		buf.Write(failures)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

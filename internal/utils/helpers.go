package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

// FormatSalary formats a salary amount with thousands separators and the ruble sign
func FormatSalary(amount int) string {
	if amount <= 0 {
		return "Not Available"
	}
	return humanize.Comma(int64(amount)) + " ₽"
}

// PlainText flattens an HTML fragment (hh.ru wraps matches in <highlighttext>) into plain text
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// TruncateString truncates a string to the specified length and adds "..." if necessary
func TruncateString(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	if length <= 3 {
		return string(runes[:length])
	}
	return string(runes[:length-3]) + "..."
}

// NormalizeLanguages trims names, drops empties and keeps the first occurrence of duplicates
func NormalizeLanguages(languages []string) []string {
	seen := make(map[string]struct{}, len(languages))
	var result []string
	for _, lang := range languages {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		result = append(result, lang)
	}
	return result
}

// SplitList splits a comma separated flag value
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return NormalizeLanguages(strings.Split(value, ","))
}

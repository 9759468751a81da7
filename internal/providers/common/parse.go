package common

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	intGroupPattern = regexp.MustCompile(`\d+`)
	yearPattern     = regexp.MustCompile(`^\d{4}`)
	exactYear       = regexp.MustCompile(`^\d{4}$`)
)

func CleanHTMLText(raw string) string {
	value := strings.TrimSpace(raw)
	value = html.UnescapeString(value)
	value = tagPattern.ReplaceAllString(value, " ")
	value = strings.Join(strings.Fields(value), " ")
	return value
}

// ParseLeadingInt returns the first group of digits in free text, so
// "142 min" yields 142. Text without digits yields 0.
func ParseLeadingInt(raw string) int {
	match := intGroupPattern.FindString(raw)
	if match == "" {
		return 0
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return value
}

// ParseGroupedInt parses counts such as "1,234,567". Anything that is not
// a plain integer after removing group separators yields 0.
func ParseGroupedInt(raw string) int {
	value := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func ParseFloat(raw string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return parsed
}

// LeadingYear extracts a year from values like "2014", "2014–2019" or
// "2014-05-02".
func LeadingYear(raw string) (int, bool) {
	match := yearPattern.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// IsExactYear reports whether raw is a bare four digit year.
func IsExactYear(raw string) bool {
	return exactYear.MatchString(strings.TrimSpace(raw))
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02 Jan 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ISODate converts the date formats seen across providers into
// YYYY-MM-DD. Unparseable input yields "".
func ISODate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}

package common

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NotAvailable is the placeholder OMDb uses for missing values.
const NotAvailable = "N/A"

// FirstNonEmpty returns the first candidate that is not blank and not the
// N/A placeholder.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || trimmed == NotAvailable {
			continue
		}
		return trimmed
	}
	return ""
}

// FirstPositive returns the first candidate greater than zero.
func FirstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}

// StringPtr returns nil for empty values.
func StringPtr(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" || value == NotAvailable {
		return nil
	}
	return &value
}

// IntPtr returns nil for non-positive values.
func IntPtr(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}

// TitleFromSlug turns "the-dark-knight" into "The Dark Knight".
func TitleFromSlug(slug string) string {
	parts := strings.Split(strings.TrimSpace(slug), "-")
	caser := cases.Title(language.English)
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		words = append(words, caser.String(part))
	}
	return strings.Join(words, " ")
}

// SyntheticID builds a stable identifier for records the provider returned
// without one. It hashes the stable fields it is given; the list index is
// only mixed in when every field is empty.
func SyntheticID(prefix string, index int, fields ...string) string {
	stable := make([]string, 0, len(fields))
	for _, field := range fields {
		value := strings.ToLower(strings.TrimSpace(field))
		if value != "" {
			stable = append(stable, value)
		}
	}
	if len(stable) == 0 {
		stable = append(stable, "index", strconv.Itoa(index))
	}
	sum := sha1.Sum([]byte(prefix + "|" + strings.Join(stable, "|")))
	return prefix + "-" + hex.EncodeToString(sum[:])[:12]
}

// ChildID scopes genre and cast identifiers to their parent record.
func ChildID(parentID, kind string, index int) string {
	return parentID + "-" + kind + "-" + strconv.Itoa(index)
}

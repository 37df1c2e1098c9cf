package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseSpace trims a string and squeezes inner whitespace runs
// (including newlines from multi-line markup) down to single spaces.
func CollapseSpace(s string) string {
	s = strings.Trim(s, " \n\t\r")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// ContainsAny reports whether s contains any of the given substrings.
func ContainsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// SafeInt parses free-text integers ("1,024 ") tolerantly, returning
// def when the text does not hold a number.
func SafeInt(s string, def int) int {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return def
	}
	return v
}

// SafeFloat parses free-text decimals ("250,000.00") tolerantly,
// returning def when the text does not hold a number.
func SafeFloat(s string, def float64) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return def
	}
	return v
}

// saleDateLayout is the only date format the appraisal site emits in
// sales rows.
const saleDateLayout = "01/02/2006"

// ParseSaleDate converts MM/DD/YYYY into ISO YYYY-MM-DD. Unparsable
// input passes through verbatim so malformed rows keep their original
// text, with ok=false telling the caller the date is not comparable.
func ParseSaleDate(s string) (formatted string, ok bool) {
	t, err := time.Parse(saleDateLayout, s)
	if err != nil {
		return s, false
	}
	return t.Format(time.DateOnly), true
}

// LatestSaleDate returns the maximum of the parseable dates in ISO
// form. Unparsable entries are skipped; if nothing parses, ok is
// false.
func LatestSaleDate(dates []string) (latest string, ok bool) {
	var max time.Time
	for _, d := range dates {
		t, err := time.Parse(saleDateLayout, d)
		if err != nil {
			continue
		}
		if !ok || t.After(max) {
			max = t
			ok = true
		}
	}
	if !ok {
		return "", false
	}
	return max.Format(time.DateOnly), true
}

// Package dates resolves the date strings marketplaces attach to sold
// listings. Scraped dates arrive as relative phrases ("3 days ago"), UK
// absolute dates with or without a year ("27 Jul 2024", "27 Jul"), numeric
// forms, or nothing at all, so resolution is an ordered chain of parsing
// strategies with a safe fallback. Resolve never fails.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Strategy attempts one recognized date format. It returns the resolved
// timestamp and true on a match, or the zero time and false to pass the
// string to the next strategy.
type Strategy struct {
	Name  string
	Parse func(raw string, now time.Time) (time.Time, bool)
}

// Strategies is the ordered chain tried by Resolve; first match wins.
// Exported so each strategy can be tested alone.
var Strategies = []Strategy{
	{Name: "relative", Parse: parseRelative},
	{Name: "absolute", Parse: parseAbsolute},
	{Name: "day-month-year", Parse: parseDayMonthYear},
	{Name: "day-month", Parse: parseDayMonth},
	{Name: "numeric-dmy", Parse: parseNumericDMY},
}

// Resolve parses raw against the strategy chain. The second return value is
// true when no strategy matched and the result defaulted to now; callers
// flag such records as date-inferred rather than dropping them, since a
// best-effort "now" keeps small samples intact.
func Resolve(raw string, now time.Time) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return now, true
	}

	for _, s := range Strategies {
		if ts, ok := s.Parse(trimmed, now); ok {
			return ts, false
		}
	}

	return now, true
}

var (
	daysAgoRe   = regexp.MustCompile(`(?i)(\d+)\s*days?\s+ago`)
	weeksAgoRe  = regexp.MustCompile(`(?i)(\d+)\s*weeks?\s+ago`)
	monthsAgoRe = regexp.MustCompile(`(?i)(\d+)\s*months?\s+ago`)
	yearsAgoRe  = regexp.MustCompile(`(?i)(\d+)\s*years?\s+ago`)

	dayMonthYearRe = regexp.MustCompile(`(?i)(\d{1,2})\s+([A-Za-z]{3})[a-z]*\s+(\d{4})`)
	dayMonthRe     = regexp.MustCompile(`(?i)(\d{1,2})\s+([A-Za-z]{3})`)
	numericDMYRe   = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
)

var monthsByAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseRelative handles "<N> day(s)/week(s)/month(s)/year(s) ago".
func parseRelative(raw string, now time.Time) (time.Time, bool) {
	if !strings.Contains(strings.ToLower(raw), "ago") {
		return time.Time{}, false
	}

	if m := daysAgoRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return midday(now.AddDate(0, 0, -n)), true
	}
	if m := weeksAgoRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return midday(now.AddDate(0, 0, -n*7)), true
	}
	if m := monthsAgoRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return midday(now.AddDate(0, -n, 0)), true
	}
	if m := yearsAgoRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return midday(now.AddDate(-n, 0, 0)), true
	}

	return time.Time{}, false
}

// absoluteLayouts are the unambiguous formats we accept directly.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

func parseAbsolute(raw string, now time.Time) (time.Time, bool) {
	for _, layout := range absoluteLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return midday(ts), true
		}
	}
	return time.Time{}, false
}

// parseDayMonthYear handles the UK sold-listing form "27 Jul 2024".
func parseDayMonthYear(raw string, now time.Time) (time.Time, bool) {
	m := dayMonthYearRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := monthsByAbbrev[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])
	return dateAtMidday(year, month, day, now.Location()), true
}

// parseDayMonth handles "27 Jul" with no year. The year is the current one
// unless that lands more than 30 days in the future; sales are never
// scheduled ahead, so such a date belongs to the previous year.
func parseDayMonth(raw string, now time.Time) (time.Time, bool) {
	m := dayMonthRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := monthsByAbbrev[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}

	year := now.Year()
	candidate := dateAtMidday(year, month, day, now.Location())
	if candidate.After(now.AddDate(0, 0, 30)) {
		candidate = dateAtMidday(year-1, month, day, now.Location())
	}
	return candidate, true
}

// parseNumericDMY handles "27/07/2024" and "27-07-2024". Day-first, per the
// UK marketplaces these strings come from.
func parseNumericDMY(raw string, now time.Time) (time.Time, bool) {
	m := numericDMYRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return dateAtMidday(year, time.Month(month), day, now.Location()), true
}

// midday pins a timestamp to 12:00 of its calendar day. Sold dates are
// date-only facts; noon keeps them from drifting across a day boundary
// under timezone conversion.
func midday(t time.Time) time.Time {
	return dateAtMidday(t.Year(), t.Month(), t.Day(), t.Location())
}

func dateAtMidday(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, month, day, 12, 0, 0, 0, loc)
}

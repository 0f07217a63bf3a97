// Package datefmt turns the heterogeneous date strings stored on listings
// (full ISO timestamps, "2025", "2025-06", "Fall 2025") into display labels.
//
// Every function in this package is pure: no I/O, no logging, no reads of
// the host timezone. The display zone is always passed in explicitly.
package datefmt

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// middayOffset is added to date-only values before they are converted into
// the display zone. A bare "2025-06-15" is midnight UTC, which would render
// as June 14 anywhere west of Greenwich; noon keeps the calendar day stable
// for offsets between -12h and +11h. This is a display compromise only.
const middayOffset = 12 * time.Hour

var (
	seasonalRe  = regexp.MustCompile(`(?i)^(spring|summer|fall|winter)\s+(\d{4})$`)
	yearOnlyRe  = regexp.MustCompile(`^\d{4}$`)
	yearMonthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	dateOnlyRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?$`)
)

// dateTimeLayouts are tried in order with time.ParseInLocation. Layouts
// without a zone are interpreted in the display location; fractional
// seconds are accepted by the parser after any seconds field.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Season is one of the four fixed seasonal labels.
type Season int

const (
	SeasonNone Season = iota
	Spring
	Summer
	Fall
	Winter
)

var seasonNames = [...]string{"", "Spring", "Summer", "Fall", "Winter"}

func (s Season) String() string {
	if s < SeasonNone || s > Winter {
		return ""
	}
	return seasonNames[s]
}

// Month is the representative month a season is anchored to.
func (s Season) Month() time.Month {
	switch s {
	case Spring:
		return time.January
	case Summer:
		return time.April
	case Fall:
		return time.July
	case Winter:
		return time.October
	default:
		return 0
	}
}

func parseSeason(name string) Season {
	for i := Spring; i <= Winter; i++ {
		if strings.EqualFold(name, seasonNames[i]) {
			return i
		}
	}
	return SeasonNone
}

// ParsedDate is a DateSpec resolved against a display location.
type ParsedDate struct {
	Granularity Granularity
	// Season is set only for Seasonal values.
	Season Season

	// Year, Month and Day are the calendar fields as displayed. For
	// partial dates Year (and Month for YearMonth) come straight from the
	// input; Day is 1.
	Year  int
	Month time.Month
	Day   int

	// Time is the concrete instant in the display location.
	Time time.Time
	// HasClock is true when the input carried a time of day.
	HasClock bool

	// Raw is the trimmed input.
	Raw string
}

// SameDay reports whether p and o fall on the same displayed calendar day.
func (p ParsedDate) SameDay(o ParsedDate) bool {
	return p.Year == o.Year && p.Month == o.Month && p.Day == o.Day
}

// Parse resolves input into a ParsedDate in loc (UTC when nil). The bool is
// false for anything that is not one of the recognized shapes or that names
// an impossible calendar date.
func Parse(input string, loc *time.Location) (ParsedDate, bool) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(input)

	switch shapeOf(s) {
	case Seasonal:
		m := seasonalRe.FindStringSubmatch(s)
		season := parseSeason(m[1])
		year, err := strconv.Atoi(m[2])
		if err != nil || season == SeasonNone {
			return ParsedDate{Raw: s}, false
		}
		return ParsedDate{
			Granularity: Seasonal,
			Season:      season,
			Year:        year,
			Month:       season.Month(),
			Day:         1,
			Time:        time.Date(year, season.Month(), 1, 0, 0, 0, 0, loc),
			Raw:         s,
		}, true
	case YearOnly:
		return parseDateOnly(s+"-01-01", YearOnly, s, loc)
	case YearMonth:
		return parseDateOnly(s+"-01", YearMonth, s, loc)
	case FullDate:
		if dateOnlyRe.MatchString(s) {
			return parseDateOnly(s, FullDate, s, loc)
		}
		return parseDateTime(s, loc)
	}
	return ParsedDate{Raw: s}, false
}

func parseDateOnly(padded string, g Granularity, raw string, loc *time.Location) (ParsedDate, bool) {
	d, err := time.Parse(time.DateOnly, padded)
	if err != nil {
		return ParsedDate{Raw: raw}, false
	}
	t := d.Add(middayOffset).In(loc)

	p := ParsedDate{
		Granularity: g,
		Year:        t.Year(),
		Month:       t.Month(),
		Day:         t.Day(),
		Time:        t,
		Raw:         raw,
	}
	switch g {
	case YearOnly:
		p.Year, p.Month, p.Day = d.Year(), time.January, 1
	case YearMonth:
		p.Year, p.Month, p.Day = d.Year(), d.Month(), 1
	}
	return p, true
}

func parseDateTime(s string, loc *time.Location) (ParsedDate, bool) {
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		t = t.In(loc)
		return ParsedDate{
			Granularity: FullDate,
			Year:        t.Year(),
			Month:       t.Month(),
			Day:         t.Day(),
			Time:        t,
			HasClock:    true,
			Raw:         s,
		}, true
	}
	return ParsedDate{Raw: s}, false
}

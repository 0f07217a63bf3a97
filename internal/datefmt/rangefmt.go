package datefmt

import (
	"fmt"
	"strconv"

	"streetartlist/internal/model"
)

const (
	LabelOngoing      = "Ongoing"
	LabelDatesUnknown = "Dates unknown"
)

// DisplayMode selects how compact a label is.
type DisplayMode struct {
	Device model.Device
	// Preview shows month and year only for ranges spanning years.
	Preview bool
}

type rangeFunc func(s, e ParsedDate, mode DisplayMode) string

type granularityPair struct {
	start, end Granularity
}

// rangeTable dispatches on the granularity of both endpoints. Both
// endpoints are valid by the time the table is consulted.
var rangeTable = buildRangeTable()

func buildRangeTable() map[granularityPair]rangeFunc {
	valid := []Granularity{Seasonal, YearOnly, YearMonth, FullDate}
	t := make(map[granularityPair]rangeFunc, len(valid)*len(valid))

	for _, g := range valid {
		t[granularityPair{Seasonal, g}] = seasonalRange
		t[granularityPair{g, Seasonal}] = seasonalRange
	}

	t[granularityPair{YearOnly, YearOnly}] = yearRange
	t[granularityPair{YearMonth, YearMonth}] = yearMonthRange

	// A year-only start is coarser than the end: show the deadline side.
	t[granularityPair{YearOnly, YearMonth}] = coarseStartRange
	t[granularityPair{YearOnly, FullDate}] = coarseStartRange
	// A year-only end: the partial side is shown as-is.
	t[granularityPair{YearMonth, YearOnly}] = coarseEndRange
	t[granularityPair{FullDate, YearOnly}] = coarseEndRange

	// Year-month degrades to the first of the month.
	t[granularityPair{YearMonth, FullDate}] = dayRange
	t[granularityPair{FullDate, YearMonth}] = dayRange
	t[granularityPair{FullDate, FullDate}] = dayRange

	return t
}

// FormatRange renders an event's start/end pair. It never fails: unusable
// input degrades to "By {date}" or LabelDatesUnknown.
func (f *Formatter) FormatRange(start, end string, format model.EventFormat, mode DisplayMode) string {
	if format == model.EventFormatOngoing {
		return LabelOngoing
	}

	loc := f.location()
	s, sok := Parse(start, loc)
	e, eok := Parse(end, loc)

	switch {
	case !sok && !eok:
		return LabelDatesUnknown
	case !sok:
		return "By " + single(e, mode)
	case !eok:
		return "By " + single(s, mode)
	}

	fn, ok := rangeTable[granularityPair{s.Granularity, e.Granularity}]
	if !ok {
		return LabelDatesUnknown
	}
	return fn(s, e, mode)
}

// single renders one date on its own.
func single(p ParsedDate, mode DisplayMode) string {
	switch p.Granularity {
	case Seasonal:
		return p.Season.String() + " " + strconv.Itoa(p.Year)
	case YearOnly:
		return strconv.Itoa(p.Year)
	case YearMonth:
		return p.Month.String() + " " + strconv.Itoa(p.Year)
	case FullDate:
		return fmt.Sprintf("%s %d (%d)", primaryMonth(p.Month, mode.Device), p.Day, p.Year)
	default:
		return p.Raw
	}
}

func seasonalRange(s, e ParsedDate, mode DisplayMode) string {
	if s.Granularity == e.Granularity && s.Year == e.Year && s.Season == e.Season {
		return single(s, mode)
	}
	if s.Granularity == Seasonal && e.Granularity == Seasonal && s.Year == e.Year {
		return fmt.Sprintf("%s - %s %d", s.Season, e.Season, s.Year)
	}
	return s.Raw + " - " + e.Raw
}

func yearRange(s, e ParsedDate, _ DisplayMode) string {
	if s.Year == e.Year {
		return strconv.Itoa(s.Year)
	}
	return fmt.Sprintf("%d-%d", s.Year, e.Year)
}

func yearMonthRange(s, e ParsedDate, mode DisplayMode) string {
	if s.Year == e.Year && s.Month == e.Month {
		return single(s, mode)
	}
	sm := rangeMonth(s.Month, mode.Device)
	em := rangeMonth(e.Month, mode.Device)
	if s.Year == e.Year {
		return fmt.Sprintf("%s - %s %d", sm, em, e.Year)
	}
	return fmt.Sprintf("%s %d - %s %d", sm, s.Year, em, e.Year)
}

func coarseStartRange(_, e ParsedDate, mode DisplayMode) string {
	return "By " + single(e, mode)
}

func coarseEndRange(_, e ParsedDate, _ DisplayMode) string {
	return e.Raw
}

func dayRange(s, e ParsedDate, mode DisplayMode) string {
	if s.SameDay(e) {
		return single(s, mode)
	}

	d := mode.Device
	sm := primaryMonth(s.Month, d)
	em := secondaryMonth(e.Month, d)

	switch {
	case s.Year != e.Year:
		if mode.Preview {
			return fmt.Sprintf("%s %s - %s %s", sm, yearLabel(s.Year, d), em, yearLabel(e.Year, d))
		}
		return fmt.Sprintf("%s %d, %s - %s %d, %s", sm, s.Day, yearLabel(s.Year, d), em, e.Day, yearLabel(e.Year, d))
	case s.Month != e.Month:
		return fmt.Sprintf("%s %d - %s %d, %d", sm, s.Day, em, e.Day, e.Year)
	default:
		return fmt.Sprintf("%s %d-%d (%d)", sm, s.Day, e.Day, s.Year)
	}
}

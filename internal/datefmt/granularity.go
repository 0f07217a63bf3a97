package datefmt

import "strings"

// Granularity is the precision a DateSpec is expressed in.
type Granularity int

const (
	Invalid Granularity = iota
	Seasonal
	YearOnly
	YearMonth
	FullDate
)

func (g Granularity) String() string {
	switch g {
	case Seasonal:
		return "seasonal"
	case YearOnly:
		return "year"
	case YearMonth:
		return "year-month"
	case FullDate:
		return "full-date"
	default:
		return "invalid"
	}
}

// Classify reports the granularity of input. Full dates are only classified
// as such when they name a real calendar date ("2025-02-30" is Invalid).
func Classify(input string) Granularity {
	s := strings.TrimSpace(input)
	g := shapeOf(s)
	if g == FullDate {
		if _, ok := Parse(s, nil); !ok {
			return Invalid
		}
	}
	return g
}

// shapeOf matches s against the known shapes without validating calendar
// fields. Seasonal is tested first: season names are never numeric, so a
// seasonal match always wins over the numeric patterns.
func shapeOf(s string) Granularity {
	switch {
	case s == "":
		return Invalid
	case seasonalRe.MatchString(s):
		return Seasonal
	case yearOnlyRe.MatchString(s):
		return YearOnly
	case yearMonthRe.MatchString(s):
		return YearMonth
	case dateOnlyRe.MatchString(s), dateTimeRe.MatchString(s):
		return FullDate
	default:
		return Invalid
	}
}

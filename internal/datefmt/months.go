package datefmt

import (
	"fmt"
	"strconv"
	"time"

	"streetartlist/internal/model"
)

// customMonthAbbr is the fixed-width table used for primary labels and for
// desktop ranges. It differs from the 3-letter abbreviations for June, July
// and September.
var customMonthAbbr = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "June",
	"July", "Aug", "Sept", "Oct", "Nov", "Dec",
}

func customMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return customMonthAbbr[m-1]
}

func shortMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return m.String()[:3]
}

// rangeMonth is used by year-month ranges: 3 letters on mobile, the custom
// table on desktop.
func rangeMonth(m time.Month, d model.Device) string {
	if d == model.DeviceMobile {
		return shortMonth(m)
	}
	return customMonth(m)
}

// primaryMonth labels the first (or only) date of a full-date range. It
// always uses the custom table.
func primaryMonth(m time.Month, _ model.Device) string {
	return customMonth(m)
}

// secondaryMonth labels the closing date of a full-date range. On mobile it
// drops to 3 letters while the primary label keeps the custom table, so
// desktop "June 28 - July 2, 2025" reads "June 28 - Jul 2, 2025" on mobile.
// Existing labels depend on the mix.
func secondaryMonth(m time.Month, d model.Device) string {
	if d == model.DeviceMobile {
		return shortMonth(m)
	}
	return customMonth(m)
}

// yearLabel truncates to an apostrophe-marked two-digit year on mobile
// ("'25"), so "Dec '24 - Jan '25" cannot be read as two days.
func yearLabel(y int, d model.Device) string {
	if d == model.DeviceMobile {
		return fmt.Sprintf("'%02d", y%100)
	}
	return strconv.Itoa(y)
}

// Ordinal returns the English ordinal suffix for a day of month.
func Ordinal(day int) string {
	if n := day % 100; n >= 11 && n <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func dayWithOrdinal(day int, sup bool) string {
	if sup {
		return strconv.Itoa(day) + "<sup>" + Ordinal(day) + "</sup>"
	}
	return strconv.Itoa(day) + Ordinal(day)
}

// clockLabel renders a 12-hour clock, omitting ":00" ("3pm", "7:59pm").
func clockLabel(t time.Time) string {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	suffix := "am"
	if t.Hour() >= 12 {
		suffix = "pm"
	}
	if t.Minute() == 0 {
		return strconv.Itoa(h) + suffix
	}
	return fmt.Sprintf("%d:%02d%s", h, t.Minute(), suffix)
}

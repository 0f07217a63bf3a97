package datefmt

import (
	"strconv"
	"strings"
	"time"

	"streetartlist/internal/model"
)

const (
	LabelInviteOnly      = "Invite-only"
	LabelRollingCall     = "Rolling Open Call"
	LabelEmailOnly       = "No Deadline\nEmail Submissions"
	LabelNoCall          = "No Open Call"
	LabelUnknownDeadline = "Unknown Deadline"
	LabelInvalidDate     = "Invalid date"
)

// DeadlineOptions selects the deadline variant.
type DeadlineOptions struct {
	// Preview drops the year. The remaining detail depends on Screen.
	Preview bool
	Screen  model.ScreenSize
	// WeeklyRecap drops the zone abbreviation. Preview takes precedence.
	WeeklyRecap bool
	// Superscript wraps the ordinal suffix in <sup></sup>.
	Superscript bool
}

// FormatDeadline renders the closing date of an open call in zone tz.
// Only Fixed calls (and unrecognized types) look at end at all. The
// "@ {time}" part is only rendered when end carries a clock; date-only
// ends name the day, and coarser ends (season, month, year) render as
// written.
func (f *Formatter) FormatDeadline(end, tz string, callType model.CallType, opts DeadlineOptions) string {
	if label, ok := callTypeLabel(callType, LabelRollingCall); ok {
		return label
	}

	end = strings.TrimSpace(end)
	if end == "" {
		return LabelUnknownDeadline
	}

	loc := f.Zone(tz)
	p, ok := Parse(end, loc)
	if !ok {
		return LabelInvalidDate
	}

	if p.Granularity != FullDate {
		// Seasons, years and months have no day to name.
		return single(p, DisplayMode{})
	}
	if !p.HasClock {
		return dateOnlyDeadline(p, loc, opts)
	}

	t := p.Time.In(loc)
	day := dayWithOrdinal(t.Day(), opts.Superscript)
	clock := clockLabel(t)
	abbr := t.Format("MST")

	if opts.Preview {
		switch opts.Screen {
		case model.ScreenMobile:
			return shortMonth(t.Month()) + " " + day
		case model.ScreenTablet:
			return customMonth(t.Month()) + " " + day + " @ " + clock
		case model.ScreenXLDesktop:
			return t.Month().String() + " " + day + " @ " + clock + " (" + abbr + ")"
		default:
			return customMonth(t.Month()) + " " + day + " @ " + clock + " (" + abbr + ")"
		}
	}

	full := t.Month().String() + " " + day + ", " + strconv.Itoa(t.Year()) + " @ " + clock
	if opts.WeeklyRecap {
		return full
	}
	return full + " (" + abbr + ")"
}

// dateOnlyDeadline renders a deadline that names a day but no time of
// day. The calendar day is taken as written and no clock is shown.
func dateOnlyDeadline(p ParsedDate, loc *time.Location, opts DeadlineOptions) string {
	day := dayWithOrdinal(p.Day, opts.Superscript)
	abbr := p.Time.In(loc).Format("MST")

	if opts.Preview {
		switch opts.Screen {
		case model.ScreenMobile:
			return shortMonth(p.Month) + " " + day
		case model.ScreenTablet:
			return customMonth(p.Month) + " " + day
		case model.ScreenXLDesktop:
			return p.Month.String() + " " + day + " (" + abbr + ")"
		default:
			return customMonth(p.Month) + " " + day + " (" + abbr + ")"
		}
	}

	full := p.Month.String() + " " + day + ", " + strconv.Itoa(p.Year)
	if opts.WeeklyRecap {
		return full
	}
	return full + " (" + abbr + ")"
}

// FormatCallWindow renders the whole submission window of an open call.
// Unlike FormatDeadline it labels rolling calls "Ongoing".
func (f *Formatter) FormatCallWindow(start, end, tz string, callType model.CallType, mode DisplayMode) string {
	if label, ok := callTypeLabel(callType, LabelOngoing); ok {
		return label
	}
	if strings.TrimSpace(start) == "" && strings.TrimSpace(end) == "" {
		return LabelUnknownDeadline
	}
	return New(f.Zone(tz)).FormatRange(start, end, model.EventFormatNone, mode)
}

// callTypeLabel returns the constant label for call types that carry no
// dates. rolling differs between call sites.
func callTypeLabel(ct model.CallType, rolling string) (string, bool) {
	switch ct {
	case model.CallInvite:
		return LabelInviteOnly, true
	case model.CallRolling:
		return rolling, true
	case model.CallEmail:
		return LabelEmailOnly, true
	case model.CallFalse:
		return LabelNoCall, true
	default:
		return "", false
	}
}

// DeadlineTime resolves a deadline DateSpec to an instant in zone tz. It
// is the same resolution FormatDeadline uses, for sorting and filtering.
func (f *Formatter) DeadlineTime(end, tz string) (time.Time, bool) {
	p, ok := Parse(end, f.Zone(tz))
	if !ok {
		return time.Time{}, false
	}
	return p.Time, true
}

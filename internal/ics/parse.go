package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "streetartlist/internal/log"
	"streetartlist/internal/model"
)

// Listing-specific VEVENT properties. DTSTART/DTEND can only carry real
// dates, so partial and seasonal event dates travel in the X- overrides.
const (
	PropEventFormat ical.ComponentProperty = "X-SAL-EVENT-FORMAT"
	PropEventStart  ical.ComponentProperty = "X-SAL-EVENT-START"
	PropEventEnd    ical.ComponentProperty = "X-SAL-EVENT-END"
	PropCallType    ical.ComponentProperty = "X-SAL-CALL-TYPE"
	PropCallStart   ical.ComponentProperty = "X-SAL-CALL-START"
	PropCallEnd     ical.ComponentProperty = "X-SAL-CALL-END"
	PropCallTZ      ical.ComponentProperty = "X-SAL-CALL-TZ"

	propRecurrenceID ical.ComponentProperty = "RECURRENCE-ID"
)

var (
	ErrEmptyBody  = errors.New("ics: empty body")
	ErrMissingUID = errors.New("ics: missing UID")
)

// ParsedListing is a VEVENT mapped onto a listing, plus the recurrence
// data Expand needs.
type ParsedListing struct {
	Listing model.Listing

	// Start/End are the concrete DTSTART/DTEND, zero when absent.
	Start  time.Time
	End    time.Time
	AllDay bool

	RawRRule   string
	ExDates    []time.Time
	Recurrence *time.Time // RECURRENCE-ID, if present
	IsOverride bool
}

// ParseFeed parses one ICS payload. VEVENTs that cannot be mapped are
// logged and skipped.
func ParseFeed(src Source, body []byte) ([]ParsedListing, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, fmt.Errorf("ics: parse %s: %w", src.ID, err)
	}

	out := make([]ParsedListing, 0)
	for _, ve := range cal.Events() {
		pl, perr := parseVEvent(src, ve)
		if perr != nil {
			appLog.Warn("ics vevent skipped", "id", src.ID, "reason", perr.Error())
			continue
		}
		out = append(out, pl)
	}

	appLog.Debug("ics parse completed", "id", src.ID, "listing_count", len(out))
	return out, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (ParsedListing, error) {
	var out ParsedListing

	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		return out, ErrMissingUID
	}

	l := model.Listing{
		ID:       uid,
		UID:      uid,
		SourceID: src.ID,
		Title:    propValue(ve, ical.ComponentPropertySummary),
		Location: propValue(ve, ical.ComponentPropertyLocation),
		URL:      propValue(ve, ical.ComponentPropertyUrl),
	}
	if p := ve.GetProperty(ical.ComponentPropertyOrganizer); p != nil {
		l.Organizer = firstParam(p, "CN")
		if l.Organizer == "" {
			l.Organizer = strings.TrimPrefix(strings.TrimPrefix(p.Value, "mailto:"), "MAILTO:")
		}
	}

	startTZ := ""
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		out.AllDay = isDateValue(p)
		startTZ = firstParam(p, "TZID")
		// Date values and floating times carry no zone; read them in UTC
		// so the result never depends on the host zone.
		loc := locationFor(startTZ, time.Time{})
		if t, err := parseICSTime(p.Value, loc); err == nil {
			out.Start = t
		}
		if e := ve.GetProperty(ical.ComponentPropertyDtEnd); e != nil {
			if t, err := parseICSTime(e.Value, locationFor(firstParam(e, "TZID"), out.Start)); err == nil {
				out.End = t
			}
		}
	}
	if out.End.IsZero() && !out.Start.IsZero() {
		out.End = out.Start
		if out.AllDay {
			out.End = out.Start.AddDate(0, 0, 1)
		}
	}

	l.Event.Format = model.ParseEventFormat(propValue(ve, PropEventFormat))
	l.Event.Start = firstNonEmpty(propValue(ve, PropEventStart), specFor(out.Start, out.AllDay, false))
	l.Event.End = firstNonEmpty(propValue(ve, PropEventEnd), specFor(out.End, out.AllDay, true))

	l.Call.Start = propValue(ve, PropCallStart)
	l.Call.End = propValue(ve, PropCallEnd)
	switch ct := propValue(ve, PropCallType); {
	case ct != "":
		l.Call.Type = model.ParseCallType(ct)
	case l.Call.Start != "" || l.Call.End != "":
		// Call dates without a type are a fixed deadline.
		l.Call.Type = model.CallFixed
	default:
		l.Call.Type = model.CallFalse
	}
	l.Call.Timezone = firstNonEmpty(propValue(ve, PropCallTZ), startTZ)

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		loc := locationFor(firstParam(p, "TZID"), out.Start)
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, loc); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty(propRecurrenceID); p != nil {
		if t, err := parseICSTime(p.Value, locationFor(firstParam(p, "TZID"), out.Start)); err == nil {
			out.Recurrence = &t
			out.IsOverride = true
		}
	}

	out.Listing = l
	return out, nil
}

// specFor turns a concrete DTSTART/DTEND into a DateSpec. All-day values
// become "YYYY-MM-DD"; DTEND of an all-day event is exclusive, so the
// displayed end is the day before.
func specFor(t time.Time, allDay, isEnd bool) model.DateSpec {
	if t.IsZero() {
		return ""
	}
	if allDay {
		if isEnd {
			t = t.AddDate(0, 0, -1)
		}
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}

func firstParam(p *ical.IANAProperty, name string) string {
	if p == nil || p.ICalParameters == nil {
		return ""
	}
	if vs, ok := p.ICalParameters[name]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func isDateValue(p *ical.IANAProperty) bool {
	if strings.EqualFold(firstParam(p, "VALUE"), "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// locationFor prefers an explicit TZID, then the location of ref.
func locationFor(tzid string, ref time.Time) *time.Location {
	if tzid != "" {
		if loc, err := time.LoadLocation(tzid); err == nil {
			return loc
		}
	}
	if !ref.IsZero() {
		return ref.Location()
	}
	return time.UTC
}

// parseICSTime parses the basic DATE / DATE-TIME forms used by EXDATE and
// RECURRENCE-ID. Floating values are read in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

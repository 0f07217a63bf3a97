package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "streetartlist/internal/log"
	"streetartlist/internal/model"
)

const defaultMaxInstancesPerListing = 500

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// RangeStart / RangeEnd bound the instances of recurring listings.
	// Non-recurring listings are kept regardless of their dates: seasonal
	// and partial DateSpecs cannot be placed on a timeline.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxInstancesPerListing caps runaway rules. Zero means the default.
	MaxInstancesPerListing int
}

// ExpandResult is the flattened set of listings plus the UIDs whose rules
// hit the instance cap.
type ExpandResult struct {
	Listings  []model.Listing
	Truncated []string
}

// Expand flattens parsed listings: RRULE listings become one listing per
// instance in range (EXDATEs removed, RECURRENCE-ID overrides applied);
// everything else passes through unchanged.
func Expand(parsed []ParsedListing, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("ics: expand range end is before start")
	}
	if cfg.MaxInstancesPerListing <= 0 {
		cfg.MaxInstancesPerListing = defaultMaxInstancesPerListing
	}

	var order []string
	baseByUID := make(map[string][]ParsedListing)
	overridesByUID := make(map[string][]ParsedListing)

	for _, pl := range parsed {
		uid := pl.Listing.UID
		if pl.IsOverride && pl.Recurrence != nil {
			overridesByUID[uid] = append(overridesByUID[uid], pl)
			continue
		}
		if _, seen := baseByUID[uid]; !seen {
			order = append(order, uid)
		}
		baseByUID[uid] = append(baseByUID[uid], pl)
	}

	out := make([]model.Listing, 0, len(parsed))
	for _, uid := range order {
		ov := overridesByUID[uid]
		truncated := false

		for _, base := range baseByUID[uid] {
			if base.RawRRule == "" {
				out = append(out, expandSingle(base, ov))
				continue
			}
			instances, hitCap := expandRecurring(base, ov, cfg)
			truncated = truncated || hitCap
			out = append(out, instances...)
		}

		if truncated {
			result.Truncated = append(result.Truncated, uid)
			appLog.Warn("ics expand truncated recurring listing", "uid", uid, "cap", cfg.MaxInstancesPerListing)
		}
	}

	result.Listings = out
	return result, nil
}

func expandSingle(base ParsedListing, overrides []ParsedListing) model.Listing {
	if base.Start.IsZero() {
		return base.Listing
	}
	if o, ok := findOverride(overrides, base.Start); ok {
		l := o.Listing
		l.ID = base.Listing.ID
		return l
	}
	return base.Listing
}

func expandRecurring(base ParsedListing, overrides []ParsedListing, cfg ExpandConfig) ([]model.Listing, bool) {
	out := make([]model.Listing, 0)

	if base.Start.IsZero() {
		appLog.Warn("ics expand: RRULE without DTSTART", "uid", base.Listing.UID)
		return []model.Listing{base.Listing}, false
	}

	r, err := rrule.StrToRRule(base.RawRRule)
	if err != nil {
		appLog.Error("ics expand: failed to parse RRULE", err, "uid", base.Listing.UID, "rrule", base.RawRRule)
		return []model.Listing{base.Listing}, false
	}
	r.DTStart(base.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range base.ExDates {
		set.ExDate(ex.In(base.Start.Location()))
	}

	loc := base.Start.Location()
	starts := set.Between(cfg.RangeStart.In(loc), cfg.RangeEnd.In(loc), true)

	hitCap := false
	if len(starts) > cfg.MaxInstancesPerListing {
		starts = starts[:cfg.MaxInstancesPerListing]
		hitCap = true
	}

	dur := base.End.Sub(base.Start)
	for _, start := range starts {
		src := base
		occStart, occEnd := start, start.Add(dur)

		if o, ok := findOverride(overrides, start); ok {
			src = o
			if !o.Start.IsZero() {
				occStart, occEnd = o.Start, o.End
			}
		}

		l := src.Listing
		l.ID = instanceID(base.Listing.UID, start)
		l.Event.Start = specFor(occStart, src.AllDay, false)
		l.Event.End = specFor(occEnd, src.AllDay, true)
		out = append(out, l)
	}

	return out, hitCap
}

// instanceID identifies one instance of a recurring listing by its
// original (pre-override) start.
func instanceID(uid string, start time.Time) string {
	return uid + "#" + start.UTC().Format(time.RFC3339)
}

func findOverride(overrides []ParsedListing, start time.Time) (ParsedListing, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && ov.Recurrence.Equal(start) {
			return ov, true
		}
	}
	return ParsedListing{}, false
}

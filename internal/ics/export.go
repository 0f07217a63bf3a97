package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"streetartlist/internal/datefmt"
	"streetartlist/internal/model"
)

const exportProductID = "-//The Street Art List//Open Call Deadlines//EN"

// ExportDeadlines builds a subscribable calendar with one zero-length
// VEVENT per Fixed open call whose deadline parses. The description holds
// the same label the board shows.
func ExportDeadlines(listings []model.Listing, f *datefmt.Formatter, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(exportProductID)
	cal.SetXWRCalName("Open Call Deadlines")

	for _, l := range listings {
		if l.Call.Type != model.CallFixed {
			continue
		}
		deadline, ok := f.DeadlineTime(l.Call.End, l.Call.Timezone)
		if !ok {
			continue
		}

		ev := cal.AddEvent("deadline-" + l.ID)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(deadline)
		ev.SetEndAt(deadline)
		ev.SetSummary("Deadline: " + l.Title)
		ev.SetDescription(f.FormatDeadline(l.Call.End, l.Call.Timezone, l.Call.Type, datefmt.DeadlineOptions{}))
		if l.URL != "" {
			ev.SetURL(l.URL)
		}
		if l.Location != "" {
			ev.SetLocation(l.Location)
		}
	}

	return cal.Serialize()
}

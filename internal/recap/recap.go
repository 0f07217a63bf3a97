// Package recap builds the weekly digest of open calls that are about to
// close.
package recap

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"streetartlist/internal/datefmt"
	"streetartlist/internal/model"
)

// Item is one open call in the digest.
type Item struct {
	ListingID string    `json:"listing_id"`
	Title     string    `json:"title"`
	Organizer string    `json:"organizer,omitempty"`
	URL       string    `json:"url,omitempty"`
	Deadline  string    `json:"deadline"`
	At        time.Time `json:"at"`
}

// Recap lists the Fixed open calls closing in [From, To).
type Recap struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Label string    `json:"label"`
	Items []Item    `json:"items"`
}

// Build collects the Fixed calls whose deadline falls in [now, now+window),
// soonest first. Deadlines are labeled with the weekly recap variant.
func Build(listings []model.Listing, f *datefmt.Formatter, now time.Time, window time.Duration) Recap {
	from := now.In(f.Zone(""))
	to := from.Add(window)

	r := Recap{
		From:  from,
		To:    to,
		Label: f.FormatRange(from.Format(time.DateOnly), to.Format(time.DateOnly), model.EventFormatNone, datefmt.DisplayMode{Device: model.DeviceDesktop}),
		Items: []Item{},
	}

	opts := datefmt.DeadlineOptions{WeeklyRecap: true}
	for _, l := range listings {
		if l.Call.Type != model.CallFixed {
			continue
		}
		at, ok := f.DeadlineTime(l.Call.End, l.Call.Timezone)
		if !ok || at.Before(from) || !at.Before(to) {
			continue
		}
		r.Items = append(r.Items, Item{
			ListingID: l.ID,
			Title:     l.Title,
			Organizer: l.Organizer,
			URL:       l.URL,
			Deadline:  f.FormatDeadline(l.Call.End, l.Call.Timezone, l.Call.Type, opts),
			At:        at.UTC(),
		})
	}

	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].At.Before(r.Items[j].At)
	})
	return r
}

// Text renders the digest as plain text.
func (r Recap) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Open calls closing %s\n", r.Label)
	if len(r.Items) == 0 {
		b.WriteString("\nNo open calls close in this window.\n")
		return b.String()
	}
	b.WriteString("\n")
	for _, it := range r.Items {
		b.WriteString("- ")
		b.WriteString(it.Title)
		if it.Organizer != "" {
			b.WriteString(" (" + it.Organizer + ")")
		}
		b.WriteString(": " + it.Deadline + "\n")
		if it.URL != "" {
			b.WriteString("  " + it.URL + "\n")
		}
	}
	return b.String()
}

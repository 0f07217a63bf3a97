package board

import (
	"sort"
	"strings"
	"time"

	"streetartlist/internal/datefmt"
	"streetartlist/internal/model"
)

// Card is a listing with every label already rendered.
type Card struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Organizer string `json:"organizer,omitempty"`
	Location  string `json:"location,omitempty"`
	URL       string `json:"url,omitempty"`

	// Dates is the event date range.
	Dates string `json:"dates"`
	// Deadline is the compact deadline label for the requested screen.
	Deadline string `json:"deadline"`
	// CallWindow is the full submission window.
	CallWindow string         `json:"call_window"`
	CallType   model.CallType `json:"call_type"`

	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
}

// View selects the display mode cards are rendered for.
type View struct {
	Device model.Device
	Screen model.ScreenSize
}

// BuildCards renders listings for v. Cards with a resolvable Fixed
// deadline come first, soonest first; the rest follow by title.
func BuildCards(listings []model.Listing, f *datefmt.Formatter, v View) []Card {
	mode := datefmt.DisplayMode{Device: v.Device}
	preview := datefmt.DeadlineOptions{Preview: true, Screen: v.Screen}

	cards := make([]Card, 0, len(listings))
	for _, l := range listings {
		c := Card{
			ID:         l.ID,
			Title:      l.Title,
			Organizer:  l.Organizer,
			Location:   l.Location,
			URL:        l.URL,
			Dates:      f.FormatRange(l.Event.Start, l.Event.End, l.Event.Format, mode),
			Deadline:   f.FormatDeadline(l.Call.End, l.Call.Timezone, l.Call.Type, preview),
			CallWindow: f.FormatCallWindow(l.Call.Start, l.Call.End, l.Call.Timezone, l.Call.Type, mode),
			CallType:   l.Call.Type,
		}
		if l.Call.Type == model.CallFixed {
			if at, ok := f.DeadlineTime(l.Call.End, l.Call.Timezone); ok {
				at = at.UTC()
				c.DeadlineAt = &at
			}
		}
		cards = append(cards, c)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i].DeadlineAt, cards[j].DeadlineAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return strings.ToLower(cards[i].Title) < strings.ToLower(cards[j].Title)
	})

	return cards
}

package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownZone is returned by ResolveLocation for names that are not
// IANA zones.
var ErrUnknownZone = errors.New("datefmt: unknown time zone")

// ResolveLocation loads an IANA zone by name. "Local" and the empty string
// are rejected so formatting never depends on the host zone.
func ResolveLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownZone, name, err)
	}
	return loc, nil
}

// Formatter renders date labels in a fixed display location. The zero
// value formats in UTC.
type Formatter struct {
	Location *time.Location
}

// New returns a Formatter for loc (UTC when nil).
func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{Location: loc}
}

func (f *Formatter) location() *time.Location {
	if f == nil || f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// Zone resolves a per-call zone name, falling back to the formatter's own
// location when the name is empty or unknown.
func (f *Formatter) Zone(name string) *time.Location {
	if loc, err := ResolveLocation(name); err == nil {
		return loc
	}
	return f.location()
}

package model

import "strings"

// DateSpec is a raw date string as stored on a listing. It is one of:
//   - full ISO-8601 ("2025-06-15T23:59:59Z", "2025-06-15")
//   - year-month ("2025-06")
//   - year only ("2025")
//   - seasonal ("Fall 2025")
//
// Anything else is treated as invalid by the formatters.
type DateSpec = string

// EventFormat tags how an event's dates should be displayed.
type EventFormat string

const (
	// EventFormatNone means the format was not specified; dates are used as-is.
	EventFormatNone EventFormat = ""
	// EventFormatDated is an event bounded by its start/end DateSpecs.
	EventFormatDated EventFormat = "dated"
	// EventFormatOngoing ignores start/end entirely for display.
	EventFormatOngoing EventFormat = "ongoing"
)

// ParseEventFormat maps a loose string onto an EventFormat.
func ParseEventFormat(s string) EventFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ongoing":
		return EventFormatOngoing
	case "":
		return EventFormatNone
	default:
		return EventFormatDated
	}
}

// CallType classifies how an open call accepts submissions.
type CallType string

const (
	CallFixed   CallType = "Fixed"
	CallRolling CallType = "Rolling"
	CallInvite  CallType = "Invite"
	CallEmail   CallType = "Email"
	CallFalse   CallType = "False"
)

// ParseCallType maps a loose string onto a CallType. Unknown values fall
// through to CallFixed, which is also what the deadline formatter does with
// an unspecified type.
func ParseCallType(s string) CallType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rolling":
		return CallRolling
	case "invite", "invite-only":
		return CallInvite
	case "email":
		return CallEmail
	case "false", "none":
		return CallFalse
	default:
		return CallFixed
	}
}

// Device is the width class of the rendering surface.
type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)

// ParseDevice defaults to DeviceDesktop for anything but "mobile".
func ParseDevice(s string) Device {
	if strings.EqualFold(strings.TrimSpace(s), string(DeviceMobile)) {
		return DeviceMobile
	}
	return DeviceDesktop
}

// ScreenSize is the finer-grained breakpoint used by deadline previews.
type ScreenSize string

const (
	ScreenMobile    ScreenSize = "mobile"
	ScreenTablet    ScreenSize = "tablet"
	ScreenDesktop   ScreenSize = "desktop"
	ScreenXLDesktop ScreenSize = "xl_desktop"
)

// ParseScreenSize defaults to ScreenDesktop.
func ParseScreenSize(s string) ScreenSize {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mobile":
		return ScreenMobile
	case "tablet":
		return ScreenTablet
	case "xl_desktop", "xldesktop", "xl-desktop", "xl":
		return ScreenXLDesktop
	default:
		return ScreenDesktop
	}
}

// Event holds the display dates of a listing.
type Event struct {
	Format EventFormat `json:"format,omitempty" yaml:"format,omitempty"`
	Start  DateSpec    `json:"start,omitempty" yaml:"start,omitempty"`
	End    DateSpec    `json:"end,omitempty" yaml:"end,omitempty"`
}

// OpenCall describes the submission window of a listing.
type OpenCall struct {
	Type  CallType `json:"type" yaml:"type"`
	Start DateSpec `json:"start,omitempty" yaml:"start,omitempty"`
	End   DateSpec `json:"end,omitempty" yaml:"end,omitempty"`
	// Timezone is the IANA zone the deadline is expressed in.
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Listing is a single event / open call as shown on the board.
type Listing struct {
	// ID is unique per listing instance. For expanded recurring listings it
	// is derived from the iCalendar UID and the instance start.
	ID       string `json:"id"`
	UID      string `json:"uid"`
	SourceID string `json:"source_id"`

	Title     string `json:"title"`
	Organizer string `json:"organizer,omitempty"`
	Location  string `json:"location,omitempty"`
	URL       string `json:"url,omitempty"`

	Event Event    `json:"event"`
	Call  OpenCall `json:"call"`
}

// HasOpenCall reports whether the listing accepts submissions in any form.
func (l *Listing) HasOpenCall() bool {
	return l.Call.Type != CallFalse
}

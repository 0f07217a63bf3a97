package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"streetartlist/internal/model"
)

func TestFormatDeadline_Fixed(t *testing.T) {
	tests := []struct {
		name string
		end  string
		tz   string
		opts DeadlineOptions
		want string
	}{
		{"new york summer", "2025-06-15T23:59:59Z", "America/New_York", DeadlineOptions{}, "June 15th, 2025 @ 7:59pm (EDT)"},
		{"superscript", "2025-06-15T23:59:59Z", "America/New_York", DeadlineOptions{Superscript: true}, "June 15<sup>th</sup>, 2025 @ 7:59pm (EDT)"},
		{"on the hour", "2025-06-15T15:00:00Z", "UTC", DeadlineOptions{}, "June 15th, 2025 @ 3pm (UTC)"},
		{"midnight", "2025-01-01T05:00:00Z", "America/New_York", DeadlineOptions{}, "January 1st, 2025 @ 12am (EST)"},
		{"noon", "2025-03-22T12:00:00Z", "UTC", DeadlineOptions{}, "March 22nd, 2025 @ 12pm (UTC)"},
		{"weekly recap", "2025-06-15T23:59:59Z", "America/New_York", DeadlineOptions{WeeklyRecap: true}, "June 15th, 2025 @ 7:59pm"},

		{"preview mobile", "2025-09-02T16:30:00Z", "America/New_York", DeadlineOptions{Preview: true, Screen: model.ScreenMobile}, "Sep 2nd"},
		{"preview tablet", "2025-09-02T16:30:00Z", "America/New_York", DeadlineOptions{Preview: true, Screen: model.ScreenTablet}, "Sept 2nd @ 12:30pm"},
		{"preview desktop", "2025-09-02T16:30:00Z", "America/New_York", DeadlineOptions{Preview: true, Screen: model.ScreenDesktop}, "Sept 2nd @ 12:30pm (EDT)"},
		{"preview default screen", "2025-09-02T16:30:00Z", "America/New_York", DeadlineOptions{Preview: true}, "Sept 2nd @ 12:30pm (EDT)"},
		{"preview xl", "2025-09-02T16:30:00Z", "America/New_York", DeadlineOptions{Preview: true, Screen: model.ScreenXLDesktop}, "September 2nd @ 12:30pm (EDT)"},
		{"preview wins over recap", "2025-09-02T16:30:00Z", "America/New_York", DeadlineOptions{Preview: true, WeeklyRecap: true, Screen: model.ScreenTablet}, "Sept 2nd @ 12:30pm"},

		{"unknown zone falls back", "2025-06-15T23:59:59Z", "Mars/Olympus_Mons", DeadlineOptions{}, "June 15th, 2025 @ 11:59pm (UTC)"},
		{"date only", "2025-06-15", "UTC", DeadlineOptions{}, "June 15th, 2025 (UTC)"},
		{"date only keeps day in zone", "2025-06-15", "America/New_York", DeadlineOptions{}, "June 15th, 2025 (EDT)"},
		{"date only recap", "2025-06-15", "America/New_York", DeadlineOptions{WeeklyRecap: true}, "June 15th, 2025"},
		{"date only preview tablet", "2025-06-15", "America/New_York", DeadlineOptions{Preview: true, Screen: model.ScreenTablet}, "June 15th"},
		{"date only preview mobile", "2025-09-02", "UTC", DeadlineOptions{Preview: true, Screen: model.ScreenMobile}, "Sep 2nd"},
		{"seasonal", "Fall 2025", "America/New_York", DeadlineOptions{}, "Fall 2025"},
		{"year month", "2025-09", "UTC", DeadlineOptions{}, "September 2025"},
		{"year only", "2026", "UTC", DeadlineOptions{Preview: true}, "2026"},
		{"empty", "", "UTC", DeadlineOptions{}, "Unknown Deadline"},
		{"blank", "   ", "America/New_York", DeadlineOptions{}, "Unknown Deadline"},
		{"garbage", "not a date", "UTC", DeadlineOptions{}, "Invalid date"},
		{"impossible day", "2025-02-30", "UTC", DeadlineOptions{}, "Invalid date"},
	}

	f := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.FormatDeadline(tt.end, tt.tz, model.CallFixed, tt.opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDeadline_UnspecifiedTypeIsFixed(t *testing.T) {
	f := New(nil)
	assert.Equal(t,
		f.FormatDeadline("2025-06-15T23:59:59Z", "UTC", model.CallFixed, DeadlineOptions{}),
		f.FormatDeadline("2025-06-15T23:59:59Z", "UTC", "", DeadlineOptions{}),
	)
}

func TestFormatDeadline_ConstantCallTypes(t *testing.T) {
	ends := []string{"", "garbage", "2025-06-15T23:59:59Z", "Fall 2025"}
	zones := []string{"", "UTC", "America/New_York", "bogus"}
	optsList := []DeadlineOptions{{}, {Preview: true, Screen: model.ScreenMobile}, {WeeklyRecap: true}}

	tests := []struct {
		callType model.CallType
		want     string
	}{
		{model.CallInvite, "Invite-only"},
		{model.CallRolling, "Rolling Open Call"},
		{model.CallEmail, "No Deadline\nEmail Submissions"},
		{model.CallFalse, "No Open Call"},
	}

	f := New(time.UTC)
	for _, tt := range tests {
		t.Run(string(tt.callType), func(t *testing.T) {
			for _, end := range ends {
				for _, tz := range zones {
					for _, opts := range optsList {
						assert.Equal(t, tt.want, f.FormatDeadline(end, tz, tt.callType, opts))
					}
				}
			}
		})
	}
}

func TestFormatCallWindow(t *testing.T) {
	f := New(nil)

	tests := []struct {
		name     string
		start    string
		end      string
		tz       string
		callType model.CallType
		want     string
	}{
		{"rolling", "2025-06-01", "2025-06-30", "UTC", model.CallRolling, "Ongoing"},
		{"invite", "", "", "UTC", model.CallInvite, "Invite-only"},
		{"email", "", "", "UTC", model.CallEmail, "No Deadline\nEmail Submissions"},
		{"no call", "", "", "UTC", model.CallFalse, "No Open Call"},
		{"fixed window", "2025-06-01", "2025-06-30", "America/New_York", model.CallFixed, "June 1-30 (2025)"},
		{"fixed deadline only", "", "2025-06-30T23:59:00Z", "UTC", model.CallFixed, "By June 30 (2025)"},
		{"fixed in zone", "", "2025-07-01T02:00:00Z", "America/Los_Angeles", model.CallFixed, "By June 30 (2025)"},
		{"fixed without dates", "", "", "UTC", model.CallFixed, "Unknown Deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatCallWindow(tt.start, tt.end, tt.tz, tt.callType, desktop))
		})
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th", 10: "th",
		11: "th", 12: "th", 13: "th", 21: "st", 22: "nd", 23: "rd", 30: "th", 31: "st",
	}
	for day, want := range tests {
		assert.Equal(t, want, Ordinal(day), "day %d", day)
	}
}

func TestClockLabel(t *testing.T) {
	tests := []struct {
		hour, min int
		want      string
	}{
		{0, 0, "12am"},
		{0, 5, "12:05am"},
		{9, 30, "9:30am"},
		{12, 0, "12pm"},
		{15, 0, "3pm"},
		{23, 59, "11:59pm"},
	}
	for _, tt := range tests {
		ts := time.Date(2025, 6, 15, tt.hour, tt.min, 0, 0, time.UTC)
		assert.Equal(t, tt.want, clockLabel(ts))
	}
}

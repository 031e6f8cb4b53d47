package entities

import (
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day in minutes since midnight.
type ClockTime int

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	"15",
}

// ParseClockTime parses "14:30", "2:30 PM", "2PM" and similar forms.
// "24:00" is accepted as end of day.
func ParseClockTime(s string) (ClockTime, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, ".", "")
	if v == "" {
		return 0, fmt.Errorf("empty time")
	}
	if v == "24:00" {
		return ClockTime(minutesPerDay), nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return ClockTime(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("unrecognized time %q", s)
}

// MustClock is ParseClockTime for literals known to be valid.
func MustClock(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Minutes returns the number of minutes since midnight
func (c ClockTime) Minutes() int {
	return int(c)
}

// String formats the time as HH:MM
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalText implements encoding.TextMarshaler
func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TimeWindow is a requested open/close window, e.g. lunch from 11:00 to 15:00.
type TimeWindow struct {
	Open  ClockTime `json:"open"`
	Close ClockTime `json:"close"`
}

// Named windows offered by the filter bar.
var (
	LunchWindow  = TimeWindow{Open: MustClock("11:00"), Close: MustClock("15:00")}
	DinnerWindow = TimeWindow{Open: MustClock("17:00"), Close: MustClock("22:00")}
)

// ParseTimeWindow accepts "lunch", "dinner" or "HH:MM-HH:MM".
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lunch":
		return LunchWindow, nil
	case "dinner":
		return DinnerWindow, nil
	}
	open, closing, ok := strings.Cut(s, "-")
	if !ok {
		return TimeWindow{}, fmt.Errorf("time window %q must be lunch, dinner or OPEN-CLOSE", s)
	}
	o, err := ParseClockTime(open)
	if err != nil {
		return TimeWindow{}, err
	}
	c, err := ParseClockTime(closing)
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Open: o, Close: c}, nil
}

func (w TimeWindow) String() string {
	return w.Open.String() + "-" + w.Close.String()
}

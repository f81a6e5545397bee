package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeString is returned when a value is not a valid HH:MM wall-clock time
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString is a wall-clock time of day in HH:MM format (e.g. "14:30").
// It carries no date and no location.
type TimeString string

// NewTimeString builds a TimeString from the hour and minute of t
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// ParseTimeString validates s and returns it as a TimeString
func ParseTimeString(s string) (TimeString, error) {
	ts := TimeString(strings.TrimSpace(s))
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

func (t TimeString) String() string {
	return string(t)
}

// IsZero returns true if the time string is empty
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks the HH:MM format and the hour/minute ranges
func (t TimeString) Validate() error {
	_, _, err := t.Clock()
	return err
}

// Clock splits the value on ':' and returns hour and minute.
// Hour may be one or two digits, minute must be exactly two.
func (t TimeString) Clock() (hour, minute int, err error) {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour out of range in %q", ErrInvalidTimeString, string(t))
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute out of range in %q", ErrInvalidTimeString, string(t))
	}

	return hour, minute, nil
}

// MinutesOfDay returns minutes elapsed since 00:00
func (t TimeString) MinutesOfDay() (int, error) {
	h, m, err := t.Clock()
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// On places the time of day on the calendar date of day, in day's location.
// Seconds and nanoseconds are zeroed.
func (t TimeString) On(day time.Time) (time.Time, error) {
	h, m, err := t.Clock()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}

// Value implements driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan implements sql.Scanner. PostgreSQL TIME columns arrive as "HH:MM:SS".
func (t *TimeString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}

	if len(raw) > 5 && strings.Count(raw, ":") == 2 {
		raw = raw[:strings.LastIndex(raw, ":")]
	}
	*t = TimeString(raw)
	return nil
}

package services

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

const dayKeyLayout = "2006-01-02"

// LoadLocationOrUTC resolves an IANA zone name, falling back to UTC instead
// of failing when the name is blank or unknown.
func LoadLocationOrUTC(name string) *time.Location {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(trimmed)
	if err != nil {
		return time.UTC
	}
	return location
}

// DayKeyFromString parses a YYYY-MM-DD value as wall-clock midnight in the
// given zone and returns the canonical day key: midnight UTC of that
// calendar date. Two records for the same local day compare equal no matter
// which zone produced them.
func DayKeyFromString(value string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(dayKeyLayout, strings.TrimSpace(value), location)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	year, month, day := parsed.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// DayKeyFromInstant converts an absolute instant to the day key of the
// calendar day it falls on in the given zone.
func DayKeyFromInstant(instant time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := instant.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func DayKeyString(dayKey time.Time) string {
	return dayKey.UTC().Format(dayKeyLayout)
}

// DayKeysBetween enumerates every calendar day from start through end
// inclusive, ascending. An inverted range yields an empty slice.
func DayKeysBetween(start time.Time, end time.Time) []time.Time {
	days := make([]time.Time, 0)
	for cursor := start.UTC(); !cursor.After(end.UTC()); cursor = cursor.AddDate(0, 0, 1) {
		days = append(days, cursor)
	}
	return days
}

func laterDay(first time.Time, second time.Time) time.Time {
	if second.After(first) {
		return second
	}
	return first
}

package codec

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp is returned when a timestamp matches none of the known layouts.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// timestampLayout is one historical backend format. Naive layouts carry no
// offset and are read as UTC.
type timestampLayout struct {
	name   string
	layout string
	naive  bool
}

// decodeLayouts is tried in order; the first match wins.
var decodeLayouts = []timestampLayout{
	{name: "fraction-utc", layout: "2006-01-02T15:04:05.999999", naive: true},
	{name: "second-utc", layout: "2006-01-02T15:04:05", naive: true},
	{name: "fraction-offset", layout: "2006-01-02T15:04:05.999999Z07:00"},
	{name: "second-offset", layout: "2006-01-02T15:04:05Z07:00"},
}

// ParseTimestamp decodes a wire timestamp. It never falls back to a default
// date.
func ParseTimestamp(s string) (time.Time, error) {
	for _, l := range decodeLayouts {
		var (
			t   time.Time
			err error
		)
		if l.naive {
			t, err = time.ParseInLocation(l.layout, s, time.UTC)
		} else {
			t, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// Profile names the single outbound timestamp format of a client build.
type Profile string

const (
	// ProfileUTCFraction writes "2026-01-31T17:21:28.791000" in UTC.
	ProfileUTCFraction Profile = "utc-fraction"
	// ProfileLocalOffset writes "2026-01-31T12:21:28.791000-05:00" in the configured zone.
	ProfileLocalOffset Profile = "local-offset"
)

const (
	utcFractionLayout = "2006-01-02T15:04:05.000000"
	localOffsetLayout = "2006-01-02T15:04:05.000000Z07:00"
)

func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfileUTCFraction, ProfileLocalOffset:
		return Profile(s), nil
	}
	return "", fmt.Errorf("unknown timestamp profile %q", s)
}

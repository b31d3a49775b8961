// Package clock holds the single place where "now" and the operating
// timezone are decided. Every component that needs wall-clock arithmetic
// takes a Clock and a Zone from here instead of calling time.Now or
// touching the process-local timezone.
package clock

import (
	"fmt"
	"strings"
	"time"
)

// Clock supplies the current instant. Production code uses System;
// tests pin it with Fixed.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the real clock.
func System() Clock { return systemClock{} }

type fixedClock time.Time

func (f fixedClock) Now() time.Time { return time.Time(f) }

// Fixed returns a clock pinned at t.
func Fixed(t time.Time) Clock { return fixedClock(t) }

const (
	civilLayout      = "2006-01-02 15:04:05"
	civilLayoutNoSec = "2006-01-02 15:04"
)

// Zone is the deployment's fixed civil timezone (e.g. JST, UTC+9).
// It is always built from an explicit offset, never from the host's
// local timezone setting.
type Zone struct {
	loc *time.Location
}

// NewZone builds a Zone with the given display name and UTC offset.
func NewZone(name string, offset time.Duration) Zone {
	return Zone{loc: time.FixedZone(name, int(offset/time.Second))}
}

// Normalize converts a wall-clock string "YYYY-MM-DD HH:MM:SS" (seconds
// optional) written in this zone into an absolute instant. Malformed or
// out-of-range input returns an error; callers treat that as recoverable.
func (z Zone) Normalize(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{civilLayout, civilLayoutNoSec} {
		if t, err := time.ParseInLocation(layout, s, z.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline %q: want YYYY-MM-DD HH:MM:SS", s)
}

// ParseDeadline accepts either the civil wall-clock format or RFC3339,
// so API clients can send what they have.
func (z Zone) ParseDeadline(s string) (time.Time, error) {
	if t, err := z.Normalize(s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("deadline %q: want YYYY-MM-DD HH:MM:SS or RFC3339", s)
}

// Format renders an instant as the zone's wall-clock string. It is the
// inverse of Normalize: Format(Normalize(s)) == s for well-formed s.
func (z Zone) Format(t time.Time) string {
	return t.In(z.loc).Format(civilLayout)
}

// FormatHuman renders an instant the way mail bodies show deadlines.
func (z Zone) FormatHuman(t time.Time) string {
	return t.In(z.loc).Format("2006/01/02 15:04")
}

var jaWeekdays = [...]string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"}

// Stamp renders an instant with its weekday for the extraction prompt,
// so the model can resolve relative phrases like 明日 or 来週の月曜日.
func (z Zone) Stamp(t time.Time) string {
	lt := t.In(z.loc)
	return lt.Format(civilLayoutNoSec) + "（" + jaWeekdays[lt.Weekday()] + "）"
}

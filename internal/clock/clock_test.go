package clock

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func jst() Zone { return NewZone("JST", 9*time.Hour) }

func TestNormalizeFormatRoundTrip(t *testing.T) {
	is := is.New(t)
	z := jst()
	for _, s := range []string{
		"2026-08-31 15:00:00",
		"2026-01-01 00:00:00",
		"2026-12-31 23:59:59",
		"2024-02-29 12:30:45", // leap day
	} {
		got, err := z.Normalize(s)
		is.NoErr(err)
		is.Equal(z.Format(got), s) // round-trip must reproduce the input
	}
}

func TestNormalizeSecondsOptional(t *testing.T) {
	is := is.New(t)
	z := jst()
	got, err := z.Normalize("2026-08-31 15:00")
	is.NoErr(err)
	is.Equal(z.Format(got), "2026-08-31 15:00:00")
}

func TestNormalizeUsesFixedOffsetNotHostZone(t *testing.T) {
	is := is.New(t)
	z := jst()
	got, err := z.Normalize("2026-08-31 09:00:00")
	is.NoErr(err)
	// 09:00 JST is midnight UTC regardless of the process TZ.
	is.Equal(got.UTC(), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	z := jst()
	for _, s := range []string{
		"",
		"tomorrow at 3pm",
		"2026-13-01 10:00:00", // month out of range
		"2026-02-30 10:00:00", // day out of range
		"2026-08-31 25:00:00", // hour out of range
		"2026-08-31T15:00:00", // wrong separator for civil format
	} {
		if _, err := z.Normalize(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestParseDeadlineAcceptsRFC3339(t *testing.T) {
	is := is.New(t)
	z := jst()
	got, err := z.ParseDeadline("2026-08-31T15:00:00+09:00")
	is.NoErr(err)
	is.Equal(z.Format(got), "2026-08-31 15:00:00")
}

func TestStampCarriesJapaneseWeekday(t *testing.T) {
	is := is.New(t)
	z := jst()
	// 2026-08-31 is a Monday.
	at := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	is.Equal(z.Stamp(at), "2026-08-31 19:30（月曜日）")
}

func TestFixedClock(t *testing.T) {
	is := is.New(t)
	at := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	is.Equal(Fixed(at).Now(), at)
}

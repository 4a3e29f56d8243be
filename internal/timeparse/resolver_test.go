package timeparse

import (
	"testing"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

// ref is a Monday morning: 2025-03-10 10:00 UTC.
var ref = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func mustResolve(t *testing.T, text, locale string) *models.ResolvedTime {
	t.Helper()
	r := NewResolver()
	rt, err := r.Resolve(text, ref, locale)
	if err != nil {
		t.Fatalf("Resolve(%q, %s) failed: %v", text, locale, err)
	}
	return rt
}

func TestRelativeOffsetsExact(t *testing.T) {
	cases := []struct {
		text string
		want time.Duration
	}{
		{"in 1 minute", time.Minute},
		{"in 5 minutes", 5 * time.Minute},
		{"in 90 minutes", 90 * time.Minute},
		{"in 1 hour", time.Hour},
		{"in 2 hours", 2 * time.Hour},
		{"in 3 days", 3 * 24 * time.Hour},
		{"in 2 weeks", 2 * 7 * 24 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			rt := mustResolve(t, tc.text, "en")
			if !rt.At.Equal(ref.Add(tc.want)) {
				t.Errorf("At = %v, want %v", rt.At, ref.Add(tc.want))
			}
			if rt.Method != models.MethodRelative {
				t.Errorf("Method = %s, want relative", rt.Method)
			}
		})
	}
}

func TestAbsoluteClockRollover(t *testing.T) {
	// 8am has already passed at the 10:00 reference, so it rolls to tomorrow.
	rt := mustResolve(t, "at 8am", "en")
	want := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("At = %v, want %v", rt.At, want)
	}

	// 3pm is still ahead today.
	rt = mustResolve(t, "at 3pm", "en")
	want = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("At = %v, want %v", rt.At, want)
	}
	if rt.Method != models.MethodAbsoluteClock {
		t.Errorf("Method = %s, want absolute_clock", rt.Method)
	}
}

func TestClockConversion(t *testing.T) {
	cases := []struct {
		text      string
		hour, min int
	}{
		{"at 12pm", 12, 0},
		{"at 12am", 0, 0},
		{"at 5:45 pm", 17, 45},
		{"at 17:30", 17, 30},
		{"at 11am", 11, 0},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			rt := mustResolve(t, tc.text, "en")
			if rt.At.Hour() != tc.hour || rt.At.Minute() != tc.min {
				t.Errorf("At = %v, want %02d:%02d", rt.At, tc.hour, tc.min)
			}
		})
	}
}

func TestInvalidNumericFields(t *testing.T) {
	r := NewResolver()
	for _, text := range []string{"at 25", "at 7:75", "at 13pm", "at 0am", "in 0 minutes"} {
		if _, err := r.Resolve(text, ref, "en"); err == nil {
			t.Errorf("Resolve(%q) should fail, values are never clamped", text)
		}
	}
}

func TestNamedIdioms(t *testing.T) {
	rt := mustResolve(t, "tomorrow", "en")
	want := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("tomorrow: At = %v, want %v", rt.At, want)
	}

	rt = mustResolve(t, "tomorrow at 3pm", "en")
	want = time.Date(2025, 3, 11, 15, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("tomorrow at 3pm: At = %v, want %v", rt.At, want)
	}

	// Tonight is 20:00; at the 10:00 reference it is still today.
	rt = mustResolve(t, "tonight", "en")
	want = time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("tonight: At = %v, want %v", rt.At, want)
	}

	// Past 20:00 it rolls to tomorrow evening.
	late := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	r := NewResolver()
	rt2, err := r.Resolve("tonight", late, "en")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want = time.Date(2025, 3, 11, 20, 0, 0, 0, time.UTC)
	if !rt2.At.Equal(want) {
		t.Errorf("tonight (late): At = %v, want %v", rt2.At, want)
	}

	// This weekend is the upcoming Saturday at noon.
	rt = mustResolve(t, "this weekend", "en")
	want = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("this weekend: At = %v, want %v", rt.At, want)
	}

	rt = mustResolve(t, "next week", "en")
	if !rt.At.Equal(ref.AddDate(0, 0, 7)) {
		t.Errorf("next week: At = %v", rt.At)
	}
	rt = mustResolve(t, "next month", "en")
	if !rt.At.Equal(ref.AddDate(0, 1, 0)) {
		t.Errorf("next month: At = %v", rt.At)
	}
}

func TestWeekdayReferences(t *testing.T) {
	// Reference is a Monday, so "on friday" is this Friday at the 09:00 default.
	rt := mustResolve(t, "on friday", "en")
	want := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("on friday: At = %v, want %v", rt.At, want)
	}
	if rt.Method != models.MethodWeekday {
		t.Errorf("Method = %s, want weekday", rt.Method)
	}

	// "next friday" forces a further 7-day advance.
	rt = mustResolve(t, "next friday", "en")
	want = time.Date(2025, 3, 21, 9, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("next friday: At = %v, want %v", rt.At, want)
	}

	// Today's weekday always means next week's occurrence.
	rt = mustResolve(t, "on monday", "en")
	want = time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("on monday: At = %v, want %v", rt.At, want)
	}

	rt = mustResolve(t, "friday at 3pm", "en")
	want = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("friday at 3pm: At = %v, want %v", rt.At, want)
	}
}

func TestCalendarDates(t *testing.T) {
	rt := mustResolve(t, "on the 5th of may", "en")
	want := time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("5th of may: At = %v, want %v", rt.At, want)
	}
	if rt.Method != models.MethodCalendarDate {
		t.Errorf("Method = %s, want calendar_date", rt.Method)
	}

	// A date already past this year rolls to next year.
	rt = mustResolve(t, "on the 1st of january", "en")
	want = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("1st of january: At = %v, want %v", rt.At, want)
	}

	rt = mustResolve(t, "may 5 at 2pm", "en")
	want = time.Date(2025, 5, 5, 14, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("may 5 at 2pm: At = %v, want %v", rt.At, want)
	}

	// Impossible dates fail instead of normalizing.
	r := NewResolver()
	if _, err := r.Resolve("on the 30th of february", ref, "en"); err == nil {
		t.Error("Feb 30 should be a parse failure")
	}
}

func TestRecurrencePhrases(t *testing.T) {
	rt := mustResolve(t, "every monday at 9am", "en")
	if rt.Recurrence == nil {
		t.Fatal("Expected a recurrence spec")
	}
	if rt.Recurrence.Frequency != models.FreqWeekday || rt.Recurrence.Weekday != int(time.Monday) {
		t.Errorf("Recurrence = %+v", rt.Recurrence)
	}
	if rt.Recurrence.Hour != 9 || rt.Recurrence.Minute != 0 {
		t.Errorf("Recurrence time = %d:%d, want 9:00", rt.Recurrence.Hour, rt.Recurrence.Minute)
	}
	// Reference is Monday 10:00, so 9am today has passed; first occurrence is
	// next Monday.
	want := time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC)
	if !rt.At.Equal(want) {
		t.Errorf("First occurrence = %v, want %v", rt.At, want)
	}

	rt = mustResolve(t, "daily at 17:30", "en")
	if rt.Recurrence == nil || rt.Recurrence.Frequency != models.FreqDay {
		t.Fatalf("Recurrence = %+v, want daily", rt.Recurrence)
	}
	if rt.Recurrence.Hour != 17 || rt.Recurrence.Minute != 30 {
		t.Errorf("Recurrence time = %d:%d, want 17:30", rt.Recurrence.Hour, rt.Recurrence.Minute)
	}

	// Defaults are 9:00 when no clock is given.
	rt = mustResolve(t, "weekly", "en")
	if rt.Recurrence == nil || rt.Recurrence.Frequency != models.FreqWeek || rt.Recurrence.Hour != 9 {
		t.Errorf("Recurrence = %+v, want weekly at 9:00", rt.Recurrence)
	}
	if rt.Method != models.MethodRecurring {
		t.Errorf("Method = %s, want recurring", rt.Method)
	}
}

func TestResolutionStrictlyAfterNow(t *testing.T) {
	phrases := []string{
		"now", "in a minute", "in 1 minute", "in 3 days", "at 8am", "at 10:00",
		"tomorrow", "tonight", "this morning", "this weekend", "next week",
		"on monday", "next friday", "on the 5th of may", "on the 1st of january",
	}
	r := NewResolver()
	for _, phrase := range phrases {
		rt, err := r.Resolve(phrase, ref, "en")
		if err != nil {
			t.Errorf("Resolve(%q) failed: %v", phrase, err)
			continue
		}
		if !rt.At.After(ref) {
			t.Errorf("Resolve(%q) = %v, not strictly after %v", phrase, rt.At, ref)
		}
	}
}

func TestResolutionDeterministic(t *testing.T) {
	r := NewResolver()
	for _, phrase := range []string{"on the 5th of may", "in 2 hours", "every monday at 9am"} {
		a, err := r.Resolve(phrase, ref, "en")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		b, err := r.Resolve(phrase, ref, "en")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !a.At.Equal(b.At) || a.Method != b.Method {
			t.Errorf("Resolve(%q) not deterministic: %+v vs %+v", phrase, a, b)
		}
	}
}

func TestNoMatch(t *testing.T) {
	r := NewResolver()
	for _, text := range []string{"", "whenever", "banana o'clock"} {
		if _, err := r.Resolve(text, ref, "en"); err == nil {
			t.Errorf("Resolve(%q) should fail", text)
		}
	}
}

func TestLocaleGrammars(t *testing.T) {
	cases := []struct {
		locale string
		text   string
		want   time.Time
	}{
		{"fr", "dans 5 minutes", ref.Add(5 * time.Minute)},
		{"fr", "demain", time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)},
		{"fr", "à 15h30", time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)},
		{"es", "en 10 minutos", ref.Add(10 * time.Minute)},
		{"es", "mañana", time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)},
		{"ja", "5分後", ref.Add(5 * time.Minute)},
		{"ja", "明日", time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)},
	}
	r := NewResolver()
	for _, tc := range cases {
		t.Run(tc.locale+"/"+tc.text, func(t *testing.T) {
			rt, err := r.Resolve(tc.text, ref, tc.locale)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if !rt.At.Equal(tc.want) {
				t.Errorf("At = %v, want %v", rt.At, tc.want)
			}
		})
	}
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	r := NewResolver()
	rt, err := r.Resolve("in 2 hours", ref, "de")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !rt.At.Equal(ref.Add(2 * time.Hour)) {
		t.Errorf("At = %v", rt.At)
	}
}

func TestFindPhrase(t *testing.T) {
	r := NewResolver()

	phrase, ok := r.FindPhrase("call mom in 2 hours", "en")
	if !ok || phrase != "in 2 hours" {
		t.Errorf("FindPhrase = %q, %v; want 'in 2 hours'", phrase, ok)
	}

	// "within 2 hours" must not surface a glued "in 2 hours".
	if phrase, ok := r.FindPhrase("finish the report within the deadline", "en"); ok {
		t.Errorf("FindPhrase found %q in text with no time phrase", phrase)
	}

	// The leftmost phrase wins.
	phrase, ok = r.FindPhrase("tomorrow, or maybe in 2 hours", "en")
	if !ok || phrase != "tomorrow" {
		t.Errorf("FindPhrase = %q, %v; want 'tomorrow'", phrase, ok)
	}
}

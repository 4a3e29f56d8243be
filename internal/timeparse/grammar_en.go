package timeparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

var enWeekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var enMonths = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

const enWeekdayAlt = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`
const enMonthAlt = `january|february|march|april|may|june|july|august|september|october|november|december`
const enClockOpt = `(?:\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?)?`

func enUnit(unit string, n int) time.Duration {
	switch {
	case strings.HasPrefix(unit, "min"):
		return time.Duration(n) * time.Minute
	case strings.HasPrefix(unit, "h"):
		return time.Duration(n) * time.Hour
	case strings.HasPrefix(unit, "day"):
		return time.Duration(n) * 24 * time.Hour
	case strings.HasPrefix(unit, "week"):
		return time.Duration(n) * 7 * 24 * time.Hour
	}
	return time.Duration(n) * time.Minute
}

func newEnglishGrammar() *Grammar {
	return NewGrammar("en", true, []RuleSpec{
		// Named idioms.
		{
			Pattern: `(?:right\s+now|now|right\s+away|asap)`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return offset(now, time.Minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `in\s+an?\s+(minute|hour|day|week)`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return offset(now, enUnit(m[1], 1), models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `tomorrow` + enClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[1], m[2], m[3], 9, 0)
				if err != nil {
					return nil, err
				}
				return onDay(now.AddDate(0, 0, 1), hour, minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `tonight`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return atClock(now, 20, 0, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `this\s+morning`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return atClock(now, 9, 0, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `this\s+afternoon`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return atClock(now, 15, 0, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `this\s+evening`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return atClock(now, 19, 0, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `this\s+weekend`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
				t := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location()).AddDate(0, 0, days)
				if !t.After(now) {
					t = t.AddDate(0, 0, 7)
				}
				return &models.ResolvedTime{At: t, Method: models.MethodNamedPhrase}, nil
			},
		},
		{
			Pattern: `next\s+week`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return &models.ResolvedTime{At: now.AddDate(0, 0, 7), Method: models.MethodNamedPhrase}, nil
			},
		},
		{
			Pattern: `next\s+month`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return &models.ResolvedTime{At: now.AddDate(0, 1, 0), Method: models.MethodNamedPhrase}, nil
			},
		},
		// Relative offsets, exact with no rounding.
		{
			Pattern: `in\s+(\d+)\s+(minutes?|mins?|hours?|hrs?|days?|weeks?)`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				n, err := strconv.Atoi(m[1])
				if err != nil || n <= 0 {
					return nil, ErrInvalidField
				}
				return offset(now, enUnit(m[2], n), models.MethodRelative), nil
			},
		},
		// Absolute clock time with day rollover.
		{
			Pattern: `at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockFields(m[1], m[2], m[3])
				if err != nil {
					return nil, err
				}
				return atClock(now, hour, minute, models.MethodAbsoluteClock), nil
			},
		},
		// Weekday references.
		{
			Pattern: `(?:on\s+)?(?:(next|this)\s+)?(` + enWeekdayAlt + `)` + enClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[3], m[4], m[5], 9, 0)
				if err != nil {
					return nil, err
				}
				day := nextWeekday(now, enWeekdays[strings.ToLower(m[2])], strings.EqualFold(m[1], "next"))
				return onDay(day, hour, minute, models.MethodWeekday), nil
			},
		},
		// Calendar dates with month names.
		{
			Pattern: `(?:on\s+)?(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+of\s+(` + enMonthAlt + `)` + enClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				day, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, ErrInvalidField
				}
				hour, minute, err := clockOrDefault(m[3], m[4], m[5], 9, 0)
				if err != nil {
					return nil, err
				}
				return calendarDate(now, enMonths[strings.ToLower(m[2])], day, hour, minute)
			},
		},
		{
			Pattern: `(?:on\s+)?(` + enMonthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?` + enClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				day, err := strconv.Atoi(m[2])
				if err != nil {
					return nil, ErrInvalidField
				}
				hour, minute, err := clockOrDefault(m[3], m[4], m[5], 9, 0)
				if err != nil {
					return nil, err
				}
				return calendarDate(now, enMonths[strings.ToLower(m[1])], day, hour, minute)
			},
		},
		// Recurrence phrases.
		{
			Pattern: `every\s+(` + enWeekdayAlt + `)` + enClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[2], m[3], m[4], 9, 0)
				if err != nil {
					return nil, err
				}
				spec := models.RecurrenceSpec{
					Frequency: models.FreqWeekday,
					Weekday:   int(enWeekdays[strings.ToLower(m[1])]),
					Hour:      hour,
					Minute:    minute,
				}
				return recurring(spec, now), nil
			},
		},
		{
			Pattern: `(?:every\s+(day|week|month)|(daily|weekly|monthly))` + enClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[3], m[4], m[5], 9, 0)
				if err != nil {
					return nil, err
				}
				period := m[1]
				switch m[2] {
				case "daily":
					period = "day"
				case "weekly":
					period = "week"
				case "monthly":
					period = "month"
				}
				spec := models.RecurrenceSpec{Frequency: models.Frequency(period), Hour: hour, Minute: minute}
				return recurring(spec, now), nil
			},
		},
	})
}

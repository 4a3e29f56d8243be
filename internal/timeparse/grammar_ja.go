package timeparse

import (
	"strconv"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

var jaWeekdays = map[string]time.Weekday{
	"日": time.Sunday,
	"月": time.Monday,
	"火": time.Tuesday,
	"水": time.Wednesday,
	"木": time.Thursday,
	"金": time.Friday,
	"土": time.Saturday,
}

const jaWeekdayAlt = `月|火|水|木|金|土|日`

// "9時", "9時30分"
const jaClockOpt = `(?:(\d{1,2})時(?:(\d{1,2})分)?)?`

func jaUnit(unit string, n int) time.Duration {
	switch unit {
	case "分":
		return time.Duration(n) * time.Minute
	case "時間":
		return time.Duration(n) * time.Hour
	case "日":
		return time.Duration(n) * 24 * time.Hour
	case "週間":
		return time.Duration(n) * 7 * 24 * time.Hour
	}
	return time.Duration(n) * time.Minute
}

func newJapaneseGrammar() *Grammar {
	return NewGrammar("ja", false, []RuleSpec{
		{
			Pattern: `今すぐ`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return offset(now, time.Minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `(\d+)(分|時間|日|週間)後`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				n, err := strconv.Atoi(m[1])
				if err != nil || n <= 0 {
					return nil, ErrInvalidField
				}
				return offset(now, jaUnit(m[2], n), models.MethodRelative), nil
			},
		},
		{
			Pattern: `明日` + jaClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[1], m[2], "", 9, 0)
				if err != nil {
					return nil, err
				}
				return onDay(now.AddDate(0, 0, 1), hour, minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `今日` + jaClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[1], m[2], "", 9, 0)
				if err != nil {
					return nil, err
				}
				return atClock(now, hour, minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `今晩|今夜`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return atClock(now, 20, 0, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `来週(?:(` + jaWeekdayAlt + `)曜日?)?` + jaClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[2], m[3], "", 9, 0)
				if err != nil {
					return nil, err
				}
				if m[1] == "" {
					t := now.AddDate(0, 0, 7)
					return &models.ResolvedTime{At: t, Method: models.MethodNamedPhrase}, nil
				}
				day := nextWeekday(now, jaWeekdays[m[1]], true)
				return onDay(day, hour, minute, models.MethodWeekday), nil
			},
		},
		{
			Pattern: `毎日` + jaClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[1], m[2], "", 9, 0)
				if err != nil {
					return nil, err
				}
				return recurring(models.RecurrenceSpec{Frequency: models.FreqDay, Hour: hour, Minute: minute}, now), nil
			},
		},
		{
			Pattern: `毎週(?:(` + jaWeekdayAlt + `)曜日?)?` + jaClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[2], m[3], "", 9, 0)
				if err != nil {
					return nil, err
				}
				if m[1] == "" {
					return recurring(models.RecurrenceSpec{Frequency: models.FreqWeek, Hour: hour, Minute: minute}, now), nil
				}
				spec := models.RecurrenceSpec{
					Frequency: models.FreqWeekday,
					Weekday:   int(jaWeekdays[m[1]]),
					Hour:      hour,
					Minute:    minute,
				}
				return recurring(spec, now), nil
			},
		},
		{
			Pattern: `毎月` + jaClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[1], m[2], "", 9, 0)
				if err != nil {
					return nil, err
				}
				return recurring(models.RecurrenceSpec{Frequency: models.FreqMonth, Hour: hour, Minute: minute}, now), nil
			},
		},
		{
			Pattern: `(\d{1,2})月(\d{1,2})日` + jaClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				month, err := strconv.Atoi(m[1])
				if err != nil || month < 1 || month > 12 {
					return nil, ErrInvalidField
				}
				day, err := strconv.Atoi(m[2])
				if err != nil {
					return nil, ErrInvalidField
				}
				hour, minute, err := clockOrDefault(m[3], m[4], "", 9, 0)
				if err != nil {
					return nil, err
				}
				return calendarDate(now, time.Month(month), day, hour, minute)
			},
		},
		{
			Pattern: `(` + jaWeekdayAlt + `)曜日?` + jaClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[2], m[3], "", 9, 0)
				if err != nil {
					return nil, err
				}
				day := nextWeekday(now, jaWeekdays[m[1]], false)
				return onDay(day, hour, minute, models.MethodWeekday), nil
			},
		},
		{
			Pattern: `(\d{1,2})時(?:(\d{1,2})分)?`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockFields(m[1], m[2], "")
				if err != nil {
					return nil, err
				}
				return atClock(now, hour, minute, models.MethodAbsoluteClock), nil
			},
		},
	})
}

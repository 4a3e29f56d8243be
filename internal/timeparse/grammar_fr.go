package timeparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

var frWeekdays = map[string]time.Weekday{
	"dimanche": time.Sunday,
	"lundi":    time.Monday,
	"mardi":    time.Tuesday,
	"mercredi": time.Wednesday,
	"jeudi":    time.Thursday,
	"vendredi": time.Friday,
	"samedi":   time.Saturday,
}

var frMonths = map[string]time.Month{
	"janvier": time.January, "février": time.February, "fevrier": time.February,
	"mars": time.March, "avril": time.April, "mai": time.May,
	"juin": time.June, "juillet": time.July, "août": time.August, "aout": time.August,
	"septembre": time.September, "octobre": time.October,
	"novembre": time.November, "décembre": time.December, "decembre": time.December,
}

const frWeekdayAlt = `lundi|mardi|mercredi|jeudi|vendredi|samedi|dimanche`
const frMonthAlt = `janvier|f[ée]vrier|mars|avril|mai|juin|juillet|ao[ûu]t|septembre|octobre|novembre|d[ée]cembre`

// "à 15h", "à 9h30"
const frClockOpt = `(?:\s+[àa]\s+(\d{1,2})\s*h\s*(\d{2})?)?`

func frUnit(unit string, n int) time.Duration {
	switch {
	case strings.HasPrefix(unit, "minute"):
		return time.Duration(n) * time.Minute
	case strings.HasPrefix(unit, "heure"):
		return time.Duration(n) * time.Hour
	case strings.HasPrefix(unit, "jour"):
		return time.Duration(n) * 24 * time.Hour
	case strings.HasPrefix(unit, "semaine"):
		return time.Duration(n) * 7 * 24 * time.Hour
	}
	return time.Duration(n) * time.Minute
}

func frMonth(name string) time.Month {
	return frMonths[strings.ToLower(name)]
}

func newFrenchGrammar() *Grammar {
	return NewGrammar("fr", true, []RuleSpec{
		{
			Pattern: `maintenant|tout de suite`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return offset(now, time.Minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `demain` + frClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[1], m[2], "", 9, 0)
				if err != nil {
					return nil, err
				}
				return onDay(now.AddDate(0, 0, 1), hour, minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `ce soir`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return atClock(now, 20, 0, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `la semaine prochaine`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return &models.ResolvedTime{At: now.AddDate(0, 0, 7), Method: models.MethodNamedPhrase}, nil
			},
		},
		{
			Pattern: `le mois prochain`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return &models.ResolvedTime{At: now.AddDate(0, 1, 0), Method: models.MethodNamedPhrase}, nil
			},
		},
		{
			Pattern: `dans\s+(\d+)\s+(minutes?|heures?|jours?|semaines?)`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				n, err := strconv.Atoi(m[1])
				if err != nil || n <= 0 {
					return nil, ErrInvalidField
				}
				return offset(now, frUnit(m[2], n), models.MethodRelative), nil
			},
		},
		{
			Pattern: `[àa]\s+(\d{1,2})\s*h\s*(\d{2})?`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockFields(m[1], m[2], "")
				if err != nil {
					return nil, err
				}
				return atClock(now, hour, minute, models.MethodAbsoluteClock), nil
			},
		},
		{
			Pattern: `(?:ce\s+)?(` + frWeekdayAlt + `)(\s+prochain)?` + frClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[3], m[4], "", 9, 0)
				if err != nil {
					return nil, err
				}
				day := nextWeekday(now, frWeekdays[strings.ToLower(m[1])], m[2] != "")
				return onDay(day, hour, minute, models.MethodWeekday), nil
			},
		},
		{
			Pattern: `le\s+(\d{1,2})(?:er)?\s+(` + frMonthAlt + `)` + frClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				day, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, ErrInvalidField
				}
				hour, minute, err := clockOrDefault(m[3], m[4], "", 9, 0)
				if err != nil {
					return nil, err
				}
				return calendarDate(now, frMonth(m[2]), day, hour, minute)
			},
		},
		{
			Pattern: `(?:chaque|tous les)\s+(` + frWeekdayAlt + `)s?` + frClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[2], m[3], "", 9, 0)
				if err != nil {
					return nil, err
				}
				spec := models.RecurrenceSpec{
					Frequency: models.FreqWeekday,
					Weekday:   int(frWeekdays[strings.ToLower(m[1])]),
					Hour:      hour,
					Minute:    minute,
				}
				return recurring(spec, now), nil
			},
		},
		{
			Pattern: `(?:chaque jour|tous les jours|chaque semaine|toutes les semaines|chaque mois|tous les mois)` + frClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := clockOrDefault(m[1], m[2], "", 9, 0)
				if err != nil {
					return nil, err
				}
				freq := models.FreqDay
				switch {
				case strings.Contains(m[0], "semaine"):
					freq = models.FreqWeek
				case strings.Contains(m[0], "mois"):
					freq = models.FreqMonth
				}
				spec := models.RecurrenceSpec{Frequency: freq, Hour: hour, Minute: minute}
				return recurring(spec, now), nil
			},
		},
	})
}

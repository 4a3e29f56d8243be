package timeparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

var esWeekdays = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
}

var esMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
}

const esWeekdayAlt = `lunes|martes|mi[ée]rcoles|jueves|viernes|s[áa]bado|domingo`
const esMonthAlt = `enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre`

// "a las 3", "a las 15:30", optionally followed by a day-part qualifier.
const esClockOpt = `(?:\s+a\s+las?\s+(\d{1,2})(?::(\d{2}))?(?:\s+de\s+la\s+(mañana|tarde|noche))?)?`

func esUnit(unit string, n int) time.Duration {
	switch {
	case strings.HasPrefix(unit, "minuto"):
		return time.Duration(n) * time.Minute
	case strings.HasPrefix(unit, "hora"):
		return time.Duration(n) * time.Hour
	case strings.HasPrefix(unit, "día"), strings.HasPrefix(unit, "dia"):
		return time.Duration(n) * 24 * time.Hour
	case strings.HasPrefix(unit, "semana"):
		return time.Duration(n) * 7 * 24 * time.Hour
	}
	return time.Duration(n) * time.Minute
}

// esClock converts hour/minute plus a Spanish day-part qualifier to 24-hour form.
func esClock(hStr, mStr, part string, defHour, defMinute int) (int, int, error) {
	if hStr == "" {
		return defHour, defMinute, nil
	}
	hour, minute, err := clockFields(hStr, mStr, "")
	if err != nil {
		return 0, 0, err
	}
	if (part == "tarde" || part == "noche") && hour >= 1 && hour < 12 {
		hour += 12
	}
	return hour, minute, nil
}

func newSpanishGrammar() *Grammar {
	return NewGrammar("es", true, []RuleSpec{
		{
			Pattern: `ahora(?:\s+mismo)?`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return offset(now, time.Minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `mañana` + esClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := esClock(m[1], m[2], m[3], 9, 0)
				if err != nil {
					return nil, err
				}
				return onDay(now.AddDate(0, 0, 1), hour, minute, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `esta noche`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return atClock(now, 20, 0, models.MethodNamedPhrase), nil
			},
		},
		{
			Pattern: `la (?:semana que viene|pr[óo]xima semana)`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return &models.ResolvedTime{At: now.AddDate(0, 0, 7), Method: models.MethodNamedPhrase}, nil
			},
		},
		{
			Pattern: `el (?:mes que viene|pr[óo]ximo mes)`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				return &models.ResolvedTime{At: now.AddDate(0, 1, 0), Method: models.MethodNamedPhrase}, nil
			},
		},
		{
			Pattern: `en\s+(\d+)\s+(minutos?|horas?|d[íi]as?|semanas?)`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				n, err := strconv.Atoi(m[1])
				if err != nil || n <= 0 {
					return nil, ErrInvalidField
				}
				return offset(now, esUnit(m[2], n), models.MethodRelative), nil
			},
		},
		{
			Pattern: `a\s+las?\s+(\d{1,2})(?::(\d{2}))?(?:\s+de\s+la\s+(mañana|tarde|noche))?`,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := esClock(m[1], m[2], m[3], 0, 0)
				if err != nil {
					return nil, err
				}
				return atClock(now, hour, minute, models.MethodAbsoluteClock), nil
			},
		},
		{
			Pattern: `(?:el\s+)?(` + esWeekdayAlt + `)(\s+que\s+viene|\s+pr[óo]ximo)?` + esClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := esClock(m[3], m[4], m[5], 9, 0)
				if err != nil {
					return nil, err
				}
				day := nextWeekday(now, esWeekdays[strings.ToLower(m[1])], m[2] != "")
				return onDay(day, hour, minute, models.MethodWeekday), nil
			},
		},
		{
			Pattern: `el\s+(\d{1,2})\s+de\s+(` + esMonthAlt + `)` + esClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				day, err := strconv.Atoi(m[1])
				if err != nil {
					return nil, ErrInvalidField
				}
				hour, minute, err := esClock(m[3], m[4], m[5], 9, 0)
				if err != nil {
					return nil, err
				}
				return calendarDate(now, esMonths[strings.ToLower(m[2])], day, hour, minute)
			},
		},
		{
			Pattern: `(?:cada|todos\s+los)\s+(` + esWeekdayAlt + `)` + esClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := esClock(m[2], m[3], m[4], 9, 0)
				if err != nil {
					return nil, err
				}
				spec := models.RecurrenceSpec{
					Frequency: models.FreqWeekday,
					Weekday:   int(esWeekdays[strings.ToLower(m[1])]),
					Hour:      hour,
					Minute:    minute,
				}
				return recurring(spec, now), nil
			},
		},
		{
			Pattern: `(?:cada\s+(d[íi]a|semana|mes)|todos\s+los\s+d[íi]as|todas\s+las\s+semanas|todos\s+los\s+meses)` + esClockOpt,
			Resolve: func(m []string, now time.Time) (*models.ResolvedTime, error) {
				hour, minute, err := esClock(m[2], m[3], m[4], 9, 0)
				if err != nil {
					return nil, err
				}
				freq := models.FreqDay
				whole := strings.ToLower(m[0])
				switch {
				case strings.Contains(whole, "semana"):
					freq = models.FreqWeek
				case strings.Contains(whole, "mes"):
					freq = models.FreqMonth
				}
				spec := models.RecurrenceSpec{Frequency: freq, Hour: hour, Minute: minute}
				return recurring(spec, now), nil
			},
		},
	})
}

// Package timeparse resolves natural-language time phrases to absolute
// timestamps or recurrence specs. Each locale contributes an ordered table of
// pattern/handler rules; the rollover and validation logic is shared and
// language-independent.
package timeparse

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fentz26/nudge/internal/models"
)

// Sentinel errors. Both are normal control-flow outcomes for the caller: an
// out-of-range field is reported separately but handled like a failed parse.
var (
	ErrNoMatch      = errors.New("no matching time pattern")
	ErrInvalidField = errors.New("time field out of range")
)

// Handler resolves the submatches of a rule's pattern against a reference time.
type Handler func(m []string, now time.Time) (*models.ResolvedTime, error)

// Rule pairs a regular expression with its resolution handler. The pattern is
// compiled twice: anchored for full-phrase resolution, unanchored for locating
// a time phrase inside a longer message.
type Rule struct {
	pattern string
	resolve Handler
	exact   *regexp.Regexp
	search  *regexp.Regexp
}

// Grammar is the ordered rule table for one locale. Earlier rules win ties.
type Grammar struct {
	Locale    string
	wordBound bool
	rules     []Rule
}

// NewGrammar builds a grammar from an ordered rule list. wordBound controls
// whether phrase search requires non-letter boundaries around a match; scripts
// written without spaces (e.g. Japanese) must pass false.
func NewGrammar(locale string, wordBound bool, rules []RuleSpec) *Grammar {
	g := &Grammar{Locale: locale, wordBound: wordBound}
	for _, rs := range rules {
		r := Rule{pattern: rs.Pattern, resolve: rs.Resolve}
		r.exact = regexp.MustCompile(`(?i)^(?:` + rs.Pattern + `)$`)
		r.search = regexp.MustCompile(`(?i)(?:` + rs.Pattern + `)`)
		g.rules = append(g.rules, r)
	}
	return g
}

// RuleSpec is the declarative form of a rule used by grammar constructors.
type RuleSpec struct {
	Pattern string
	Resolve Handler
}

// Resolver dispatches time phrases to locale grammars.
type Resolver struct {
	grammars map[string]*Grammar
	fallback string
}

// NewResolver returns a resolver with the built-in locale grammars registered.
func NewResolver() *Resolver {
	r := &Resolver{
		grammars: make(map[string]*Grammar),
		fallback: "en",
	}
	r.Register(newEnglishGrammar())
	r.Register(newFrenchGrammar())
	r.Register(newSpanishGrammar())
	r.Register(newJapaneseGrammar())
	return r
}

// Register adds or replaces the grammar for a locale.
func (r *Resolver) Register(g *Grammar) {
	r.grammars[g.Locale] = g
}

func (r *Resolver) grammar(locale string) *Grammar {
	if g, ok := r.grammars[locale]; ok {
		return g
	}
	return r.grammars[r.fallback]
}

// Resolve parses timeText against the locale's rule table and the supplied
// reference time. The reference time is the only clock consulted; resolution
// is deterministic for a given (timeText, now, locale) triple.
func (r *Resolver) Resolve(timeText string, now time.Time, locale string) (*models.ResolvedTime, error) {
	text := strings.ToLower(strings.TrimSpace(timeText))
	if text == "" {
		return nil, ErrNoMatch
	}
	g := r.grammar(locale)
	for _, rule := range g.rules {
		m := rule.exact.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return rule.resolve(m, now)
	}
	return nil, ErrNoMatch
}

// FindPhrase locates the leftmost resolvable time phrase inside text and
// returns it verbatim. Earlier rules break ties at the same offset. Matches
// are required to sit on word boundaries for space-separated scripts so that
// "in 2 hours" is never found inside "within 2 hours".
func (r *Resolver) FindPhrase(text, locale string) (string, bool) {
	g := r.grammar(locale)
	best := -1
	bestLen := 0
	found := ""
	for _, rule := range g.rules {
		for _, loc := range rule.search.FindAllStringIndex(text, -1) {
			if g.wordBound && !onWordBoundary(text, loc[0], loc[1]) {
				continue
			}
			length := loc[1] - loc[0]
			if best == -1 || loc[0] < best || (loc[0] == best && length > bestLen) {
				best = loc[0]
				bestLen = length
				found = text[loc[0]:loc[1]]
			}
			break
		}
	}
	return found, best >= 0
}

// onWordBoundary reports whether text[start:end] is not glued to surrounding
// letters or digits.
func onWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// --- shared resolution helpers ---

// clockFields converts parsed hour/minute/meridiem strings to 24-hour values.
// Out-of-range values after AM/PM conversion are an error, never clamped.
func clockFields(hStr, mStr, meridiem string) (int, int, error) {
	hour, err := strconv.Atoi(hStr)
	if err != nil {
		return 0, 0, ErrInvalidField
	}
	minute := 0
	if mStr != "" {
		minute, err = strconv.Atoi(mStr)
		if err != nil {
			return 0, 0, ErrInvalidField
		}
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, 0, ErrInvalidField
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return 0, 0, ErrInvalidField
		}
		if hour == 12 {
			hour = 0
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidField
	}
	return hour, minute, nil
}

// atClock places a clock time on the same day as now, advancing exactly one
// day when the result would not be strictly in the future.
func atClock(now time.Time, hour, minute int, method models.ResolveMethod) *models.ResolvedTime {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return &models.ResolvedTime{At: t, Method: method}
}

// onDay places a clock time on a specific day with no rollover.
func onDay(day time.Time, hour, minute int, method models.ResolveMethod) *models.ResolvedTime {
	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	return &models.ResolvedTime{At: t, Method: method}
}

// nextWeekday returns the next occurrence of the target weekday after now.
// Today counts as already passed; forceNext adds a further seven days.
func nextWeekday(now time.Time, target time.Weekday, forceNext bool) time.Time {
	days := (int(target) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	if forceNext {
		days += 7
	}
	return now.AddDate(0, 0, days)
}

// calendarDate builds a month/day date in the current year, rolling to the
// next year when it would not be in the future. Impossible dates (Feb 30)
// fail rather than normalize.
func calendarDate(now time.Time, month time.Month, day, hour, minute int) (*models.ResolvedTime, error) {
	if day < 1 || day > 31 {
		return nil, ErrInvalidField
	}
	t := time.Date(now.Year(), month, day, hour, minute, 0, 0, now.Location())
	if t.Month() != month || t.Day() != day {
		return nil, ErrInvalidField
	}
	if !t.After(now) {
		t = time.Date(now.Year()+1, month, day, hour, minute, 0, 0, now.Location())
	}
	return &models.ResolvedTime{At: t, Method: models.MethodCalendarDate}, nil
}

// recurring wraps a recurrence spec with its first occurrence.
func recurring(spec models.RecurrenceSpec, now time.Time) *models.ResolvedTime {
	s := spec
	return &models.ResolvedTime{At: s.Next(now), Method: models.MethodRecurring, Recurrence: &s}
}

// clockOrDefault parses an optional clock suffix, falling back to a default
// time-of-day when the phrase carried none.
func clockOrDefault(hStr, mStr, meridiem string, defHour, defMinute int) (int, int, error) {
	if hStr == "" {
		return defHour, defMinute, nil
	}
	return clockFields(hStr, mStr, meridiem)
}

// offset applies an exact duration to now.
func offset(now time.Time, d time.Duration, method models.ResolveMethod) *models.ResolvedTime {
	return &models.ResolvedTime{At: now.Add(d), Method: method}
}

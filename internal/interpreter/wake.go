// Package interpreter turns unstructured chat text into structured reminder
// commands: wake detection, intent classification, entity extraction, and a
// per-user slot-filling conversation state machine.
package interpreter

import (
	"strings"
	"unicode"

	"github.com/fentz26/nudge/internal/models"
)

// Address is the outcome of the wake gate for one message.
type Address struct {
	// Addressed reports whether the message is directed at the agent.
	Addressed bool
	// Text is the message with any mention or wake prefix stripped.
	Text string
	// ViaWake is true when the match came from an explicit mention, wake
	// phrase, or agent name rather than an already-open attentive session.
	ViaWake bool
}

// Detector decides whether a message is addressed to the agent.
type Detector struct {
	name    string
	phrases []string
}

// NewDetector creates a wake detector for the given agent name and wake
// phrases. Phrases are matched case-insensitively at the start of the text.
func NewDetector(name string, phrases []string) *Detector {
	d := &Detector{name: strings.ToLower(strings.TrimSpace(name))}
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			d.phrases = append(d.phrases, p)
		}
	}
	return d
}

// Check gates a message. A message is addressed when it explicitly mentions
// the agent, starts with a registered wake phrase (exact, or followed by
// whitespace/punctuation), starts with the agent's name, or arrives inside an
// open attentive session. Session-only matches do not count as a fresh wake.
func (d *Detector) Check(msg models.Message, state State) Address {
	text := strings.TrimSpace(msg.Text)

	if msg.MentionsAgent {
		return Address{Addressed: true, Text: d.stripMention(text), ViaWake: true}
	}

	for _, p := range d.phrases {
		if rest, ok := prefixMatch(text, p); ok {
			return Address{Addressed: true, Text: strings.TrimSpace(rest), ViaWake: true}
		}
	}

	// Bare agent name works as a plain prefix, so "bot" and "botbot" both
	// wake the agent while "hello bot" does not.
	if d.name != "" {
		if rest, ok := foldPrefix(text, d.name); ok {
			return Address{Addressed: true, Text: strings.TrimSpace(trimLeadingNonAlnum(rest)), ViaWake: true}
		}
	}

	if state.Live(msg.Now) {
		return Address{Addressed: true, Text: text}
	}

	return Address{}
}

// stripMention removes a leading mention token ("@name" or the bare name)
// from the text.
func (d *Detector) stripMention(text string) string {
	for _, tok := range []string{"@" + d.name, d.name} {
		if tok == "" || tok == "@" {
			continue
		}
		if rest, ok := prefixMatch(text, tok); ok {
			return strings.TrimSpace(rest)
		}
	}
	return text
}

// prefixMatch reports whether text starts with the phrase either exactly or
// followed by whitespace/punctuation, returning the remainder with leading
// non-alphanumeric characters trimmed.
func prefixMatch(text, phrase string) (string, bool) {
	rest, ok := foldPrefix(text, phrase)
	if !ok {
		return "", false
	}
	if rest == "" {
		return "", true
	}
	r := []rune(rest)[0]
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return "", false
	}
	return trimLeadingNonAlnum(rest), true
}

// foldPrefix reports whether text starts with phrase, comparing rune by rune
// under unicode.ToLower, and returns the remainder of the original text.
// phrase must already be lower case. Matching against the original keeps the
// remainder intact when lowering changes rune widths (e.g. U+0130).
func foldPrefix(text, phrase string) (string, bool) {
	pr := []rune(phrase)
	i := 0
	for idx, r := range text {
		if i == len(pr) {
			return text[idx:], true
		}
		if unicode.ToLower(r) != pr[i] {
			return "", false
		}
		i++
	}
	if i == len(pr) {
		return "", true
	}
	return "", false
}

func trimLeadingNonAlnum(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

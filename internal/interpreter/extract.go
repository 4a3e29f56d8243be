package interpreter

import (
	"regexp"
	"strings"

	"github.com/fentz26/nudge/internal/models"
	"github.com/fentz26/nudge/internal/timeparse"
)

var (
	bangPriority  = regexp.MustCompile(`\s*(!{1,3})\s*$`)
	wordPriority  = regexp.MustCompile(`(?i)\b(high|medium|low)\s+priority:?\s*`)
	userTarget    = regexp.MustCompile(`@([A-Za-z0-9_.-]+)`)
	chanTarget    = regexp.MustCompile(`#([A-Za-z0-9_-]+)`)
	everyoneWords = regexp.MustCompile(`(?i)\b(everyone|the (whole )?team|all of us|us all)\b`)
	channelWords  = regexp.MustCompile(`(?i)\bthe channel\b`)
	recurMarker   = regexp.MustCompile(`(?i)\b(every|daily|weekly|monthly|cada|todos|todas|chaque|tous|toutes)\b|毎日|毎週|毎月`)

	// Trigger phrases carry no task content. Longer variants are listed
	// first so the greedy strip takes the whole phrase.
	triggerPhrases = []string{
		"i need a reminder to", "i need a reminder",
		"set a reminder to", "set a reminder for", "set a reminder",
		"remind me about", "remind me to", "remind us to", "remind me", "remind us",
		"don't forget to", "dont forget to", "don't forget", "dont forget",
		"remember to", "make sure i", "i have to", "i need to", "need to", "have to",
		"todo:", "todo",
		"rappelle-moi de", "rappelle moi de", "rappelle-moi", "rappelle moi",
		"fais-moi penser à", "fais moi penser a", "n'oublie pas de", "je dois",
		"recuérdame que", "recuerdame que", "recuérdame", "recuerdame",
		"no olvides", "no te olvides de", "tengo que",
		"をリマインドして", "リマインドして", "思い出させて", "忘れないで",
	}
)

// Extraction holds the raw entities pulled out of a set-reminder utterance
// before time resolution.
type Extraction struct {
	Task      string
	TimeText  string
	Target    models.Target
	Priority  int
	Recurring bool
}

// Extractor splits a reminder utterance into task, time phrase, target and
// priority. It never resolves the time phrase itself; that stays with the
// timeparse resolver so extraction is cheap and side-effect free.
type Extractor struct {
	resolver *timeparse.Resolver
}

func NewExtractor(resolver *timeparse.Resolver) *Extractor {
	return &Extractor{resolver: resolver}
}

// Extract pulls entities out of text. The time phrase, target marker and
// priority marker are removed from the remaining task text, trigger phrases
// are stripped, and the task is whitespace-normalized. An empty task after
// stripping is a valid outcome the caller must handle.
func (e *Extractor) Extract(text, locale string) Extraction {
	var ex Extraction
	ex.Target = models.Target{Kind: models.TargetSelf}

	rest := text

	// Priority: trailing bangs win over the spelled-out form.
	if m := bangPriority.FindStringSubmatch(rest); m != nil {
		ex.Priority = len(m[1])
		rest = bangPriority.ReplaceAllString(rest, "")
	} else if m := wordPriority.FindStringSubmatch(rest); m != nil {
		switch strings.ToLower(m[1]) {
		case "high":
			ex.Priority = 3
		case "medium":
			ex.Priority = 2
		case "low":
			ex.Priority = 1
		}
		rest = wordPriority.ReplaceAllString(rest, "")
	}

	// Target: explicit @user or #channel markers beat the phrase forms.
	if m := userTarget.FindStringSubmatch(rest); m != nil {
		ex.Target = models.Target{Kind: models.TargetUser, ID: m[1]}
		rest = userTarget.ReplaceAllString(rest, "")
	} else if m := chanTarget.FindStringSubmatch(rest); m != nil {
		ex.Target = models.Target{Kind: models.TargetChannel, ID: m[1]}
		rest = chanTarget.ReplaceAllString(rest, "")
	} else if everyoneWords.MatchString(rest) {
		ex.Target = models.Target{Kind: models.TargetEveryone}
		rest = everyoneWords.ReplaceAllString(rest, "")
	} else if channelWords.MatchString(rest) {
		ex.Target = models.Target{Kind: models.TargetChannel}
		rest = channelWords.ReplaceAllString(rest, "")
	}

	// Time phrase: leftmost-longest known phrase for the locale.
	if phrase, ok := e.resolver.FindPhrase(rest, locale); ok {
		ex.TimeText = phrase
		ex.Recurring = recurMarker.MatchString(phrase)
		if i := strings.Index(rest, phrase); i >= 0 {
			rest = rest[:i] + " " + rest[i+len(phrase):]
		}
	}

	ex.Task = cleanTask(stripTriggers(rest))
	return ex
}

func stripTriggers(text string) string {
	lowered := strings.ToLower(text)
	for _, phrase := range triggerPhrases {
		if i := strings.Index(lowered, phrase); i >= 0 {
			text = text[:i] + text[i+len(phrase):]
			lowered = lowered[:i] + lowered[i+len(phrase):]
		}
	}
	return text
}

func cleanTask(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.Trim(text, " ,.;:!?、。")
	// A leading connective left behind by phrase removal is noise.
	for _, lead := range []string{"to ", "about ", "that ", "de ", "que ", "を", "に"} {
		if strings.HasPrefix(strings.ToLower(text), lead) {
			text = text[len(lead):]
			break
		}
	}
	return strings.TrimSpace(text)
}

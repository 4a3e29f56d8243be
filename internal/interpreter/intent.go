package interpreter

import (
	"regexp"

	"github.com/fentz26/nudge/internal/models"
)

// Classification is the classifier's verdict for one message.
type Classification struct {
	Intent     models.Intent
	Confidence float64
}

// intentRule pairs a pattern with an intent tag and its fixed confidence.
// Rules are evaluated in order, first match wins; more specific rules are
// listed before generic catch-alls as a deliberate tie-break.
type intentRule struct {
	re         *regexp.Regexp
	intent     models.Intent
	confidence float64
}

func rule(pattern string, intent models.Intent, confidence float64) intentRule {
	return intentRule{re: regexp.MustCompile(pattern), intent: intent, confidence: confidence}
}

// Classifier scores messages against per-locale ordered rule tables. Locale
// selection swaps the rule table only; everything downstream of the verdict
// is locale-agnostic.
type Classifier struct {
	tables   map[string][]intentRule
	fallback string
}

// NewClassifier builds a classifier with the built-in locale tables.
func NewClassifier() *Classifier {
	c := &Classifier{tables: make(map[string][]intentRule), fallback: "en"}

	c.tables["en"] = []intentRule{
		rule(`(?i)\b(help|what can you do|how does this work|how do i use)\b`, models.IntentHelp, 0.95),
		rule(`(?i)\b(remind (me|us)|set a reminder|i need a reminder|don'?t forget|remember to|todo\b|need to|have to)`, models.IntentSetReminder, 0.9),
		rule(`(?i)\b(list (my )?reminders|show (me )?(my )?reminders|what (are|do) (my|i)|what'?s (on|coming up)|upcoming reminders)\b`, models.IntentRecall, 0.85),
		rule(`(?i)\b(i'?m stuck|stuck on|blocked|can'?t (figure|get past)|going in circles)\b`, models.IntentBlocked, 0.85),
		rule(`(?i)\b(set (your )?mood|be more \w+|act (formal|casual|serious|cheerful|friendly)|talk like)\b`, models.IntentSetMood, 0.8),
		rule(`(?i)^(hi|hiya|hello|hey|yo|howdy|sup|good (morning|afternoon|evening))\b`, models.IntentGreet, 0.9),
		rule(`(?i)^(thanks|thank you|cheers)\b`, models.IntentGreet, 0.9),
	}

	c.tables["fr"] = []intentRule{
		rule(`(?i)\b(aide|aidez-moi|que sais-tu faire|comment [çc]a marche)\b`, models.IntentHelp, 0.95),
		rule(`(?i)\b(rappelle[- ]moi|fais[- ]moi penser|n'?oublie pas|je dois|il faut que)\b`, models.IntentSetReminder, 0.9),
		rule(`(?i)\b(liste (de )?mes rappels|mes rappels|qu'?est-ce que j'?ai)\b`, models.IntentRecall, 0.85),
		rule(`(?i)\b(je suis bloqu[ée]|je n'?y arrive pas|coinc[ée])`, models.IntentBlocked, 0.85),
		rule(`(?i)^(salut|bonjour|bonsoir|coucou|merci)\b`, models.IntentGreet, 0.9),
	}

	c.tables["es"] = []intentRule{
		rule(`(?i)\b(ayuda|ay[úu]dame|qu[ée] puedes hacer|c[óo]mo funciona)\b`, models.IntentHelp, 0.95),
		rule(`(?i)\b(recu[ée]rdame|no olvides|no te olvides|tengo que|necesito un recordatorio)\b`, models.IntentSetReminder, 0.9),
		rule(`(?i)\b(lista (de )?(mis )?recordatorios|mis recordatorios|qu[ée] tengo)\b`, models.IntentRecall, 0.85),
		rule(`(?i)\b(estoy atascad[oa]|estoy bloquead[oa]|no puedo (con|avanzar))\b`, models.IntentBlocked, 0.85),
		rule(`(?i)^(hola|buenos d[íi]as|buenas tardes|buenas noches|gracias)\b`, models.IntentGreet, 0.9),
	}

	c.tables["ja"] = []intentRule{
		rule(`ヘルプ|使い方|何ができる`, models.IntentHelp, 0.95),
		rule(`リマインド|思い出させて|忘れないで|やること`, models.IntentSetReminder, 0.9),
		rule(`リマインダー一覧|予定は|何がある`, models.IntentRecall, 0.85),
		rule(`詰まって|行き詰ま|困って`, models.IntentBlocked, 0.85),
		rule(`^(こんにちは|おはよう|こんばんは|ありがとう|やあ)`, models.IntentGreet, 0.9),
	}

	return c
}

// Classify scores text against the locale's table. Unknown always carries
// confidence zero.
func (c *Classifier) Classify(text, locale string) Classification {
	table, ok := c.tables[locale]
	if !ok {
		table = c.tables[c.fallback]
	}
	for _, r := range table {
		if r.re.MatchString(text) {
			return Classification{Intent: r.intent, Confidence: r.confidence}
		}
	}
	return Classification{Intent: models.IntentUnknown, Confidence: 0.0}
}

package interpreter

import (
	"fmt"
	"math/rand"

	"github.com/fentz26/nudge/internal/models"
)

// ClarificationKind labels why the interpreter is asking instead of acting.
type ClarificationKind string

const (
	ClarifyNone          ClarificationKind = ""
	ClarifyLowConfidence ClarificationKind = "low_confidence"
	ClarifyEmptyTask     ClarificationKind = "empty_task"
	ClarifyTime          ClarificationKind = "time"
)

// Picker selects an index in [0,n). Injectable so tests get stable output.
type Picker func(n int) int

// Responder phrases the interpreter's outward replies. Prompt variety comes
// from the picker; the default picker is process-global math/rand.
type Responder struct {
	pick Picker

	greetings     []string
	lowConfidence []string
	emptyTask     []string
	timePrompts   []string
	blocked       []string
	help          string
}

func NewResponder(pick Picker) *Responder {
	if pick == nil {
		pick = rand.Intn
	}
	return &Responder{
		pick: pick,
		greetings: []string{
			"Hey! What can I do for you?",
			"Hi there. Need a reminder set?",
			"Hello! I'm listening.",
		},
		lowConfidence: []string{
			"I didn't quite catch that. Could you rephrase?",
			"Not sure what you're asking for. Try \"remind me to ...\"?",
			"Hmm, I lost you there. What would you like me to do?",
		},
		emptyTask: []string{
			"Sure, but remind you about what?",
			"What should the reminder say?",
			"Got the when, missing the what. What's the task?",
		},
		timePrompts: []string{
			"When should I remind you?",
			"Okay. For when?",
			"Got it. What time works?",
		},
		blocked: []string{
			"Sounds rough. Want to step away for a bit? I can ping you later.",
			"Stuck happens. Try explaining it out loud, or I can set a break reminder.",
		},
		help: "I set reminders from plain language. Try \"remind me to call mom in 2 hours\" " +
			"or \"every monday at 9am: standup notes\". Say \"list my reminders\" to see what's pending.",
	}
}

func (r *Responder) one(set []string) string {
	return set[r.pick(len(set))]
}

func (r *Responder) Greeting() string { return r.one(r.greetings) }

// Clarify returns the prompt for a clarification kind.
func (r *Responder) Clarify(kind ClarificationKind) string {
	switch kind {
	case ClarifyLowConfidence:
		return r.one(r.lowConfidence)
	case ClarifyEmptyTask:
		return r.one(r.emptyTask)
	case ClarifyTime:
		return r.one(r.timePrompts)
	default:
		return r.one(r.lowConfidence)
	}
}

// Ack phrases the confirmation for a completed command.
func (r *Responder) Ack(cmd *models.Command) string {
	switch cmd.Intent {
	case models.IntentSetReminder:
		if cmd.Resolved == nil {
			return fmt.Sprintf("Noted: %q. No due time set, it'll sit in your list.", cmd.Entities.Task)
		}
		if cmd.Resolved.Recurrence != nil {
			return fmt.Sprintf("Recurring reminder set: %q, next at %s.",
				cmd.Entities.Task, cmd.Resolved.At.Format("Mon Jan 2 15:04"))
		}
		return fmt.Sprintf("Reminder set: %q at %s.",
			cmd.Entities.Task, cmd.Resolved.At.Format("Mon Jan 2 15:04"))
	case models.IntentRecall:
		return "Here's what you have coming up."
	case models.IntentSetMood:
		return "Mood noted."
	case models.IntentBlocked:
		return r.one(r.blocked)
	case models.IntentHelp:
		return r.help
	default:
		return "Done."
	}
}

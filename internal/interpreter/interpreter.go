package interpreter

import (
	"regexp"
	"strings"
	"time"

	"github.com/fentz26/nudge/internal/models"
	"github.com/fentz26/nudge/internal/timeparse"
)

// Outcome labels the interpreter's verdict for one processed message.
type Outcome string

const (
	OutcomeIgnored       Outcome = "ignored"
	OutcomeGreeting      Outcome = "greeting"
	OutcomeCommand       Outcome = "command"
	OutcomeClarification Outcome = "clarification"
)

// Result is what Process returns for one message. Command is non-nil only
// for OutcomeCommand; Reply is set for everything except OutcomeIgnored.
type Result struct {
	Outcome    Outcome
	Command    *models.Command
	Reply      string
	Clarify    ClarificationKind
	Intent     models.Intent
	Confidence float64
}

// declineWords end a slot-fill turn without supplying the missing slot.
var declineWords = regexp.MustCompile(`(?i)^\s*(no|nope|nah|never mind|nevermind|forget it|skip( it)?|cancel|non|laisse tomber|d[ée]jalo|olv[íi]dalo|いいえ|やめて|いらない)\s*[.!]?\s*$`)

// Interpreter wires the wake detector, classifier, extractor and resolver
// into the full message pipeline. It is safe for concurrent use: all mutable
// state lives in the session context, and Process holds a per-author turn
// lock so one user's conversation never interleaves with itself.
type Interpreter struct {
	wake      *Detector
	classify  *Classifier
	extract   *Extractor
	resolver  *timeparse.Resolver
	responder *Responder
	sessions  *Context

	minConfidence float64
}

// Options tune interpreter construction. Zero values fall back to defaults.
type Options struct {
	AgentName     string
	WakePhrases   []string
	Window        Window
	MinConfidence float64
	Picker        Picker
}

// Window configures the attentive window. Zero Duration means the default.
type Window struct {
	Duration time.Duration
	Sliding  bool
}

// New builds an interpreter with the given options.
func New(opts Options) *Interpreter {
	if opts.AgentName == "" {
		opts.AgentName = "bot"
	}
	if len(opts.WakePhrases) == 0 {
		opts.WakePhrases = []string{"hey " + opts.AgentName}
	}
	if opts.Window.Duration == 0 {
		opts.Window.Duration = DefaultAttentiveWindow
	}
	if opts.MinConfidence == 0 {
		opts.MinConfidence = models.MinConfidence
	}
	resolver := timeparse.NewResolver()
	return &Interpreter{
		wake:          NewDetector(opts.AgentName, opts.WakePhrases),
		classify:      NewClassifier(),
		extract:       NewExtractor(resolver),
		resolver:      resolver,
		responder:     NewResponder(opts.Picker),
		sessions:      NewContext(opts.Window.Duration, opts.Window.Sliding),
		minConfidence: opts.MinConfidence,
	}
}

// Sessions exposes the session context for sweeping and inspection.
func (it *Interpreter) Sessions() *Context { return it.sessions }

// Process runs one message through the pipeline. It reads only msg.Now for
// time; two calls with identical messages and session state produce
// identical results up to response phrasing. Concurrent calls for the same
// author are serialized for the whole turn; different authors never block
// each other.
func (it *Interpreter) Process(msg models.Message) Result {
	turn := it.sessions.Acquire(msg.AuthorID)
	defer turn.Unlock()

	state, _ := it.sessions.Get(msg.AuthorID, msg.Now)

	addr := it.wake.Check(msg, state)
	if !addr.Addressed {
		return Result{Outcome: OutcomeIgnored}
	}
	if addr.ViaWake {
		it.sessions.Wake(msg.AuthorID, msg.Now)
	} else {
		it.sessions.Touch(msg.AuthorID, msg.Now)
	}

	if state.Pending != nil && state.Pending.Kind == PendingTime {
		return it.fillSlot(msg, addr.Text, state.Pending)
	}

	text := strings.TrimSpace(addr.Text)
	if text == "" {
		return Result{Outcome: OutcomeGreeting, Reply: it.responder.Greeting(), Intent: models.IntentGreet}
	}

	verdict := it.classify.Classify(text, msg.Locale)
	if verdict.Intent == models.IntentUnknown || verdict.Confidence < it.minConfidence {
		return Result{
			Outcome:    OutcomeClarification,
			Reply:      it.responder.Clarify(ClarifyLowConfidence),
			Clarify:    ClarifyLowConfidence,
			Intent:     models.IntentUnknown,
			Confidence: verdict.Confidence,
		}
	}

	if verdict.Intent == models.IntentSetReminder {
		return it.setReminder(msg, text, verdict)
	}
	if verdict.Intent == models.IntentGreet {
		return Result{
			Outcome:    OutcomeGreeting,
			Reply:      it.responder.Greeting(),
			Intent:     verdict.Intent,
			Confidence: verdict.Confidence,
		}
	}

	cmd := &models.Command{Intent: verdict.Intent, Confidence: verdict.Confidence, Complete: true}
	return Result{
		Outcome:    OutcomeCommand,
		Command:    cmd,
		Reply:      it.responder.Ack(cmd),
		Intent:     verdict.Intent,
		Confidence: verdict.Confidence,
	}
}

func (it *Interpreter) setReminder(msg models.Message, text string, verdict Classification) Result {
	ex := it.extract.Extract(text, msg.Locale)
	asm := assemble(ex, verdict, it.resolver, msg)

	switch {
	case asm.Clarify == ClarifyEmptyTask:
		return Result{
			Outcome:    OutcomeClarification,
			Reply:      it.responder.Clarify(ClarifyEmptyTask),
			Clarify:    ClarifyEmptyTask,
			Intent:     verdict.Intent,
			Confidence: verdict.Confidence,
		}
	case asm.Clarify == ClarifyTime:
		it.sessions.ArmSlot(msg.AuthorID, PendingSlot{
			Kind:       PendingTime,
			Entities:   asm.Command.Entities,
			Confidence: verdict.Confidence,
		}, msg.Now)
		return Result{
			Outcome:    OutcomeClarification,
			Command:    asm.Command,
			Reply:      it.responder.Clarify(ClarifyTime),
			Clarify:    ClarifyTime,
			Intent:     verdict.Intent,
			Confidence: verdict.Confidence,
		}
	default:
		return Result{
			Outcome:    OutcomeCommand,
			Command:    asm.Command,
			Reply:      it.responder.Ack(asm.Command),
			Intent:     verdict.Intent,
			Confidence: verdict.Confidence,
		}
	}
}

// fillSlot handles the turn after a time clarification. A decline stores the
// reminder without a due time; an unparseable answer keeps the slot armed
// and re-prompts.
func (it *Interpreter) fillSlot(msg models.Message, text string, pending *PendingSlot) Result {
	complete := func(cmd *models.Command) Result {
		it.sessions.ClearSlot(msg.AuthorID, msg.Now)
		return Result{
			Outcome:    OutcomeCommand,
			Command:    cmd,
			Reply:      it.responder.Ack(cmd),
			Intent:     cmd.Intent,
			Confidence: cmd.Confidence,
		}
	}

	cmd := &models.Command{
		Intent:     models.IntentSetReminder,
		Confidence: pending.Confidence,
		Entities:   pending.Entities,
		Complete:   true,
	}

	if declineWords.MatchString(text) {
		return complete(cmd)
	}

	resolved, err := it.resolver.Resolve(text, msg.Now, msg.Locale)
	if err != nil {
		return Result{
			Outcome:    OutcomeClarification,
			Reply:      it.responder.Clarify(ClarifyTime),
			Clarify:    ClarifyTime,
			Intent:     models.IntentSetReminder,
			Confidence: pending.Confidence,
		}
	}
	cmd.Entities.TimeText = strings.TrimSpace(text)
	cmd.Entities.Recurrence = resolved.Recurrence
	cmd.Resolved = resolved
	return complete(cmd)
}

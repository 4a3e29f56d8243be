package interpreter

import (
	"github.com/fentz26/nudge/internal/models"
	"github.com/fentz26/nudge/internal/timeparse"
)

// Assembly is the outcome of turning an extraction into a command. Exactly
// one of Command-complete, Command-incomplete or Clarify is meaningful,
// signalled by Clarify and Command.Complete.
type Assembly struct {
	Command *models.Command
	Clarify ClarificationKind
}

// assemble builds a set-reminder command from an extraction. An empty task
// is never actionable. A missing or unparseable time phrase yields an
// incomplete command so the caller can arm a slot-fill turn.
func assemble(ex Extraction, verdict Classification, resolver *timeparse.Resolver, msg models.Message) Assembly {
	if ex.Task == "" {
		return Assembly{Clarify: ClarifyEmptyTask}
	}

	cmd := &models.Command{
		Intent:     verdict.Intent,
		Confidence: verdict.Confidence,
		Entities: models.Entities{
			Task:     ex.Task,
			TimeText: ex.TimeText,
			Target:   ex.Target,
			Priority: ex.Priority,
		},
	}

	if ex.TimeText == "" {
		return Assembly{Command: cmd, Clarify: ClarifyTime}
	}
	resolved, err := resolver.Resolve(ex.TimeText, msg.Now, msg.Locale)
	if err != nil {
		return Assembly{Command: cmd, Clarify: ClarifyTime}
	}
	cmd.Resolved = resolved
	cmd.Entities.Recurrence = resolved.Recurrence
	cmd.Complete = true
	return Assembly{Command: cmd}
}

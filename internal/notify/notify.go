// Package notify defines the reminder delivery interface for nudge.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fentz26/nudge/internal/models"
)

// Notifier delivers a fired reminder to its target.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Deliver sends one fired reminder.
	Deliver(ctx context.Context, rem models.Reminder) error
}

// Console writes reminder notifications to a writer, stdout by default.
type Console struct {
	out io.Writer
}

// NewConsole creates a console notifier. A nil writer selects stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Name returns the notifier identifier.
func (c *Console) Name() string { return "console" }

// Deliver prints the reminder.
func (c *Console) Deliver(ctx context.Context, rem models.Reminder) error {
	prefix := ""
	switch rem.Target.Kind {
	case models.TargetUser:
		prefix = "@" + rem.Target.ID + " "
	case models.TargetChannel:
		prefix = "#" + rem.Target.ID + " "
	case models.TargetEveryone:
		prefix = "@everyone "
	}
	_, err := fmt.Fprintf(c.out, "⏰ %s%s (for %s)\n", prefix, rem.Task, rem.AuthorID)
	return err
}

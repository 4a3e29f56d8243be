// Package gateway provides the HTTP API and service layer for nudge.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fentz26/nudge/internal/audit"
	"github.com/fentz26/nudge/internal/interpreter"
	"github.com/fentz26/nudge/internal/models"
	"github.com/fentz26/nudge/internal/store"
)

// Service glues the interpreter to the reminder store.
type Service struct {
	store      *store.Store
	interp     *interpreter.Interpreter
	audit      *audit.Recorder
	locale     string
	maxPending int
}

// NewService creates the gateway service. maxPending of 0 disables the
// per-user pending cap; defaultLocale fills messages arriving without one.
func NewService(s *store.Store, it *interpreter.Interpreter, rec *audit.Recorder, defaultLocale string, maxPending int) *Service {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &Service{
		store:      s,
		interp:     it,
		audit:      rec,
		locale:     defaultLocale,
		maxPending: maxPending,
	}
}

// MessageReply is what the transport layer gets back for one message.
type MessageReply struct {
	Addressed  bool            `json:"addressed"`
	Reply      string          `json:"reply,omitempty"`
	Intent     models.Intent   `json:"intent,omitempty"`
	Confidence float64         `json:"confidence"`
	ReminderID string          `json:"reminder_id,omitempty"`
	Command    *models.Command `json:"command,omitempty"`
}

// HandleMessage runs one inbound message through the interpreter, records
// analytics, and persists any completed set-reminder command.
func (s *Service) HandleMessage(text, authorID, locale string, mentionsAgent bool, now time.Time) (*MessageReply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if locale == "" {
		locale = s.locale
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	res := s.interp.Process(models.Message{
		Text:          text,
		AuthorID:      authorID,
		MentionsAgent: mentionsAgent,
		Locale:        locale,
		Now:           now,
	})

	if res.Outcome == interpreter.OutcomeIgnored {
		return &MessageReply{}, nil
	}

	s.audit.Record(authorID, res.Intent, res.Confidence, locale)

	reply := &MessageReply{
		Addressed:  true,
		Reply:      res.Reply,
		Intent:     res.Intent,
		Confidence: res.Confidence,
		Command:    res.Command,
	}

	if res.Outcome != interpreter.OutcomeCommand || res.Command == nil {
		return reply, nil
	}

	switch res.Command.Intent {
	case models.IntentSetReminder:
		rem, err := s.persist(authorID, res.Command)
		if err != nil {
			return nil, err
		}
		reply.ReminderID = rem.ID
	case models.IntentRecall:
		rems, err := s.store.ListReminders(authorID, models.ReminderPending)
		if err != nil {
			return nil, err
		}
		reply.Reply = formatRecall(rems)
	}

	return reply, nil
}

// persist stores a completed set-reminder command, enforcing the pending cap.
func (s *Service) persist(authorID string, cmd *models.Command) (*models.Reminder, error) {
	if s.maxPending > 0 {
		n, err := s.store.CountPending(authorID)
		if err != nil {
			return nil, err
		}
		if n >= s.maxPending {
			return nil, ErrTooManyReminders
		}
	}

	var dueAt *time.Time
	if cmd.Resolved != nil {
		t := cmd.Resolved.At
		dueAt = &t
	}
	return s.store.CreateReminder(authorID, cmd.Entities.Task, dueAt, cmd.Entities.Recurrence, cmd.Entities.Target, cmd.Entities.Priority)
}

// ListReminders returns reminders for an author, optionally by status.
func (s *Service) ListReminders(authorID string, status models.ReminderStatus) ([]models.Reminder, error) {
	return s.store.ListReminders(authorID, status)
}

// CancelReminder cancels a pending reminder.
func (s *Service) CancelReminder(id string) error {
	err := s.store.CancelReminder(id)
	if err == store.ErrReminderNotFound {
		return ErrNotFound
	}
	return err
}

// Ping reports store health.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func formatRecall(rems []models.Reminder) string {
	if len(rems) == 0 {
		return "Nothing pending. Enjoy the quiet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d pending reminder(s):\n", len(rems))
	for _, rem := range rems {
		when := "no due time"
		if rem.DueAt != nil {
			when = rem.DueAt.Format("Mon Jan 2 15:04")
		}
		if rem.Recurrence != nil {
			when += " (recurring)"
		}
		fmt.Fprintf(&b, "- %s (%s)\n", rem.Task, when)
	}
	return strings.TrimRight(b.String(), "\n")
}

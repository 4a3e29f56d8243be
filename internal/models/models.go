// Package models defines the core domain types for nudge.
package models

import "time"

// Intent classifies the purpose of an incoming message.
type Intent string

const (
	IntentGreet       Intent = "greet"
	IntentSetReminder Intent = "set_reminder"
	IntentRecall      Intent = "recall"
	IntentSetMood     Intent = "set_mood"
	IntentHelp        Intent = "help"
	IntentBlocked     Intent = "blocked"
	IntentUnknown     Intent = "unknown"
)

// MinConfidence is the global acceptance floor: classifier results below it
// are treated as unclassified regardless of the intent tag.
const MinConfidence = 0.3

// Message is one inbound chat event. Now is an injected clock value so that
// time resolution stays deterministic; nothing downstream reads the wall clock.
type Message struct {
	Text          string    `json:"text"`
	AuthorID      string    `json:"author_id"`
	MentionsAgent bool      `json:"mentions_agent"`
	Locale        string    `json:"locale"`
	Now           time.Time `json:"now"`
}

// TargetKind identifies who a reminder is for.
type TargetKind string

const (
	TargetSelf     TargetKind = "self"
	TargetUser     TargetKind = "user"
	TargetChannel  TargetKind = "channel"
	TargetEveryone TargetKind = "everyone"
)

// Target is the recipient of a reminder. ID is set for user and channel targets.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

// Frequency enumerates recurrence periods.
type Frequency string

const (
	FreqDay     Frequency = "day"
	FreqWeek    Frequency = "week"
	FreqMonth   Frequency = "month"
	FreqWeekday Frequency = "weekday"
)

// RecurrenceSpec is a normalized repeating schedule. Weekday is only
// meaningful when Frequency is FreqWeekday (0 = Sunday, matching time.Weekday).
type RecurrenceSpec struct {
	Frequency Frequency `json:"frequency"`
	Weekday   int       `json:"weekday,omitempty"`
	Hour      int       `json:"hour"`
	Minute    int       `json:"minute"`
}

// Next returns the first occurrence of the schedule strictly after the given time.
func (r RecurrenceSpec) Next(after time.Time) time.Time {
	t := time.Date(after.Year(), after.Month(), after.Day(), r.Hour, r.Minute, 0, 0, after.Location())
	switch r.Frequency {
	case FreqDay:
		if !t.After(after) {
			t = t.AddDate(0, 0, 1)
		}
	case FreqWeek:
		if !t.After(after) {
			t = t.AddDate(0, 0, 7)
		}
	case FreqMonth:
		if !t.After(after) {
			t = t.AddDate(0, 1, 0)
		}
	case FreqWeekday:
		days := (r.Weekday - int(t.Weekday()) + 7) % 7
		t = t.AddDate(0, 0, days)
		if !t.After(after) {
			t = t.AddDate(0, 0, 7)
		}
	}
	return t
}

// ResolveMethod records which phrase family produced a resolved time.
type ResolveMethod string

const (
	MethodRelative      ResolveMethod = "relative"
	MethodAbsoluteClock ResolveMethod = "absolute_clock"
	MethodWeekday       ResolveMethod = "weekday"
	MethodNamedPhrase   ResolveMethod = "named_phrase"
	MethodCalendarDate  ResolveMethod = "calendar_date"
	MethodRecurring     ResolveMethod = "recurring"
)

// ResolvedTime is the outcome of resolving a time phrase. For recurring
// phrases Recurrence is set and At holds the first occurrence.
type ResolvedTime struct {
	At         time.Time       `json:"at"`
	Method     ResolveMethod   `json:"method"`
	Recurrence *RecurrenceSpec `json:"recurrence,omitempty"`
}

// Entities holds the structured fields extracted from message text.
type Entities struct {
	Task       string          `json:"task"`
	TimeText   string          `json:"time_text,omitempty"`
	Target     Target          `json:"target"`
	Priority   int             `json:"priority"` // 0..3
	Recurrence *RecurrenceSpec `json:"recurrence,omitempty"`
}

// Command is the interpreter's terminal output, handed to the persistence
// collaborator. It holds no reference back to the message or session state.
type Command struct {
	Intent     Intent        `json:"intent"`
	Confidence float64       `json:"confidence"`
	Entities   Entities      `json:"entities"`
	Resolved   *ResolvedTime `json:"resolved_time,omitempty"`
	Complete   bool          `json:"complete"`
}

// ReminderStatus represents the lifecycle state of a stored reminder.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderFired     ReminderStatus = "fired"
	ReminderCancelled ReminderStatus = "cancelled"
)

// Reminder is a persisted reminder. DueAt is nil for reminders stored without
// a due time (the user declined to supply one).
type Reminder struct {
	ID         string          `json:"id"`
	AuthorID   string          `json:"author_id"`
	Task       string          `json:"task"`
	DueAt      *time.Time      `json:"due_at,omitempty"`
	Recurrence *RecurrenceSpec `json:"recurrence,omitempty"`
	Target     Target          `json:"target"`
	Priority   int             `json:"priority"`
	Status     ReminderStatus  `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IntentRecord is one analytics log entry: which intent was recognized for a
// processed message and with what confidence.
type IntentRecord struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	Intent     Intent    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Locale     string    `json:"locale"`
	Timestamp  time.Time `json:"timestamp"`
}

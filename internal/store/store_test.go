package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestReminderCRUD(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	due := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rem, err := s.CreateReminder("u1", "call mom", &due, nil, models.Target{Kind: models.TargetSelf}, 2)
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}
	if rem.ID == "" {
		t.Error("Reminder ID should not be empty")
	}
	if rem.Status != models.ReminderPending {
		t.Errorf("Expected status pending, got %s", rem.Status)
	}

	got, err := s.GetReminder(rem.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got.Task != "call mom" {
		t.Errorf("Expected task 'call mom', got %s", got.Task)
	}
	if got.DueAt == nil || !got.DueAt.Equal(due) {
		t.Errorf("Expected due %v, got %v", due, got.DueAt)
	}
	if got.Priority != 2 {
		t.Errorf("Expected priority 2, got %d", got.Priority)
	}

	rems, err := s.ListReminders("u1", "")
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(rems) != 1 {
		t.Errorf("Expected 1 reminder, got %d", len(rems))
	}

	rems, err = s.ListReminders("u2", "")
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(rems) != 0 {
		t.Errorf("Expected 0 reminders for other author, got %d", len(rems))
	}
}

func TestGetReminderNotFound(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	got, err := s.GetReminder("nonexistent")
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing reminder")
	}
}

func TestReminderWithoutDueTime(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	rem, err := s.CreateReminder("u1", "buy milk", nil, nil, models.Target{Kind: models.TargetSelf}, 0)
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}

	got, err := s.GetReminder(rem.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got.DueAt != nil {
		t.Errorf("Expected nil due time, got %v", got.DueAt)
	}

	// A reminder with no due time never becomes due.
	due, err := s.DueReminders(time.Now().UTC().Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("Expected 0 due reminders, got %d", len(due))
	}
}

func TestReminderRecurrence(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	due := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	spec := &models.RecurrenceSpec{Frequency: models.FreqWeekday, Weekday: 1, Hour: 9, Minute: 0}
	rem, err := s.CreateReminder("u1", "standup notes", &due, spec, models.Target{Kind: models.TargetChannel, ID: "general"}, 0)
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}

	got, err := s.GetReminder(rem.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got.Recurrence == nil {
		t.Fatal("Expected recurrence to round-trip")
	}
	if got.Recurrence.Frequency != models.FreqWeekday || got.Recurrence.Weekday != 1 || got.Recurrence.Hour != 9 {
		t.Errorf("Recurrence mismatch: %+v", got.Recurrence)
	}
	if got.Target.Kind != models.TargetChannel || got.Target.ID != "general" {
		t.Errorf("Target mismatch: %+v", got.Target)
	}
}

func TestDueRemindersAndMarkFired(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	overdue, err := s.CreateReminder("u1", "overdue", &past, nil, models.Target{Kind: models.TargetSelf}, 0)
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}
	if _, err := s.CreateReminder("u1", "later", &future, nil, models.Target{Kind: models.TargetSelf}, 0); err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}

	due, err := s.DueReminders(time.Now().UTC())
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("Expected 1 due reminder, got %d", len(due))
	}
	if due[0].Task != "overdue" {
		t.Errorf("Expected 'overdue', got %s", due[0].Task)
	}

	if err := s.MarkFired(overdue.ID); err != nil {
		t.Fatalf("MarkFired failed: %v", err)
	}

	due, err = s.DueReminders(time.Now().UTC())
	if err != nil {
		t.Fatalf("DueReminders failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("Expected 0 due reminders after firing, got %d", len(due))
	}
}

func TestRescheduleReminder(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	past := time.Now().UTC().Add(-time.Minute)
	rem, err := s.CreateReminder("u1", "weekly review", &past, &models.RecurrenceSpec{Frequency: models.FreqWeek, Hour: 9}, models.Target{Kind: models.TargetSelf}, 0)
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}

	next := time.Now().UTC().Add(7 * 24 * time.Hour)
	if err := s.RescheduleReminder(rem.ID, next); err != nil {
		t.Fatalf("RescheduleReminder failed: %v", err)
	}

	got, err := s.GetReminder(rem.ID)
	if err != nil {
		t.Fatalf("GetReminder failed: %v", err)
	}
	if got.Status != models.ReminderPending {
		t.Errorf("Rescheduled reminder should stay pending, got %s", got.Status)
	}
	if got.DueAt == nil || got.DueAt.Before(time.Now().UTC()) {
		t.Errorf("Rescheduled due time should be in the future, got %v", got.DueAt)
	}

	if err := s.RescheduleReminder("missing", next); err != ErrReminderNotFound {
		t.Errorf("Expected ErrReminderNotFound, got %v", err)
	}
}

func TestCancelReminder(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	rem, err := s.CreateReminder("u1", "cancel me", nil, nil, models.Target{Kind: models.TargetSelf}, 0)
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}

	if err := s.CancelReminder(rem.ID); err != nil {
		t.Fatalf("CancelReminder failed: %v", err)
	}
	got, _ := s.GetReminder(rem.ID)
	if got.Status != models.ReminderCancelled {
		t.Errorf("Expected cancelled, got %s", got.Status)
	}

	if err := s.CancelReminder("missing"); err != ErrReminderNotFound {
		t.Errorf("Expected ErrReminderNotFound, got %v", err)
	}
}

func TestCountPending(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	for i := 0; i < 3; i++ {
		if _, err := s.CreateReminder("u1", "task", nil, nil, models.Target{Kind: models.TargetSelf}, 0); err != nil {
			t.Fatalf("CreateReminder failed: %v", err)
		}
	}
	rem, _ := s.CreateReminder("u1", "cancelled task", nil, nil, models.Target{Kind: models.TargetSelf}, 0)
	s.CancelReminder(rem.ID)

	n, err := s.CountPending("u1")
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 pending, got %d", n)
	}
}

func TestIntentLog(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	rec, err := s.LogIntent("u1", models.IntentSetReminder, 0.9, "en")
	if err != nil {
		t.Fatalf("LogIntent failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("Intent record ID should not be empty")
	}

	if _, err := s.LogIntent("u2", models.IntentUnknown, 0.0, "fr"); err != nil {
		t.Fatalf("LogIntent failed: %v", err)
	}

	recs, err := s.RecentIntents(10)
	if err != nil {
		t.Fatalf("RecentIntents failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 intent records, got %d", len(recs))
	}
}

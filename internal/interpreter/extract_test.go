package interpreter

import (
	"testing"

	"github.com/fentz26/nudge/internal/models"
	"github.com/fentz26/nudge/internal/timeparse"
)

func newTestExtractor() *Extractor {
	return NewExtractor(timeparse.NewResolver())
}

func TestExtractTaskAndTime(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text     string
		task     string
		timeText string
	}{
		{"remind me to call mom in 2 hours", "call mom", "in 2 hours"},
		{"remind me to submit the report tomorrow at 9am", "submit the report", "tomorrow at 9am"},
		{"don't forget to water the plants tonight", "water the plants", "tonight"},
		{"todo: review the pull request", "review the pull request", ""},
		{"set a reminder for standup every monday at 9am", "standup", "every monday at 9am"},
	}
	for _, tt := range tests {
		ex := e.Extract(tt.text, "en")
		if ex.Task != tt.task {
			t.Errorf("Extract(%q) task = %q, want %q", tt.text, ex.Task, tt.task)
		}
		if ex.TimeText != tt.timeText {
			t.Errorf("Extract(%q) time = %q, want %q", tt.text, ex.TimeText, tt.timeText)
		}
	}
}

func TestExtractEmptyTask(t *testing.T) {
	e := newTestExtractor()
	ex := e.Extract("remind me in 2 hours", "en")
	if ex.Task != "" {
		t.Errorf("Task = %q, want empty", ex.Task)
	}
	if ex.TimeText != "in 2 hours" {
		t.Errorf("TimeText = %q", ex.TimeText)
	}
}

func TestExtractPriority(t *testing.T) {
	e := newTestExtractor()

	ex := e.Extract("remind me to ship the release!!!", "en")
	if ex.Priority != 3 {
		t.Errorf("Bang priority = %d, want 3", ex.Priority)
	}
	if ex.Task != "ship the release" {
		t.Errorf("Task = %q", ex.Task)
	}

	ex = e.Extract("high priority: remind me to call the doctor", "en")
	if ex.Priority != 3 {
		t.Errorf("Word priority = %d, want 3", ex.Priority)
	}

	ex = e.Extract("remind me to tidy up", "en")
	if ex.Priority != 0 {
		t.Errorf("Default priority = %d, want 0", ex.Priority)
	}
}

func TestExtractTarget(t *testing.T) {
	e := newTestExtractor()

	ex := e.Extract("remind @sam to review the doc tomorrow", "en")
	if ex.Target.Kind != models.TargetUser || ex.Target.ID != "sam" {
		t.Errorf("Target = %+v, want user sam", ex.Target)
	}

	ex = e.Extract("remind #general about the release friday", "en")
	if ex.Target.Kind != models.TargetChannel || ex.Target.ID != "general" {
		t.Errorf("Target = %+v, want channel general", ex.Target)
	}

	ex = e.Extract("remind everyone to fill the survey tomorrow", "en")
	if ex.Target.Kind != models.TargetEveryone {
		t.Errorf("Target = %+v, want everyone", ex.Target)
	}

	ex = e.Extract("remind me to stretch", "en")
	if ex.Target.Kind != models.TargetSelf {
		t.Errorf("Target = %+v, want self", ex.Target)
	}
}

func TestExtractRecurring(t *testing.T) {
	e := newTestExtractor()

	ex := e.Extract("remind me to do standup every monday at 9am", "en")
	if !ex.Recurring {
		t.Error("Expected recurring phrase to be flagged")
	}
	ex = e.Extract("remind me to stretch in 2 hours", "en")
	if ex.Recurring {
		t.Error("One-shot phrase flagged as recurring")
	}
}

func TestExtractTimeInsideWordIgnored(t *testing.T) {
	e := newTestExtractor()
	ex := e.Extract("remind me to read the chapter on tomatoes", "en")
	if ex.TimeText != "" {
		t.Errorf("TimeText = %q, want none inside a larger word", ex.TimeText)
	}
}

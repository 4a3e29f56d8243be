package interpreter

import (
	"testing"

	"github.com/fentz26/nudge/internal/models"
)

func TestClassifyEnglish(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		text   string
		intent models.Intent
	}{
		{"remind me to call mom in 2 hours", models.IntentSetReminder},
		{"don't forget the standup notes", models.IntentSetReminder},
		{"i need a reminder to water the plants", models.IntentSetReminder},
		{"list my reminders", models.IntentRecall},
		{"what's coming up this week", models.IntentRecall},
		{"help", models.IntentHelp},
		{"what can you do", models.IntentHelp},
		{"i'm stuck on this bug", models.IntentBlocked},
		{"be more formal please", models.IntentSetMood},
		{"hello there", models.IntentGreet},
		{"good morning", models.IntentGreet},
		{"the weather is nice today", models.IntentUnknown},
	}
	for _, tt := range tests {
		got := c.Classify(tt.text, "en")
		if got.Intent != tt.intent {
			t.Errorf("Classify(%q) = %s, want %s", tt.text, got.Intent, tt.intent)
		}
	}
}

func TestClassifyOrderedRules(t *testing.T) {
	c := NewClassifier()

	// "help" anywhere must beat the greeting rule even when the message
	// opens with a greeting word.
	got := c.Classify("hey, i need help", "en")
	if got.Intent != models.IntentHelp {
		t.Errorf("Classify = %s, want help to win over greet", got.Intent)
	}

	// A reminder phrased around being stuck still routes to set_reminder
	// because its rule is listed first.
	got = c.Classify("remind me that i'm stuck on chapter 3", "en")
	if got.Intent != models.IntentSetReminder {
		t.Errorf("Classify = %s, want set_reminder to win by order", got.Intent)
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("remind me to stretch", "en")
	if got.Confidence < models.MinConfidence {
		t.Errorf("Reminder confidence %.2f below floor", got.Confidence)
	}
	got = c.Classify("completely unrelated chatter", "en")
	if got.Confidence != 0 {
		t.Errorf("Unknown confidence = %.2f, want 0", got.Confidence)
	}
}

func TestClassifyLocales(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		text   string
		locale string
		intent models.Intent
	}{
		{"rappelle-moi d'appeler maman", "fr", models.IntentSetReminder},
		{"bonjour", "fr", models.IntentGreet},
		{"recuérdame llamar a mamá", "es", models.IntentSetReminder},
		{"hola", "es", models.IntentGreet},
		{"明日の会議をリマインドして", "ja", models.IntentSetReminder},
		{"こんにちは", "ja", models.IntentGreet},
	}
	for _, tt := range tests {
		got := c.Classify(tt.text, tt.locale)
		if got.Intent != tt.intent {
			t.Errorf("Classify(%q, %s) = %s, want %s", tt.text, tt.locale, got.Intent, tt.intent)
		}
	}
}

func TestClassifyUnknownLocaleFallsBack(t *testing.T) {
	c := NewClassifier()
	got := c.Classify("remind me to stretch", "de")
	if got.Intent != models.IntentSetReminder {
		t.Errorf("Unknown locale should fall back to english rules, got %s", got.Intent)
	}
}

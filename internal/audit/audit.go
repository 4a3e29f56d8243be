// Package audit records intent analytics for every processed message.
package audit

import (
	"log"

	"github.com/fentz26/nudge/internal/models"
	"github.com/fentz26/nudge/internal/store"
)

// Recorder writes (intent, confidence) pairs to the intent log.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a new intent recorder.
func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record logs one classified message. Logging is best-effort: a write
// failure is reported but never surfaced to the message pipeline.
func (r *Recorder) Record(authorID string, intent models.Intent, confidence float64, locale string) {
	if _, err := r.store.LogIntent(authorID, intent, confidence, locale); err != nil {
		log.Printf("audit: log intent: %v", err)
	}
}

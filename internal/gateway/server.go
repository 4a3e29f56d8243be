package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

// Server provides the HTTP API for nudge.
type Server struct {
	service *Service
	addr    string
	server  *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, addr string) *Server {
	return &Server{
		service: service,
		addr:    addr,
	}
}

// Handler builds the route table. Exposed separately so tests can drive it
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/messages", s.handleMessages)
	mux.HandleFunc("/reminders", s.handleReminders)
	mux.HandleFunc("/reminders/", s.handleReminderByID)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.service.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Starting nudge gateway on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// --- Message Handler ---

type messageRequest struct {
	Text          string    `json:"text"`
	AuthorID      string    `json:"author_id"`
	Locale        string    `json:"locale"`
	MentionsAgent bool      `json:"mentions_agent"`
	Now           time.Time `json:"now,omitempty"`
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.AuthorID == "" {
		http.Error(w, "author_id required", http.StatusBadRequest)
		return
	}

	reply, err := s.service.HandleMessage(req.Text, req.AuthorID, req.Locale, req.MentionsAgent, req.Now)
	if err != nil {
		status := http.StatusInternalServerError
		switch err {
		case ErrEmptyMessage:
			status = http.StatusBadRequest
		case ErrTooManyReminders:
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

// --- Reminder Handlers ---

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authorID := r.URL.Query().Get("author_id")
	status := models.ReminderStatus(r.URL.Query().Get("status"))

	rems, err := s.service.ListReminders(authorID, status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rems == nil {
		rems = []models.Reminder{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rems)
}

// handleReminderByID handles /reminders/{id}/cancel
func (s *Server) handleReminderByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/reminders/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "reminder id required", http.StatusBadRequest)
		return
	}

	id := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "cancel" && r.Method == http.MethodPost:
		if err := s.service.CancelReminder(id); err != nil {
			status := http.StatusInternalServerError
			if err == ErrNotFound {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"cancelled"}`))
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

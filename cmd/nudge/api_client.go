package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fentz26/nudge/internal/gateway"
	"github.com/fentz26/nudge/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// apiClient is the shared HTTP client with timeout.
var apiClient = &http.Client{
	Timeout: DefaultClientTimeout,
}

// callAPI performs one JSON round trip against the daemon. in is sent as the
// request body when non-nil; out is decoded from the response when non-nil.
func callAPI(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiAddr+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := apiClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// sendMessage runs one chat message through the daemon's interpreter.
func sendMessage(text, authorID, locale string) (gateway.MessageReply, error) {
	var reply gateway.MessageReply
	err := callAPI(http.MethodPost, "/messages", map[string]string{
		"text":      text,
		"author_id": authorID,
		"locale":    locale,
	}, &reply)
	return reply, err
}

// fetchReminders lists reminders, optionally filtered by author and status.
func fetchReminders(authorID, status string) ([]models.Reminder, error) {
	q := url.Values{}
	if authorID != "" {
		q.Set("author_id", authorID)
	}
	if status != "" {
		q.Set("status", status)
	}
	path := "/reminders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var rems []models.Reminder
	err := callAPI(http.MethodGet, path, nil, &rems)
	return rems, err
}

// cancelReminder cancels one pending reminder by ID.
func cancelReminder(id string) error {
	return callAPI(http.MethodPost, "/reminders/"+url.PathEscape(id)+"/cancel", struct{}{}, nil)
}

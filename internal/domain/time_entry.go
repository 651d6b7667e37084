package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format Harvest uses for spent_date.
const DateLayout = "2006-01-02"

// User is the Harvest user a time entry belongs to.
type User struct {
	ID uint64 `json:"id"`
}

func (u User) Validate() error {
	if u.ID == 0 {
		return errors.New("user: id is required")
	}
	return nil
}

func (u *User) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "id"); err != nil {
		return fmt.Errorf("user: %w", err)
	}
	type plain User
	return json.Unmarshal(data, (*plain)(u))
}

// timeEntryFields must be present and non-null; notes may be absent or null.
var timeEntryFields = []string{"id", "project", "client", "task", "user", "hours", "spent_date", "is_running"}

// TimeEntry is a snapshot of a Harvest time entry as returned by the API.
type TimeEntry struct {
	ID        uint64  `json:"id"`
	Project   Project `json:"project"`
	Client    Client  `json:"client"`
	Task      Task    `json:"task"`
	User      User    `json:"user"`
	Hours     float64 `json:"hours"`
	SpentDate string  `json:"spent_date"`
	Notes     *string `json:"notes"`
	IsRunning bool    `json:"is_running"`
}

func (e TimeEntry) Validate() error {
	if e.ID == 0 {
		return errors.New("time entry: id is required")
	}
	for _, v := range []Validator{e.Project, e.Client, e.Task, e.User} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("time entry %d: %w", e.ID, err)
		}
	}
	if e.Hours < 0 {
		return fmt.Errorf("time entry %d: negative hours %v", e.ID, e.Hours)
	}
	if _, err := e.Date(); err != nil {
		return fmt.Errorf("time entry %d: spent_date %q: %w", e.ID, e.SpentDate, err)
	}
	return nil
}

func (e *TimeEntry) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, timeEntryFields...); err != nil {
		return fmt.Errorf("time entry: %w", err)
	}
	type plain TimeEntry
	return json.Unmarshal(data, (*plain)(e))
}

// Date parses SpentDate as a calendar date in the local time zone.
func (e TimeEntry) Date() (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.SpentDate, time.Local)
}

// NoteText returns the entry notes, or "" when none were recorded.
func (e TimeEntry) NoteText() string {
	if e.Notes == nil {
		return ""
	}
	return *e.Notes
}

// Timer is the request body for creating a time entry. It is never returned
// by the API; Notes and Hours are omitted when nil so Harvest applies its own
// defaults (a nil Hours starts a running timer).
type Timer struct {
	ProjectID uint64   `json:"project_id"`
	TaskID    uint64   `json:"task_id"`
	SpentDate string   `json:"spent_date"`
	Notes     *string  `json:"notes,omitempty"`
	Hours     *float64 `json:"hours,omitempty"`
}

package model

import "time"

// Event is a calendar event. Like tasks, events are owned by the
// persistence collaborator and referenced from workflow nodes by ID.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	AllDay    bool      `json:"all_day,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

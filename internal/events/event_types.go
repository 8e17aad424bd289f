package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventProfileUpdated EventType = "profile_updated"
	EventPollPublished  EventType = "poll_published"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// ProfileUpdatedPayload payload.
type ProfileUpdatedPayload struct {
	OldEmail string `json:"old_email"`
	NewEmail string `json:"new_email"`
}

// PollPublishedPayload payload.
type PollPublishedPayload struct {
	DraftID   string `json:"draft_id"`
	Title     string `json:"title"`
	Questions int    `json:"questions"`
}

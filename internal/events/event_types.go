package events

import (
	"time"

	"github.com/spec-kit/skillswap-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered           EventType = "user_registered"
	EventSwapRequestCreated       EventType = "swap_request_created"
	EventSwapRequestStatusChanged EventType = "swap_request_status_changed"
	EventSkillSubmitted           EventType = "skill_submitted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SwapRequestCreatedPayload payload.
type SwapRequestCreatedPayload struct {
	RequestID    string `json:"request_id"`
	RequesterID  string `json:"requester_id"`
	ReceiverID   string `json:"receiver_id"`
	SkillOffered string `json:"skill_offered"`
	SkillWanted  string `json:"skill_wanted"`
}

// SwapRequestStatusChangedPayload payload.
type SwapRequestStatusChangedPayload struct {
	RequestID  string            `json:"request_id"`
	ReceiverID string            `json:"receiver_id"`
	OldStatus  domain.SwapStatus `json:"old_status"`
	NewStatus  domain.SwapStatus `json:"new_status"`
}

// SkillSubmittedPayload payload.
type SkillSubmittedPayload struct {
	SkillID string `json:"skill_id"`
	Name    string `json:"name"`
}

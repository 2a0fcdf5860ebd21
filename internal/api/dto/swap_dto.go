package dto

import (
	"time"

	"github.com/spec-kit/skillswap-service/internal/domain"
)

// CreateSwapRequest payload.
type CreateSwapRequest struct {
	ReceiverID   string  `json:"receiver_id"`
	SkillOffered string  `json:"skill_offered"`
	SkillWanted  string  `json:"skill_wanted"`
	Message      *string `json:"message"`
}

// UpdateSwapRequest applies a status transition.
type UpdateSwapRequest struct {
	Status            domain.SwapStatus `json:"status"`
	AcceptanceMessage *string           `json:"acceptance_message"`
}

// SwapRequestResponse is the participant view of a request.
type SwapRequestResponse struct {
	ID                string            `json:"id"`
	RequesterID       string            `json:"requester_id"`
	ReceiverID        string            `json:"receiver_id"`
	SkillOffered      string            `json:"skill_offered"`
	SkillWanted       string            `json:"skill_wanted"`
	Message           *string           `json:"message"`
	AcceptanceMessage *string           `json:"acceptance_message"`
	Status            domain.SwapStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

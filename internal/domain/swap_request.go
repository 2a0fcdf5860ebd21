package domain

import "time"

// SwapStatus enumerates lifecycle states for swap requests.
type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "PENDING"
	SwapStatusAccepted  SwapStatus = "ACCEPTED"
	SwapStatusRejected  SwapStatus = "REJECTED"
	SwapStatusCancelled SwapStatus = "CANCELLED"
)

// SwapRequest is a proposal to exchange one skill for another between two users.
type SwapRequest struct {
	ID                string
	RequesterID       string
	ReceiverID        string
	SkillOffered      string
	SkillWanted       string
	Message           *string
	AcceptanceMessage *string
	Status            SwapStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Participant reports whether the user is either side of the exchange.
func (r *SwapRequest) Participant(userID string) bool {
	return userID == r.RequesterID || userID == r.ReceiverID
}

package dto

import (
	"time"

	"github.com/spec-kit/skillswap-service/internal/domain"
)

// SubmitSkillRequest payload for community submissions.
type SubmitSkillRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// UpdateSkillRequest carries a partial edit of a catalog entry. Absent
// fields are left untouched.
type UpdateSkillRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// SkillResponse catalog entry.
type SkillResponse struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     *string            `json:"description"`
	Category        *string            `json:"category"`
	Status          domain.SkillStatus `json:"status"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

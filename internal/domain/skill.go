package domain

import "time"

// SkillStatus enumerates moderation states for catalog entries.
type SkillStatus string

const (
	SkillStatusApproved      SkillStatus = "APPROVED"
	SkillStatusPendingReview SkillStatus = "PENDING_REVIEW"
	SkillStatusRejected      SkillStatus = "REJECTED"
)

// Skill is a catalog entry users can reference from their profiles.
// Community submissions start in PENDING_REVIEW until moderated.
type Skill struct {
	ID              string
	Name            string
	Description     *string
	Category        *string
	Status          SkillStatus
	RejectionReason *string
	CreatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

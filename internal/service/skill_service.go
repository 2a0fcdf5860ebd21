package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/skillswap-service/internal/access"
	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/events"
	"github.com/spec-kit/skillswap-service/internal/repository"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

// SkillService manages the moderated skill catalog.
type SkillService struct {
	skills     repository.SkillRepository
	dispatcher events.Dispatcher
}

// NewSkillService constructs the service.
func NewSkillService(skills repository.SkillRepository, dispatcher events.Dispatcher) *SkillService {
	return &SkillService{skills: skills, dispatcher: dispatcher}
}

// SkillSubmitInput describes a community submission.
type SkillSubmitInput struct {
	Name        string
	Description *string
	Category    *string
}

// SkillUpdateInput carries a partial edit. Nil fields are left untouched.
type SkillUpdateInput struct {
	Name        *string
	Description *string
	Category    *string
}

// ListApproved returns approved catalog entries with optional filters.
func (s *SkillService) ListApproved(ctx context.Context, category, search *string, limit, offset int) ([]domain.Skill, error) {
	approved := domain.SkillStatusApproved
	skills, err := s.skills.List(ctx, repository.SkillFilter{
		Status:     &approved,
		Category:   category,
		SearchTerm: search,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return skills, nil
}

// Submit records a new skill pending moderation.
func (s *SkillService) Submit(ctx context.Context, userID string, input SkillSubmitInput) (*domain.Skill, error) {
	name := sanitize(input.Name, 100)
	if name == "" {
		return nil, apperrors.NewValidationError("skill name is required", nil)
	}

	if _, err := s.skills.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewConflict("a skill with this name already exists", map[string]any{"name": name})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	skill := &domain.Skill{
		Name:        name,
		Description: input.Description,
		Category:    input.Category,
		Status:      domain.SkillStatusPendingReview,
		CreatedBy:   &userID,
	}
	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventSkillSubmitted,
		ActorID: userID,
		Payload: events.SkillSubmittedPayload{SkillID: skill.ID, Name: skill.Name},
	})
	return skill, nil
}

// GetApproved fetches a single catalog entry. Entries still under moderation
// read as not found.
func (s *SkillService) GetApproved(ctx context.Context, id string) (*domain.Skill, error) {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("skill", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if skill.Status != domain.SkillStatusApproved {
		return nil, apperrors.NewNotFound("skill", nil)
	}
	return skill, nil
}

// Update edits a catalog entry; creator or admin only. The entry returns to
// PENDING_REVIEW so edits pass moderation again.
func (s *SkillService) Update(ctx context.Context, actorID string, isAdmin bool, id string, input SkillUpdateInput) (*domain.Skill, error) {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("skill", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !access.CanMutateSkill(actorID, isAdmin, skill) {
		return nil, apperrors.NewForbidden("you can only update skills you created")
	}

	if input.Name != nil {
		name := sanitize(*input.Name, 100)
		if name != "" && !strings.EqualFold(name, skill.Name) {
			if _, err := s.skills.GetByName(ctx, name); err == nil {
				return nil, apperrors.NewConflict("a skill with this name already exists", map[string]any{"name": name})
			} else if err != pgx.ErrNoRows {
				return nil, apperrors.MapError(err)
			}
			skill.Name = name
		} else if name != "" {
			skill.Name = name
		}
	}
	if input.Description != nil {
		description := sanitize(*input.Description, 500)
		skill.Description = &description
	}
	if input.Category != nil {
		category := sanitize(*input.Category, 50)
		skill.Category = &category
	}

	skill.Status = domain.SkillStatusPendingReview
	skill.RejectionReason = nil

	if err := s.skills.Update(ctx, skill); err != nil {
		return nil, apperrors.MapError(err)
	}
	return skill, nil
}

// Delete removes a catalog entry; creator or admin only.
func (s *SkillService) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("skill", nil)
		}
		return apperrors.MapError(err)
	}
	if !access.CanMutateSkill(actorID, isAdmin, skill) {
		return apperrors.NewForbidden("you can only delete skills you created")
	}
	if err := s.skills.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Categories returns the sorted distinct categories of approved skills.
func (s *SkillService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.skills.Categories(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

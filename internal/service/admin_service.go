package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/repository"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

// AdminService exposes the moderation and reporting surface.
type AdminService struct {
	users  repository.UserRepository
	swaps  repository.SwapRequestRepository
	skills repository.SkillRepository
}

// AdminDependencies bundles repositories for the admin service.
type AdminDependencies struct {
	UserRepo  repository.UserRepository
	SwapRepo  repository.SwapRequestRepository
	SkillRepo repository.SkillRepository
}

// PlatformStats aggregates platform-wide counters.
type PlatformStats struct {
	Users       repository.UserCounts
	SkillCounts map[domain.SkillStatus]int64
	SwapCounts  map[domain.SwapStatus]int64
	TotalSkills int64
	TotalSwaps  int64
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{users: deps.UserRepo, swaps: deps.SwapRepo, skills: deps.SkillRepo}
}

// Stats gathers user, skill and swap-request totals.
func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	userCounts, err := s.users.Counts(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	skillCounts, err := s.skills.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	swapCounts, err := s.swaps.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &PlatformStats{
		Users:       userCounts,
		SkillCounts: skillCounts,
		SwapCounts:  swapCounts,
	}
	for _, count := range skillCounts {
		stats.TotalSkills += count
	}
	for _, count := range swapCounts {
		stats.TotalSwaps += count
	}
	return stats, nil
}

// ListUsers returns all accounts, including private and banned ones.
func (s *AdminService) ListUsers(ctx context.Context, search *string, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, repository.UserFilter{
		SearchTerm: search,
		OnlyPublic: false,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// BanUser marks the account banned with a required reason.
func (s *AdminService) BanUser(ctx context.Context, userID, reason string) error {
	reason = sanitize(reason, 500)
	if reason == "" {
		return apperrors.NewValidationError("ban reason is required", nil)
	}
	if err := s.users.SetBan(ctx, userID, true, &reason); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// UnbanUser clears the ban flag and reason.
func (s *AdminService) UnbanUser(ctx context.Context, userID string) error {
	if err := s.users.SetBan(ctx, userID, false, nil); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// PendingSkills lists catalog entries awaiting moderation.
func (s *AdminService) PendingSkills(ctx context.Context, limit, offset int) ([]domain.Skill, error) {
	pending := domain.SkillStatusPendingReview
	skills, err := s.skills.List(ctx, repository.SkillFilter{Status: &pending, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return skills, nil
}

// ApproveSkill moves a pending catalog entry to APPROVED.
func (s *AdminService) ApproveSkill(ctx context.Context, skillID string) error {
	if err := s.skills.SetStatus(ctx, skillID, domain.SkillStatusApproved, nil); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("skill", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// RejectSkill moves a pending catalog entry to REJECTED with a required reason.
func (s *AdminService) RejectSkill(ctx context.Context, skillID, reason string) error {
	reason = sanitize(reason, 500)
	if reason == "" {
		return apperrors.NewValidationError("rejection reason is required", nil)
	}
	if err := s.skills.SetStatus(ctx, skillID, domain.SkillStatusRejected, &reason); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("skill", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListAllRequests returns swap requests across the whole platform.
func (s *AdminService) ListAllRequests(ctx context.Context, status *domain.SwapStatus, limit, offset int) ([]domain.SwapRequest, error) {
	reqs, err := s.swaps.List(ctx, repository.SwapRequestFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reqs, nil
}

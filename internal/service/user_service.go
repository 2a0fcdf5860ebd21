package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/skillswap-service/internal/access"
	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/repository"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

const skillsDirectoryCacheKey = "skillswap:skills_directory"

// UserService serves the public member directory.
type UserService struct {
	users    repository.UserRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewUserService builds the service. cache may be nil; the directory then
// recomputes on every call.
func NewUserService(users repository.UserRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{users: users, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// DirectoryFilter captures optional directory filters.
type DirectoryFilter struct {
	Skill      *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// ListPublicUsers returns visible profiles, excluding the denied ones rather
// than partially redacting them.
func (s *UserService) ListPublicUsers(ctx context.Context, filter DirectoryFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, repository.UserFilter{
		Skill:      filter.Skill,
		SearchTerm: filter.SearchTerm,
		OnlyPublic: true,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetViewableUser returns a profile the actor is allowed to see. Private and
// banned profiles read as not found to anyone but their owner.
func (s *UserService) GetViewableUser(ctx context.Context, actorID, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !access.CanViewProfile(actorID, user) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return user, nil
}

// SkillsDirectory returns the sorted union of all skills offered or wanted by
// visible profiles. The result is cached in Redis for a short TTL.
func (s *UserService) SkillsDirectory(ctx context.Context) ([]string, error) {
	if cached := s.cachedSkills(ctx); cached != nil {
		return cached, nil
	}

	users, err := s.users.List(ctx, repository.UserFilter{OnlyPublic: true, Limit: 1000})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	seen := make(map[string]struct{})
	for _, user := range users {
		for _, skill := range user.SkillsOffered {
			seen[skill] = struct{}{}
		}
		for _, skill := range user.SkillsWanted {
			seen[skill] = struct{}{}
		}
	}
	skills := make([]string, 0, len(seen))
	for skill := range seen {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	s.storeSkills(ctx, skills)
	return skills, nil
}

// InvalidateSkillsDirectory drops the cached directory after a profile change.
func (s *UserService) InvalidateSkillsDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, skillsDirectoryCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate skills cache", zap.Error(err))
	}
}

func (s *UserService) cachedSkills(ctx context.Context) []string {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, skillsDirectoryCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("skills cache read failed", zap.Error(err))
		}
		return nil
	}
	var skills []string
	if err := json.Unmarshal(raw, &skills); err != nil {
		return nil
	}
	return skills
}

func (s *UserService) storeSkills(ctx context.Context, skills []string) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(skills)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, skillsDirectoryCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("skills cache write failed", zap.Error(err))
	}
}

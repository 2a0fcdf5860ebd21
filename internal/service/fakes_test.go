package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/repository"
)

// In-memory repositories mirroring the Postgres behavior the services rely
// on, including the compare-and-swap semantics of TransitionStatus.

type fakeUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if filter.OnlyPublic && !user.Visible() {
			continue
		}
		if filter.Skill != nil && !containsSkill(user, *filter.Skill) {
			continue
		}
		if filter.SearchTerm != nil &&
			!strings.Contains(strings.ToLower(user.Name), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeUserRepo) SetBan(_ context.Context, id string, banned bool, reason *string) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsBanned = banned
	user.BanReason = reason
	return nil
}

func (r *fakeUserRepo) Counts(_ context.Context) (repository.UserCounts, error) {
	counts := repository.UserCounts{}
	for _, user := range r.users {
		counts.Total++
		if user.IsBanned {
			counts.Banned++
		} else {
			counts.Active++
		}
	}
	return counts, nil
}

func containsSkill(user *domain.User, skill string) bool {
	for _, s := range user.SkillsOffered {
		if s == skill {
			return true
		}
	}
	for _, s := range user.SkillsWanted {
		if s == skill {
			return true
		}
	}
	return false
}

type fakeSwapRepo struct {
	seq  int
	reqs map[string]*domain.SwapRequest
}

func newFakeSwapRepo() *fakeSwapRepo {
	return &fakeSwapRepo{reqs: map[string]*domain.SwapRequest{}}
}

func (r *fakeSwapRepo) Create(_ context.Context, req *domain.SwapRequest) error {
	r.seq++
	req.ID = fmt.Sprintf("swap-%d", r.seq)
	req.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	req.UpdatedAt = req.CreatedAt
	stored := *req
	r.reqs[req.ID] = &stored
	return nil
}

func (r *fakeSwapRepo) GetByID(_ context.Context, id string) (*domain.SwapRequest, error) {
	req, ok := r.reqs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (r *fakeSwapRepo) List(_ context.Context, filter repository.SwapRequestFilter) ([]domain.SwapRequest, error) {
	var result []domain.SwapRequest
	for _, req := range r.reqs {
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.ReceiverID != nil && req.ReceiverID != *filter.ReceiverID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		result = append(result, *req)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeSwapRepo) HasPairWithStatus(_ context.Context, requesterID, receiverID, skillOffered, skillWanted string, status domain.SwapStatus) (bool, error) {
	for _, req := range r.reqs {
		if req.RequesterID == requesterID && req.ReceiverID == receiverID &&
			req.SkillOffered == skillOffered && req.SkillWanted == skillWanted &&
			req.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSwapRepo) TransitionStatus(_ context.Context, req *domain.SwapRequest, next domain.SwapStatus, acceptanceMessage *string) error {
	stored, ok := r.reqs[req.ID]
	if !ok || stored.Status != domain.SwapStatusPending {
		return pgx.ErrNoRows
	}
	stored.Status = next
	if acceptanceMessage != nil {
		stored.AcceptanceMessage = acceptanceMessage
	}
	stored.UpdatedAt = time.Now()
	req.Status = next
	req.AcceptanceMessage = stored.AcceptanceMessage
	req.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakeSwapRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.reqs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.reqs, id)
	return nil
}

func (r *fakeSwapRepo) CountByStatus(_ context.Context) (map[domain.SwapStatus]int64, error) {
	counts := make(map[domain.SwapStatus]int64)
	for _, req := range r.reqs {
		counts[req.Status]++
	}
	return counts, nil
}

type fakeSkillRepo struct {
	seq    int
	skills map[string]*domain.Skill
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{skills: map[string]*domain.Skill{}}
}

func (r *fakeSkillRepo) Create(_ context.Context, skill *domain.Skill) error {
	r.seq++
	skill.ID = fmt.Sprintf("skill-%d", r.seq)
	skill.CreatedAt = time.Now()
	skill.UpdatedAt = skill.CreatedAt
	stored := *skill
	r.skills[skill.ID] = &stored
	return nil
}

func (r *fakeSkillRepo) Update(_ context.Context, skill *domain.Skill) error {
	if _, ok := r.skills[skill.ID]; !ok {
		return pgx.ErrNoRows
	}
	skill.UpdatedAt = time.Now()
	stored := *skill
	r.skills[skill.ID] = &stored
	return nil
}

func (r *fakeSkillRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.skills[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.skills, id)
	return nil
}

func (r *fakeSkillRepo) Categories(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for _, skill := range r.skills {
		if skill.Status != domain.SkillStatusApproved || skill.Category == nil || *skill.Category == "" {
			continue
		}
		seen[*skill.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *fakeSkillRepo) GetByID(_ context.Context, id string) (*domain.Skill, error) {
	skill, ok := r.skills[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *skill
	return &copied, nil
}

func (r *fakeSkillRepo) GetByName(_ context.Context, name string) (*domain.Skill, error) {
	for _, skill := range r.skills {
		if strings.EqualFold(skill.Name, name) {
			copied := *skill
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeSkillRepo) List(_ context.Context, filter repository.SkillFilter) ([]domain.Skill, error) {
	var result []domain.Skill
	for _, skill := range r.skills {
		if filter.Status != nil && skill.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && (skill.Category == nil || *skill.Category != *filter.Category) {
			continue
		}
		result = append(result, *skill)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeSkillRepo) SetStatus(_ context.Context, id string, status domain.SkillStatus, rejectionReason *string) error {
	skill, ok := r.skills[id]
	if !ok {
		return pgx.ErrNoRows
	}
	skill.Status = status
	skill.RejectionReason = rejectionReason
	return nil
}

func (r *fakeSkillRepo) CountByStatus(_ context.Context) (map[domain.SkillStatus]int64, error) {
	counts := make(map[domain.SkillStatus]int64)
	for _, skill := range r.skills {
		counts[skill.Status]++
	}
	return counts, nil
}

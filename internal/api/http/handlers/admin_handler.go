package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/skillswap-service/internal/api/dto"
	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/service"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

// AdminHandler exposes the moderation surface.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.Context())
	if err != nil {
		return err
	}

	var resp dto.StatsResponse
	resp.Users.Total = stats.Users.Total
	resp.Users.Active = stats.Users.Active
	resp.Users.Banned = stats.Users.Banned
	resp.Skills.Total = stats.TotalSkills
	resp.Skills.Approved = stats.SkillCounts[domain.SkillStatusApproved]
	resp.Skills.Pending = stats.SkillCounts[domain.SkillStatusPendingReview]
	resp.Skills.Rejected = stats.SkillCounts[domain.SkillStatusRejected]
	resp.SwapRequests.Total = stats.TotalSwaps
	resp.SwapRequests.Pending = stats.SwapCounts[domain.SwapStatusPending]
	resp.SwapRequests.Accepted = stats.SwapCounts[domain.SwapStatusAccepted]
	resp.SwapRequests.Rejected = stats.SwapCounts[domain.SwapStatusRejected]
	resp.SwapRequests.Cancelled = stats.SwapCounts[domain.SwapStatusCancelled]

	return c.JSON(fiber.Map{"data": resp})
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var search *string
	if v := c.Query("search"); v != "" {
		search = &v
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("per_page"), 20)

	users, err := h.admin.ListUsers(c.Context(), search, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}

	items := make([]dto.AdminUser, 0, len(users))
	for i := range users {
		items = append(items, dto.AdminUser{
			UserProfile: userProfile(&users[i]),
			IsBanned:    users[i].IsBanned,
			BanReason:   users[i].BanReason,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"users": items,
		"pagination": fiber.Map{
			"page":     page,
			"per_page": pageSize,
		},
	}})
}

// BanUser handles POST /api/admin/users/:id/ban.
func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	var req dto.BanUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.admin.BanUser(c.Context(), c.Params("id"), req.Reason); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "user banned"}})
}

// UnbanUser handles POST /api/admin/users/:id/unban.
func (h *AdminHandler) UnbanUser(c *fiber.Ctx) error {
	if err := h.admin.UnbanUser(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "user unbanned"}})
}

// PendingSkills handles GET /api/admin/skills/pending.
func (h *AdminHandler) PendingSkills(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("per_page"), 50)

	skills, err := h.admin.PendingSkills(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": skillResponses(skills)})
}

// ApproveSkill handles POST /api/admin/skills/:id/approve.
func (h *AdminHandler) ApproveSkill(c *fiber.Ctx) error {
	if err := h.admin.ApproveSkill(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "skill approved"}})
}

// RejectSkill handles POST /api/admin/skills/:id/reject.
func (h *AdminHandler) RejectSkill(c *fiber.Ctx) error {
	var req dto.RejectSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.admin.RejectSkill(c.Context(), c.Params("id"), req.Reason); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "skill rejected"}})
}

// ListRequests handles GET /api/admin/requests.
func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	var status *domain.SwapStatus
	if v := c.Query("status"); v != "" {
		s := domain.SwapStatus(v)
		status = &s
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("per_page"), 50)

	reqs, err := h.admin.ListAllRequests(c.Context(), status, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": swapResponses(reqs)})
}

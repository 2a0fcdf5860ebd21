package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/skillswap-service/internal/api/dto"
	"github.com/spec-kit/skillswap-service/internal/auth"
	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/service"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

// SkillsHandler serves the moderated skill catalog.
type SkillsHandler struct {
	skills *service.SkillService
}

// NewSkillsHandler constructs handler.
func NewSkillsHandler(skillService *service.SkillService) *SkillsHandler {
	return &SkillsHandler{skills: skillService}
}

// List handles GET /api/skills.
func (h *SkillsHandler) List(c *fiber.Ctx) error {
	var category, search *string
	if v := c.Query("category"); v != "" {
		category = &v
	}
	if v := c.Query("search"); v != "" {
		search = &v
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 100)

	skills, err := h.skills.ListApproved(c.Context(), category, search, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": skillResponses(skills)})
}

// Submit handles POST /api/skills.
func (h *SkillsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubmitSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	skill, err := h.skills.Submit(c.Context(), principal.User.ID, service.SkillSubmitInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": skillResponse(skill)})
}

// Get handles GET /api/skills/:id.
func (h *SkillsHandler) Get(c *fiber.Ctx) error {
	skill, err := h.skills.GetApproved(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": skillResponse(skill)})
}

// Update handles PUT /api/skills/:id.
func (h *SkillsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	skill, err := h.skills.Update(c.Context(), principal.User.ID, principal.IsAdmin, c.Params("id"), service.SkillUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": skillResponse(skill)})
}

// Delete handles DELETE /api/skills/:id.
func (h *SkillsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.skills.Delete(c.Context(), principal.User.ID, principal.IsAdmin, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "skill deleted"}})
}

// Categories handles GET /api/skills/categories.
func (h *SkillsHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.skills.Categories(c.Context())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(fiber.Map{"data": categories})
}

func skillResponse(skill *domain.Skill) dto.SkillResponse {
	return dto.SkillResponse{
		ID:              skill.ID,
		Name:            skill.Name,
		Description:     skill.Description,
		Category:        skill.Category,
		Status:          skill.Status,
		RejectionReason: skill.RejectionReason,
		CreatedAt:       skill.CreatedAt,
		UpdatedAt:       skill.UpdatedAt,
	}
}

func skillResponses(skills []domain.Skill) []dto.SkillResponse {
	items := make([]dto.SkillResponse, 0, len(skills))
	for i := range skills {
		items = append(items, skillResponse(&skills[i]))
	}
	return items
}

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

// SwapRequestsHandler manages swap-request endpoints.
type SwapRequestsHandler struct {
	swaps *service.SwapService
}

// NewSwapRequestsHandler constructs handler.
func NewSwapRequestsHandler(swapService *service.SwapService) *SwapRequestsHandler {
	return &SwapRequestsHandler{swaps: swapService}
}

// Create handles POST /api/swap-requests.
func (h *SwapRequestsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateSwapRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	created, err := h.swaps.Create(c.Context(), principal.User.ID, service.SwapCreateInput{
		ReceiverID:   req.ReceiverID,
		SkillOffered: req.SkillOffered,
		SkillWanted:  req.SkillWanted,
		Message:      req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": swapResponse(created)})
}

// ListSent handles GET /api/swap-requests/my-requests.
func (h *SwapRequestsHandler) ListSent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reqs, err := h.swaps.ListSent(c.Context(), principal.User.ID, parseSwapQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": swapResponses(reqs)})
}

// ListReceived handles GET /api/swap-requests/received.
func (h *SwapRequestsHandler) ListReceived(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reqs, err := h.swaps.ListReceived(c.Context(), principal.User.ID, parseSwapQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": swapResponses(reqs)})
}

// Get handles GET /api/swap-requests/:id.
func (h *SwapRequestsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	req, err := h.swaps.Get(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": swapResponse(req)})
}

// UpdateStatus handles PUT /api/swap-requests/:id.
func (h *SwapRequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateSwapRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status is required", nil)
	}

	updated, err := h.swaps.UpdateStatus(c.Context(), principal.User.ID, c.Params("id"), req.Status, req.AcceptanceMessage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": swapResponse(updated)})
}

// Delete handles DELETE /api/swap-requests/:id.
func (h *SwapRequestsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.swaps.Delete(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "swap request deleted"}})
}

func parseSwapQuery(c *fiber.Ctx) service.SwapListFilter {
	filter := service.SwapListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.SwapStatus(statusStr)
		filter.Status = &status
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func swapResponse(req *domain.SwapRequest) dto.SwapRequestResponse {
	return dto.SwapRequestResponse{
		ID:                req.ID,
		RequesterID:       req.RequesterID,
		ReceiverID:        req.ReceiverID,
		SkillOffered:      req.SkillOffered,
		SkillWanted:       req.SkillWanted,
		Message:           req.Message,
		AcceptanceMessage: req.AcceptanceMessage,
		Status:            req.Status,
		CreatedAt:         req.CreatedAt,
		UpdatedAt:         req.UpdatedAt,
	}
}

func swapResponses(reqs []domain.SwapRequest) []dto.SwapRequestResponse {
	items := make([]dto.SwapRequestResponse, 0, len(reqs))
	for i := range reqs {
		items = append(items, swapResponse(&reqs[i]))
	}
	return items
}

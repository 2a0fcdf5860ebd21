package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/skillswap-service/internal/api/dto"
	"github.com/spec-kit/skillswap-service/internal/auth"
	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/service"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

// UsersHandler serves the public member directory.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	filter := service.DirectoryFilter{}
	if skill := c.Query("skill"); skill != "" {
		filter.Skill = &skill
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	users, err := h.users.ListPublicUsers(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.PublicUser, 0, len(users))
	for i := range users {
		items = append(items, publicUser(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.users.GetViewableUser(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": publicUser(user)})
}

// SkillsDirectory handles GET /api/users/skills.
func (h *UsersHandler) SkillsDirectory(c *fiber.Ctx) error {
	skills, err := h.users.SkillsDirectory(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": skills})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func publicUser(user *domain.User) dto.PublicUser {
	return dto.PublicUser{
		ID:            user.ID,
		Name:          user.Name,
		Location:      user.Location,
		ProfilePhoto:  user.ProfilePhoto,
		Availability:  user.Availability,
		SkillsOffered: user.SkillsOffered,
		SkillsWanted:  user.SkillsWanted,
		CreatedAt:     user.CreatedAt,
	}
}

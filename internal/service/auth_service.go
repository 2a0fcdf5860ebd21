package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/skillswap-service/internal/auth"
	"github.com/spec-kit/skillswap-service/internal/config"
	"github.com/spec-kit/skillswap-service/internal/domain"
	"github.com/spec-kit/skillswap-service/internal/events"
	"github.com/spec-kit/skillswap-service/internal/repository"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and credential flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// RegisterInput describes the registration payload.
type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	Location      *string
	Availability  string
	SkillsOffered []string
	SkillsWanted  []string
}

// ProfileUpdateInput carries a partial profile update. Nil fields are left
// untouched.
type ProfileUpdateInput struct {
	Name          *string
	Email         *string
	Location      *string
	ProfilePhoto  *string
	Availability  *string
	SkillsOffered []string
	SkillsWanted  []string
	IsPublic      *bool
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account and issues a token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	name := sanitize(input.Name, 100)
	email := strings.ToLower(sanitize(input.Email, 120))

	if name == "" || email == "" || input.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if !validEmail(email) {
		return nil, "", time.Time{}, apperrors.NewValidationError("please enter a valid email address", nil)
	}
	if !validPassword(input.Password) {
		return nil, "", time.Time{}, apperrors.NewValidationError("password must be at least 6 characters long", nil)
	}

	offered := normalizeSkills(input.SkillsOffered)
	wanted := normalizeSkills(input.SkillsWanted)
	if len(offered) == 0 {
		return nil, "", time.Time{}, apperrors.NewValidationError("at least one skill offered is required", nil)
	}
	if len(wanted) == 0 {
		return nil, "", time.Time{}, apperrors.NewValidationError("at least one skill wanted is required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewDuplicateEmail(email)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	availability := sanitize(input.Availability, 50)
	if availability == "" {
		availability = domain.DefaultAvailability
	}

	user := &domain.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Location:      input.Location,
		Availability:  availability,
		SkillsOffered: offered,
		SkillsWanted:  wanted,
		IsPublic:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the lookup above;
		// the loser hits the unique index on email.
		if isUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewDuplicateEmail(email)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventUserRegistered,
		ActorID: user.ID,
		Payload: events.UserRegisteredPayload{UserID: user.ID, Email: user.Email},
	})
	return user, token, exp, nil
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if user.IsBanned {
		reason := ""
		if user.BanReason != nil {
			reason = *user.BanReason
		}
		return nil, "", time.Time{}, apperrors.NewForbidden("account is banned: " + reason)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Logout no-ops for the stateless JWT approach; clients drop the token.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// GetProfile returns the caller's own record.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own record. Only
// supplied fields change; an empty update returns the record unchanged.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if input.Name != nil {
		if name := sanitize(*input.Name, 100); name != "" {
			user.Name = name
		}
	}
	if input.Email != nil {
		email := strings.ToLower(sanitize(*input.Email, 120))
		if email != user.Email {
			if !validEmail(email) {
				return nil, apperrors.NewValidationError("please enter a valid email address", nil)
			}
			existing, err := s.users.GetByEmail(ctx, email)
			if err == nil && existing.ID != user.ID {
				return nil, apperrors.NewDuplicateEmail(email)
			}
			if err != nil && err != pgx.ErrNoRows {
				return nil, apperrors.MapError(err)
			}
			user.Email = email
		}
	}
	if input.Location != nil {
		location := sanitize(*input.Location, 100)
		user.Location = &location
	}
	if input.ProfilePhoto != nil {
		photo := sanitize(*input.ProfilePhoto, 255)
		user.ProfilePhoto = &photo
	}
	if input.Availability != nil {
		if availability := sanitize(*input.Availability, 50); availability != "" {
			user.Availability = availability
		}
	}
	if input.SkillsOffered != nil {
		user.SkillsOffered = normalizeSkills(input.SkillsOffered)
	}
	if input.SkillsWanted != nil {
		user.SkillsWanted = normalizeSkills(input.SkillsWanted)
	}
	if input.IsPublic != nil {
		user.IsPublic = *input.IsPublic
	}

	if err := s.users.Update(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewDuplicateEmail(user.Email)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// isUniqueViolation reports whether the error is a Postgres unique-index
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.NewValidationError("current password and new password are required", nil)
	}
	if !validPassword(newPassword) {
		return apperrors.NewValidationError("new password must be at least 6 characters long", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

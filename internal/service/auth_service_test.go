package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/skillswap-service/internal/config"
	"github.com/spec-kit/skillswap-service/internal/domain"
	apperrors "github.com/spec-kit/skillswap-service/pkg/util/errorutil"
)

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		},
	}
}

func newTestAuthService(users *fakeUserRepo) *AuthService {
	return NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users})
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a DomainError, got %v", err)
	return domainErr.Code
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:          "Alice",
		Email:         "alice@example.com",
		Password:      "secret1",
		SkillsOffered: []string{"Photoshop"},
		SkillsWanted:  []string{"Excel"},
	}
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(newFakeUserRepo())

	user, token, exp, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.DefaultAvailability, user.Availability)
	assert.True(t, user.IsPublic)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
}

func TestRegisterNormalizesEmailAndSkills(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(newFakeUserRepo())

	input := validRegisterInput()
	input.Email = "  Alice@Example.COM "
	input.SkillsOffered = []string{" Photoshop ", "Photoshop", ""}

	user, _, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, []string{"Photoshop"}, user.SkillsOffered)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"invalid email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "12345" }},
		{"no skills offered", func(in *RegisterInput) { in.SkillsOffered = nil }},
		{"no skills wanted", func(in *RegisterInput) { in.SkillsWanted = []string{"  "} }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestAuthService(newFakeUserRepo())
			input := validRegisterInput()
			tc.mutate(&input)

			_, _, _, err := svc.Register(context.Background(), input)
			assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(newFakeUserRepo())

	_, _, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	input := validRegisterInput()
	input.Email = "ALICE@example.com"
	_, _, _, err = svc.Register(context.Background(), input)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, err))
}

// collidingUserRepo simulates losing a concurrent registration race: the
// pre-insert lookup finds nothing, but the insert itself hits the unique
// index on email.
type collidingUserRepo struct {
	*fakeUserRepo
}

func (r *collidingUserRepo) Create(context.Context, *domain.User) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
}

func TestRegisterConcurrentDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo: &collidingUserRepo{fakeUserRepo: newFakeUserRepo()},
	})

	_, _, _, err := svc.Register(context.Background(), validRegisterInput())
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, err))
}

func TestLogin(t *testing.T) {
	t.Parallel()
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	registered, _, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		user, token, _, err := svc.Login(context.Background(), "alice@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret1")
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, err))
	})

	t.Run("banned account", func(t *testing.T) {
		reason := "spam"
		require.NoError(t, users.SetBan(context.Background(), registered.ID, true, &reason))
		_, _, _, err := svc.Login(context.Background(), "alice@example.com", "secret1")
		assert.Equal(t, "FORBIDDEN", errorCode(t, err))
		require.NoError(t, users.SetBan(context.Background(), registered.ID, false, nil))
	})
}

func TestUpdateProfilePartial(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(newFakeUserRepo())

	user, _, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	name := "Alice B"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdateInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, user.SkillsOffered, updated.SkillsOffered)
}

func TestUpdateProfileEmptyInputIsNoOp(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(newFakeUserRepo())

	user, _, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, user.Name, updated.Name)
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, user.IsPublic, updated.IsPublic)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(newFakeUserRepo())

	_, _, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	second := validRegisterInput()
	second.Email = "bob@example.com"
	bob, _, _, err := svc.Register(context.Background(), second)
	require.NoError(t, err)

	taken := "alice@example.com"
	_, err = svc.UpdateProfile(context.Background(), bob.ID, ProfileUpdateInput{Email: &taken})
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, err))
}

func TestUpdateProfileVisibilityToggle(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(newFakeUserRepo())

	user, _, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	private := false
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdateInput{IsPublic: &private})
	require.NoError(t, err)
	assert.False(t, updated.IsPublic)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(newFakeUserRepo())

	user, _, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newsecret")
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, err))
	})

	t.Run("short new password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), user.ID, "secret1", "tiny")
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "secret1", "newsecret"))

		_, _, _, err := svc.Login(context.Background(), "alice@example.com", "newsecret")
		assert.NoError(t, err)
		_, _, _, err = svc.Login(context.Background(), "alice@example.com", "secret1")
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, err))
	})
}

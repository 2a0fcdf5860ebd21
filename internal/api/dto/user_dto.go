package dto

import "time"

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	Location      *string  `json:"location"`
	Availability  string   `json:"availability"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UpdateProfileRequest carries a partial profile update. Absent fields are
// left untouched; slices replace the stored set wholesale.
type UpdateProfileRequest struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	Location      *string  `json:"location"`
	ProfilePhoto  *string  `json:"profile_photo"`
	Availability  *string  `json:"availability"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
	IsPublic      *bool    `json:"is_public"`
}

// ChangePasswordRequest rotates the credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserProfile is the owner's view of their own record.
type UserProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Location      *string   `json:"location"`
	ProfilePhoto  *string   `json:"profile_photo"`
	Availability  string    `json:"availability"`
	SkillsOffered []string  `json:"skills_offered"`
	SkillsWanted  []string  `json:"skills_wanted"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PublicUser is the directory view of another member. Email is withheld.
type PublicUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Location      *string   `json:"location"`
	ProfilePhoto  *string   `json:"profile_photo"`
	Availability  string    `json:"availability"`
	SkillsOffered []string  `json:"skills_offered"`
	SkillsWanted  []string  `json:"skills_wanted"`
	CreatedAt     time.Time `json:"created_at"`
}

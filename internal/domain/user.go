package domain

import "time"

// DefaultAvailability is assigned when a registering user does not state one.
const DefaultAvailability = "Weekdays"

// User is the domain model for platform members and their skill profiles.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Location      *string
	ProfilePhoto  *string
	Availability  string
	SkillsOffered []string
	SkillsWanted  []string
	IsPublic      bool
	IsBanned      bool
	BanReason     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Visible reports whether the profile is listed in the public directory.
func (u *User) Visible() bool {
	return u.IsPublic && !u.IsBanned
}

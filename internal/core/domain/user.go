package domain

import "time"

// CollectionProfiles is the data service collection holding console user profiles.
const CollectionProfiles = "profiles"

// MinPasswordLength is the shortest password the console accepts.
const MinPasswordLength = 6

// Defaults applied when a missing profile row has to be recreated.
const (
	DefaultProfileRole     = "viewer"
	DefaultProfileCategory = "user"
)

// Profile represents a console user in the profiles collection. Email is the
// immutable lookup key; the password lives with the identity service.
type Profile struct {
	ID        string     `json:"id" mapstructure:"id"`
	Name      string     `json:"name" mapstructure:"name"`
	Email     string     `json:"email" mapstructure:"email"`
	Role      string     `json:"role,omitempty" mapstructure:"role"`
	Category  string     `json:"category,omitempty" mapstructure:"category"`
	Active    bool       `json:"active" mapstructure:"active"`
	CreatedAt *time.Time `json:"created_at,omitempty" mapstructure:"created_at"`
}

// ProfileDraft is the account settings form. The password pair is only ever
// set through field updates and is never serialised back to clients.
type ProfileDraft struct {
	ID              string `json:"id,omitempty" mapstructure:"id"`
	Name            string `json:"name" mapstructure:"name"`
	Email           string `json:"email" mapstructure:"email"`
	NewPassword     string `json:"-" mapstructure:"new_password"`
	ConfirmPassword string `json:"-" mapstructure:"confirm_password"`
}

// PasswordChangeRequested is false when both password fields are empty.
func (d ProfileDraft) PasswordChangeRequested() bool {
	return d.NewPassword != "" || d.ConfirmPassword != ""
}

// RecoveryRecord is the row inserted when no profile matches the email.
func (d ProfileDraft) RecoveryRecord() Record {
	return Record{
		"email":    d.Email,
		"name":     d.Name,
		"role":     DefaultProfileRole,
		"category": DefaultProfileCategory,
		"active":   true,
	}
}

// Session identifies a signed-in console user.
type Session struct {
	UserID      string    `json:"userID"`
	Email       string    `json:"email"`
	AccessToken string    `json:"-"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

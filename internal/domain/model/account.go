package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minPasswordLen     = 8
	maxDisplayNameLen  = 120
	maxAvatarURLLength = 2048
)

// Account is a registered portal user. PasswordHash is nil for accounts
// created through Google sign-in.
type Account struct {
	ID           string    `json:"id"                     db:"id"`
	Email        string    `json:"email"                  db:"email"`
	PasswordHash *string   `json:"-"                      db:"password_hash"`
	DisplayName  string    `json:"display_name"           db:"display_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"   db:"avatar_url"`
	Provider     string    `json:"provider"               db:"provider"`
	CreatedAt    time.Time `json:"created_at"             db:"created_at"`
}

// CreateAccountRequest represents parameters for email/password sign-up.
type CreateAccountRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Validate validates CreateAccountRequest.
func (r *CreateAccountRequest) Validate() error {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return errors.New("email must be an email address")
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.DisplayName)) > maxDisplayNameLen {
		return errors.New("display_name cannot exceed 120 characters")
	}
	return nil
}

// UpdateProfileRequest is a partial patch over the mutable profile fields.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// HasUpdates reports whether any field is set.
func (r *UpdateProfileRequest) HasUpdates() bool {
	return r.DisplayName != nil || r.AvatarURL != nil
}

// Validate validates UpdateProfileRequest, ensuring at least one field is set
// and values are sane.
func (r *UpdateProfileRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.DisplayName != nil && utf8.RuneCountInString(strings.TrimSpace(*r.DisplayName)) > maxDisplayNameLen {
		return errors.New("display_name cannot exceed 120 characters")
	}
	if r.AvatarURL != nil && len(*r.AvatarURL) > maxAvatarURLLength {
		return errors.New("avatar_url is too long")
	}
	return nil
}

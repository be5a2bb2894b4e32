//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"

	domainauth "github.com/target/mmk-backoffice/internal/domain/auth"
)

// CreateAdminRequest creates a back-office admin account.
type CreateAdminRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Name     string          `json:"name"`
	Role     domainauth.Role `json:"role"`
}

// Normalize trims whitespace and defaults the role to support.
func (r *CreateAdminRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	if r.Role == "" {
		r.Role = domainauth.RoleSupport
	}
}

// Validate checks required fields.
func (r *CreateAdminRequest) Validate() error {
	if r.Name == "" || r.Email == "" {
		return errors.New("name and email are required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if !r.Role.Valid() {
		return errors.New("role must be super_admin or support")
	}
	return nil
}

// UpdateAdminRequest edits an admin account. Password is only sent when set.
type UpdateAdminRequest struct {
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     domainauth.Role `json:"role"`
	Password string          `json:"password,omitempty"`
}

// Normalize trims whitespace.
func (r *UpdateAdminRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks required fields.
func (r *UpdateAdminRequest) Validate() error {
	if r.Name == "" || r.Email == "" {
		return errors.New("name and email are required")
	}
	if !r.Role.Valid() {
		return errors.New("role must be super_admin or support")
	}
	return nil
}

// LoginRequest carries an operator's credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the credential and principal issued on successful login.
type LoginResult struct {
	Token domainauth.Credential `json:"token"`
	Admin domainauth.Principal  `json:"admin"`
}

package adminlist

// Package adminlist implements the administrator authorization policy: a
// fixed allow-list of administrator email addresses, loaded from
// configuration so it can be audited and changed without a code change.

import (
	domainauth "github.com/samprabha/portal/internal/domain/auth"
)

// EmailRoleMapper grants RoleAdmin to emails on the allow-list and RoleUser
// to everyone else. Matching is exact (case-sensitive); email providers are
// expected to hand back canonical addresses.
type EmailRoleMapper struct {
	admins map[string]struct{}
}

// NewEmailRoleMapper builds a mapper from the configured allow-list.
func NewEmailRoleMapper(adminEmails []string) *EmailRoleMapper {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e != "" {
			admins[e] = struct{}{}
		}
	}
	return &EmailRoleMapper{admins: admins}
}

// Map returns the role for the given email. The empty email is never admin.
func (m *EmailRoleMapper) Map(email string) domainauth.Role {
	if email == "" {
		return domainauth.RoleUser
	}
	if _, ok := m.admins[email]; ok {
		return domainauth.RoleAdmin
	}
	return domainauth.RoleUser
}

// IsAdmin reports whether the email is on the allow-list. Provided for
// callers that want the boolean without mapping to a role.
func (m *EmailRoleMapper) IsAdmin(email string) bool {
	return m.Map(email) == domainauth.RoleAdmin
}

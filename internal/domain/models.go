package domain

import (
	"slices"
	"strings"
	"time"
)

type Permission string

const (
	PermissionCreate Permission = "create"
	PermissionRead   Permission = "read"
	PermissionUpdate Permission = "update"
	PermissionDelete Permission = "delete"
)

// AllPermissions is the closed permission catalog in display order.
var AllPermissions = []Permission{PermissionCreate, PermissionRead, PermissionUpdate, PermissionDelete}

func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllPermissions, p) {
		return "", Invalid("unknown permission %q", s)
	}
	return p, nil
}

// NormalizePermissions deduplicates perms and returns them in catalog order.
func NormalizePermissions(perms []Permission) []Permission {
	out := make([]Permission, 0, len(perms))
	for _, p := range AllPermissions {
		if slices.Contains(perms, p) {
			out = append(out, p)
		}
	}
	return out
}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func ParseStatus(s string) (Status, error) {
	switch {
	case strings.EqualFold(s, string(StatusActive)):
		return StatusActive, nil
	case strings.EqualFold(s, string(StatusInactive)):
		return StatusInactive, nil
	default:
		return "", Invalid("unknown status %q", s)
	}
}

type Role struct {
	ID          int64        `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Permissions []Permission `json:"permissions" yaml:"permissions"`
	CreatedAt   time.Time    `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time    `json:"updated_at" yaml:"-"`
}

func (r Role) Has(p Permission) bool {
	return slices.Contains(r.Permissions, p)
}

type User struct {
	ID         int64     `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Email      string    `json:"email" yaml:"email"`
	RoleID     int64     `json:"role_id" yaml:"role_id"`
	Status     Status    `json:"status" yaml:"status"`
	LastActive time.Time `json:"last_active" yaml:"last_active"`
}

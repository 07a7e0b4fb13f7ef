package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies the kind of authenticated actor.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleSectorHead Role = "sectorHead"
	RoleAdmin      Role = "admin"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCitizen, RoleSectorHead, RoleAdmin:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an address. Registration and
// login both go through this, so the unique email indexes are
// case-insensitive in effect.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Principal is a resolved actor. Every core operation receives it
// explicitly; nothing reads authentication state from ambient context.
// Sector is empty for admins.
type Principal struct {
	ID     primitive.ObjectID
	Role   Role
	Name   string
	Sector string
}

package auth

import "fmt"

// Role is the closed set of principal roles known to the service.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid returns true if the role is a recognized principal role.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string to a Role, returning an error if unknown.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role: %s", s)
	}
	return role, nil
}

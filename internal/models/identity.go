package models

import "fmt"

// Role is the closed set of dashboard roles.
type Role string

const (
	RoleSubmitter Role = "submitter"
	RoleReviewer  Role = "reviewer"
	RoleFulfiller Role = "fulfiller"
)

// Roles lists every role in credential lookup order.
var Roles = []Role{RoleSubmitter, RoleReviewer, RoleFulfiller}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSubmitter, RoleReviewer, RoleFulfiller:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Identity is the profile attached to an authenticated session.
type Identity struct {
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// Fulfiller is an entry of the assignable technician roster.
type Fulfiller struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

package auth

import (
	"fmt"

	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

// Role is the permission level of an actor
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// Actor is the authenticated caller of a command
type Actor struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

// System is the actor used by local tooling such as the CLI
var System = Actor{Subject: "system", Role: RoleAdmin}

// RequireAdmin refuses destructive commands from non-admin actors
func RequireAdmin(actor Actor) error {
	if actor.Role != RoleAdmin {
		subject := actor.Subject
		if subject == "" {
			subject = "anonymous"
		}
		return fmt.Errorf("%s is not an admin: %w", subject, shared.ErrUnauthorized)
	}
	return nil
}

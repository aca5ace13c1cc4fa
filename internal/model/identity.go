package model

import "github.com/google/uuid"

// Identity is the decoded access-token claim set attached to a request
// context after successful verification.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

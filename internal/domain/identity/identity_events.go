package identity

import (
	"github.com/asspharma/backend/internal/domain/shared"
)

// UserCreatedEvent is emitted when a staff account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewUserCreatedEvent creates a user created event
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			"identity.user.created",
			"User",
			user.ID,
			user.GetPharmacyID(),
		),
		Username: user.Username,
		Role:     string(user.Role),
	}
}

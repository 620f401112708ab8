package identity

import (
	"github.com/formax/backend/internal/domain/shared"
)

// Event types for the user aggregate
const (
	EventTypeUserCreated     = "identity.user.created"
	EventTypeUserDeactivated = "identity.user.deactivated"
)

// UserCreatedEvent is published when a new user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserCreatedEvent creates a UserCreatedEvent from a user
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, "User", u.ID),
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserDeactivatedEvent is published when a user account is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserDeactivatedEvent creates a UserDeactivatedEvent from a user
func NewUserDeactivatedEvent(u *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, "User", u.ID),
		Email:           u.Email,
	}
}

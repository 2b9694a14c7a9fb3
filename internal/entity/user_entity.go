package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleBuyer  UserRole = "buyer"
	UserRoleVendor UserRole = "vendor"
	UserRoleAdmin  UserRole = "admin"
)

type User struct {
	Id          uuid.UUID
	Email       string
	FullName    string
	Role        UserRole
	IsSuspended bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SignupIntentStatus string

const (
	SignupIntentStatusPending   SignupIntentStatus = "pending"
	SignupIntentStatusCompleted SignupIntentStatus = "completed"
)

// SignupIntent is a vendor signup awaiting its first payment confirmation.
// Stale pending intents are removed by the daily cleanup.
type SignupIntent struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Status       SignupIntentStatus
	CreatedAt    time.Time
}

package dto

import "github.com/google/uuid"

type VendorSignupRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type VendorSignupResponse struct {
	IntentId uuid.UUID `json:"intent_id"`
	Email    string    `json:"email"`
	Status   string    `json:"status"`
}

type CompleteSignupRequest struct {
	IntentId uuid.UUID `json:"intent_id" validate:"required"`
}

type CompleteSignupResponse struct {
	UserId         uuid.UUID `json:"user_id"`
	StoreId        uuid.UUID `json:"store_id"`
	SubscriptionId uuid.UUID `json:"subscription_id"`
}

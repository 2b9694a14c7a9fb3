package unitofwork

import (
	"context"

	"markethub-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SignupIntentRepository() contract.SignupIntentRepository
	SubscriptionRepository() contract.SubscriptionRepository
	OrderRepository() contract.OrderRepository
	BookingRepository() contract.BookingRepository
	StoreRepository() contract.StoreRepository
	ProductRepository() contract.ProductRepository
	ServiceListingRepository() contract.ServiceListingRepository
	ConversationRepository() contract.ConversationRepository
}

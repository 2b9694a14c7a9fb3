package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"markethub-be/internal/config"
	"markethub-be/internal/dto"
	"markethub-be/internal/entity"
	"markethub-be/internal/pkg/logger"
	"markethub-be/internal/repository/specification"
	"markethub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	// RegisterVendor records a signup intent. The account itself is only
	// provisioned once the first payment confirms; stale intents are
	// purged by the sweep.
	RegisterVendor(ctx context.Context, req *dto.VendorSignupRequest) (*dto.VendorSignupResponse, error)

	// CompleteSignup provisions the user, store, and subscription for a
	// paid signup intent.
	CompleteSignup(ctx context.Context, req *dto.CompleteSignupRequest) (*dto.CompleteSignupResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	billingCfg config.BillingConfig
	logger     logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		billingCfg: cfg.Billing,
		logger:     log,
	}
}

func (s *authService) RegisterVendor(ctx context.Context, req *dto.VendorSignupRequest) (*dto.VendorSignupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.Filter("email", req.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	intent := &entity.SignupIntent{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Status:       entity.SignupIntentStatusPending,
		CreatedAt:    time.Now(),
	}

	if err := uow.SignupIntentRepository().Create(ctx, intent); err != nil {
		return nil, err
	}

	s.logger.Info("AuthService", "Vendor signup intent created", map[string]interface{}{
		"intent_id": intent.Id,
		"email":     intent.Email,
	})

	return &dto.VendorSignupResponse{
		IntentId: intent.Id,
		Email:    intent.Email,
		Status:   string(intent.Status),
	}, nil
}

func (s *authService) CompleteSignup(ctx context.Context, req *dto.CompleteSignupRequest) (*dto.CompleteSignupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	intent, err := uow.SignupIntentRepository().FindOne(ctx, specification.ByID{ID: req.IntentId})
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, errors.New("signup intent not found or expired")
	}
	if intent.Status == entity.SignupIntentStatusCompleted {
		return nil, errors.New("signup already completed")
	}

	now := time.Now()
	userId := uuid.New()
	storeId := uuid.New()
	subId := uuid.New()

	user := &entity.User{
		Id:        userId,
		Email:     intent.Email,
		FullName:  intent.FullName,
		Role:      entity.UserRoleVendor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	store := &entity.Store{
		Id:        storeId,
		VendorId:  userId,
		Name:      fmt.Sprintf("%s's Store", intent.FullName),
		Slug:      slugify(intent.FullName),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sub := &entity.VendorSubscription{
		Id:        subId,
		VendorId:  userId,
		StoreId:   storeId,
		Status:    entity.SubscriptionStatusActive,
		ExpiresAt: now.AddDate(0, 0, s.billingCfg.PeriodDays),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.StoreRepository().Create(ctx, store); err != nil {
		return nil, err
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	intent.Status = entity.SignupIntentStatusCompleted
	if err := uow.SignupIntentRepository().Update(ctx, intent); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("AuthService", "Vendor provisioned", map[string]interface{}{
		"user_id":  userId,
		"store_id": storeId,
	})

	return &dto.CompleteSignupResponse{
		UserId:         userId,
		StoreId:        storeId,
		SubscriptionId: subId,
	}, nil
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	return fmt.Sprintf("%s-%s", s, uuid.NewString()[:8])
}

package mapper

import (
	"markethub-be/internal/entity"
	"markethub-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:          u.Id,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        entity.UserRole(u.Role),
		IsSuspended: u.IsSuspended,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:          u.Id,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        string(u.Role),
		IsSuspended: u.IsSuspended,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type SignupIntentMapper struct{}

func NewSignupIntentMapper() *SignupIntentMapper {
	return &SignupIntentMapper{}
}

func (m *SignupIntentMapper) ToEntity(s *model.SignupIntent) *entity.SignupIntent {
	if s == nil {
		return nil
	}
	return &entity.SignupIntent{
		Id:           s.Id,
		Email:        s.Email,
		FullName:     s.FullName,
		PasswordHash: s.PasswordHash,
		Status:       entity.SignupIntentStatus(s.Status),
		CreatedAt:    s.CreatedAt,
	}
}

func (m *SignupIntentMapper) ToModel(s *entity.SignupIntent) *model.SignupIntent {
	if s == nil {
		return nil
	}
	return &model.SignupIntent{
		Id:           s.Id,
		Email:        s.Email,
		FullName:     s.FullName,
		PasswordHash: s.PasswordHash,
		Status:       string(s.Status),
		CreatedAt:    s.CreatedAt,
	}
}

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}
	return &entity.Conversation{
		Id:        c.Id,
		VendorId:  c.VendorId,
		BuyerId:   c.BuyerId,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	return &model.Conversation{
		Id:        c.Id,
		VendorId:  c.VendorId,
		BuyerId:   c.BuyerId,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

package contract

import (
	"context"
	"time"

	"markethub-be/internal/entity"
	"markethub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	SetSuspended(ctx context.Context, userId uuid.UUID, suspended bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SignupIntentRepository interface {
	Create(ctx context.Context, intent *entity.SignupIntent) error
	Update(ctx context.Context, intent *entity.SignupIntent) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SignupIntent, error)
	// DeleteStale removes pending intents created before the cutoff.
	// Completed intents are never touched.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

package resource

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrainerRepository defines persistence operations for trainers
type TrainerRepository interface {
	Create(ctx context.Context, trainer *Trainer) error
	Update(ctx context.Context, trainer *Trainer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Trainer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Trainer, int64, error)
}

// RoomRepository defines persistence operations for rooms
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	Update(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Room, int64, error)
}

// MobileUnitRepository defines persistence operations for mobile units
type MobileUnitRepository interface {
	Create(ctx context.Context, unit *MobileUnit) error
	Update(ctx context.Context, unit *MobileUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*MobileUnit, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]MobileUnit, int64, error)
}

// UnavailabilityRepository defines persistence operations for trainer
// unavailability windows. It doubles as the conflict service's
// UnavailabilitySource.
type UnavailabilityRepository interface {
	UnavailabilitySource
	Create(ctx context.Context, window *UnavailabilityWindow) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByTrainer(ctx context.Context, trainerID uuid.UUID, from, to time.Time) ([]UnavailabilityWindow, error)
	ReplaceForTrainer(ctx context.Context, trainerID uuid.UUID, windows []UnavailabilityWindow) error
}

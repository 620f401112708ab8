package resource

import (
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrainerResponse represents a trainer in API responses
type TrainerResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Province    string          `json:"province,omitempty"`
	Specialties []string        `json:"specialties"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	Active      bool            `json:"active"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToTrainerResponse converts a trainer aggregate to its API representation
func ToTrainerResponse(t *resource.Trainer) TrainerResponse {
	return TrainerResponse{
		ID:          t.ID,
		Name:        t.Name,
		Email:       t.Email,
		Phone:       t.Phone,
		Province:    t.Province,
		Specialties: t.Specialties,
		DailyRate:   t.DailyRate,
		Active:      t.Active,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// CreateTrainerRequest creates a trainer
type CreateTrainerRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Phone       string          `json:"phone" binding:"max=30"`
	Province    string          `json:"province" binding:"max=100"`
	Specialties []string        `json:"specialties"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	Notes       string          `json:"notes"`
}

// UpdateTrainerRequest updates mutable trainer fields
type UpdateTrainerRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	Phone       *string          `json:"phone" binding:"omitempty,max=30"`
	Province    *string          `json:"province" binding:"omitempty,max=100"`
	Specialties []string         `json:"specialties"`
	DailyRate   *decimal.Decimal `json:"daily_rate"`
	Notes       *string          `json:"notes"`
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location,omitempty"`
	Capacity int       `json:"capacity"`
	Active   bool      `json:"active"`
}

// ToRoomResponse converts a room aggregate to its API representation
func ToRoomResponse(r *resource.Room) RoomResponse {
	return RoomResponse{
		ID:       r.ID,
		Name:     r.Name,
		Location: r.Location,
		Capacity: r.Capacity,
		Active:   r.Active,
	}
}

// CreateRoomRequest creates a room
type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Location string `json:"location" binding:"max=300"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

// MobileUnitResponse represents a mobile unit in API responses
type MobileUnitResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Plate  string    `json:"plate,omitempty"`
	Active bool      `json:"active"`
}

// ToMobileUnitResponse converts a mobile unit to its API representation
func ToMobileUnitResponse(m *resource.MobileUnit) MobileUnitResponse {
	return MobileUnitResponse{
		ID:     m.ID,
		Name:   m.Name,
		Plate:  m.Plate,
		Active: m.Active,
	}
}

// CreateMobileUnitRequest creates a mobile unit
type CreateMobileUnitRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Plate string `json:"plate" binding:"max=15"`
}

// UnavailabilityResponse represents an unavailability window
type UnavailabilityResponse struct {
	ID        uuid.UUID `json:"id"`
	TrainerID uuid.UUID `json:"trainer_id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Reason    string    `json:"reason,omitempty"`
}

// ToUnavailabilityResponse converts a window to its API representation
func ToUnavailabilityResponse(w *resource.UnavailabilityWindow) UnavailabilityResponse {
	return UnavailabilityResponse{
		ID:        w.ID,
		TrainerID: w.TrainerID,
		From:      w.From,
		To:        w.To,
		Reason:    w.Reason,
	}
}

// AddUnavailabilityRequest blocks a trainer for a date range
type AddUnavailabilityRequest struct {
	From   time.Time `json:"from" binding:"required" time_format:"2006-01-02"`
	To     time.Time `json:"to" binding:"required" time_format:"2006-01-02"`
	Reason string    `json:"reason" binding:"max=300"`
}

// ResourceListFilter represents filter options for resource lists
type ResourceListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

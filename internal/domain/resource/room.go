package resource

import (
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/shared"
)

// Room is a bookable classroom
type Room struct {
	shared.BaseAggregateRoot
	Name     string
	Location string
	Capacity int
	Active   bool
}

// NewRoom creates a new active room
func NewRoom(name string, capacity int) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Room name cannot be empty")
	}
	if capacity <= 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Room capacity must be positive")
	}
	return &Room{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Capacity:          capacity,
		Active:            true,
	}, nil
}

// SetCapacity updates the room capacity
func (r *Room) SetCapacity(capacity int) error {
	if capacity <= 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Room capacity must be positive")
	}
	r.Capacity = capacity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Deactivate removes the room from the bookable pool
func (r *Room) Deactivate() {
	r.Active = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// MobileUnit is a bookable mobile training unit (equipped vehicle)
type MobileUnit struct {
	shared.BaseAggregateRoot
	Name   string
	Plate  string
	Active bool
}

// NewMobileUnit creates a new active mobile unit
func NewMobileUnit(name, plate string) (*MobileUnit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Mobile unit name cannot be empty")
	}
	return &MobileUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Plate:             strings.ToUpper(strings.TrimSpace(plate)),
		Active:            true,
	}, nil
}

// Deactivate removes the unit from the bookable pool
func (m *MobileUnit) Deactivate() {
	m.Active = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

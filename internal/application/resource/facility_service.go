package resource

import (
	"context"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FacilityService manages rooms and mobile units
type FacilityService struct {
	roomRepo resource.RoomRepository
	unitRepo resource.MobileUnitRepository
}

// NewFacilityService creates a new FacilityService
func NewFacilityService(roomRepo resource.RoomRepository, unitRepo resource.MobileUnitRepository) *FacilityService {
	return &FacilityService{
		roomRepo: roomRepo,
		unitRepo: unitRepo,
	}
}

// CreateRoom creates a room
func (s *FacilityService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomResponse, error) {
	room, err := resource.NewRoom(req.Name, req.Capacity)
	if err != nil {
		return nil, err
	}
	room.Location = req.Location
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	resp := ToRoomResponse(room)
	return &resp, nil
}

// ListRooms returns a page of rooms
func (s *FacilityService) ListRooms(ctx context.Context, filter ResourceListFilter) (*shared.Paginated[RoomResponse], error) {
	f := listFilter(filter)
	rooms, total, err := s.roomRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]RoomResponse, len(rooms))
	for i := range rooms {
		items[i] = ToRoomResponse(&rooms[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// SetRoomCapacity updates a room's capacity
func (s *FacilityService) SetRoomCapacity(ctx context.Context, id uuid.UUID, capacity int) (*RoomResponse, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, shared.ErrNotFound
	}
	if err := room.SetCapacity(capacity); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	resp := ToRoomResponse(room)
	return &resp, nil
}

// DeactivateRoom removes a room from the bookable pool
func (s *FacilityService) DeactivateRoom(ctx context.Context, id uuid.UUID) error {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if room == nil {
		return shared.ErrNotFound
	}
	room.Deactivate()
	return s.roomRepo.Update(ctx, room)
}

// CreateMobileUnit creates a mobile unit
func (s *FacilityService) CreateMobileUnit(ctx context.Context, req CreateMobileUnitRequest) (*MobileUnitResponse, error) {
	unit, err := resource.NewMobileUnit(req.Name, req.Plate)
	if err != nil {
		return nil, err
	}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}
	resp := ToMobileUnitResponse(unit)
	return &resp, nil
}

// ListMobileUnits returns a page of mobile units
func (s *FacilityService) ListMobileUnits(ctx context.Context, filter ResourceListFilter) (*shared.Paginated[MobileUnitResponse], error) {
	f := listFilter(filter)
	units, total, err := s.unitRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]MobileUnitResponse, len(units))
	for i := range units {
		items[i] = ToMobileUnitResponse(&units[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// DeactivateMobileUnit removes a unit from the bookable pool
func (s *FacilityService) DeactivateMobileUnit(ctx context.Context, id uuid.UUID) error {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if unit == nil {
		return shared.ErrNotFound
	}
	unit.Deactivate()
	return s.unitRepo.Update(ctx, unit)
}

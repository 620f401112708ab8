package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRoomRepository is a mock implementation of resource.RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *resource.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) Update(ctx context.Context, room *resource.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resource.Room), args.Error(1)
}

func (m *MockRoomRepository) FindAll(ctx context.Context, filter shared.Filter) ([]resource.Room, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]resource.Room), args.Get(1).(int64), args.Error(2)
}

// MockMobileUnitRepository is a mock implementation of resource.MobileUnitRepository
type MockMobileUnitRepository struct {
	mock.Mock
}

func (m *MockMobileUnitRepository) Create(ctx context.Context, unit *resource.MobileUnit) error {
	return m.Called(ctx, unit).Error(0)
}

func (m *MockMobileUnitRepository) Update(ctx context.Context, unit *resource.MobileUnit) error {
	return m.Called(ctx, unit).Error(0)
}

func (m *MockMobileUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMobileUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.MobileUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resource.MobileUnit), args.Error(1)
}

func (m *MockMobileUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]resource.MobileUnit, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]resource.MobileUnit), args.Get(1).(int64), args.Error(2)
}

func TestFacilityServiceRooms(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a room", func(t *testing.T) {
		roomRepo := new(MockRoomRepository)
		svc := NewFacilityService(roomRepo, new(MockMobileUnitRepository))

		roomRepo.On("Create", ctx, mock.Anything).Return(nil)

		resp, err := svc.CreateRoom(ctx, CreateRoomRequest{
			Name:     "Training room 1",
			Location: "Radom",
			Capacity: 16,
		})
		require.NoError(t, err)
		assert.Equal(t, 16, resp.Capacity)
		assert.True(t, resp.Active)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		roomRepo := new(MockRoomRepository)
		svc := NewFacilityService(roomRepo, new(MockMobileUnitRepository))

		_, err := svc.CreateRoom(ctx, CreateRoomRequest{Name: "Training room 1", Capacity: 0})
		require.Error(t, err)
		roomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("resizes an existing room", func(t *testing.T) {
		roomRepo := new(MockRoomRepository)
		svc := NewFacilityService(roomRepo, new(MockMobileUnitRepository))

		room, err := resource.NewRoom("Training room 1", 12)
		require.NoError(t, err)
		roomRepo.On("FindByID", ctx, room.ID).Return(room, nil)
		roomRepo.On("Update", ctx, room).Return(nil)

		resp, err := svc.SetRoomCapacity(ctx, room.ID, 20)
		require.NoError(t, err)
		assert.Equal(t, 20, resp.Capacity)
	})

	t.Run("deactivates a room", func(t *testing.T) {
		roomRepo := new(MockRoomRepository)
		svc := NewFacilityService(roomRepo, new(MockMobileUnitRepository))

		room, err := resource.NewRoom("Training room 1", 12)
		require.NoError(t, err)
		roomRepo.On("FindByID", ctx, room.ID).Return(room, nil)
		roomRepo.On("Update", ctx, room).Return(nil)

		require.NoError(t, svc.DeactivateRoom(ctx, room.ID))
		assert.False(t, room.Active)
	})

	t.Run("unknown room maps to not found", func(t *testing.T) {
		roomRepo := new(MockRoomRepository)
		svc := NewFacilityService(roomRepo, new(MockMobileUnitRepository))

		id := uuid.New()
		roomRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := svc.SetRoomCapacity(ctx, id, 20)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestFacilityServiceMobileUnits(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a mobile unit", func(t *testing.T) {
		unitRepo := new(MockMobileUnitRepository)
		svc := NewFacilityService(new(MockRoomRepository), unitRepo)

		unitRepo.On("Create", ctx, mock.Anything).Return(nil)

		resp, err := svc.CreateMobileUnit(ctx, CreateMobileUnitRequest{
			Name:  "Mobile unit 1",
			Plate: "WX 12345",
		})
		require.NoError(t, err)
		assert.Equal(t, "Mobile unit 1", resp.Name)
		assert.True(t, resp.Active)
	})

	t.Run("deactivates a mobile unit", func(t *testing.T) {
		unitRepo := new(MockMobileUnitRepository)
		svc := NewFacilityService(new(MockRoomRepository), unitRepo)

		unit, err := resource.NewMobileUnit("Mobile unit 1", "WX 12345")
		require.NoError(t, err)
		unitRepo.On("FindByID", ctx, unit.ID).Return(unit, nil)
		unitRepo.On("Update", ctx, unit).Return(nil)

		require.NoError(t, svc.DeactivateMobileUnit(ctx, unit.ID))
		assert.False(t, unit.Active)
	})
}

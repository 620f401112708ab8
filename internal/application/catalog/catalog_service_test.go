package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/formax/backend/internal/domain/catalog"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*catalog.Product]), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockVariantRepository is a mock implementation of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	return m.Called(ctx, variant).Error(0)
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.Variant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindPublished(ctx context.Context) ([]*catalog.Variant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// fakeShop is a ShopClient stub
type fakeShop struct {
	seats     map[int64]int
	fetchErr  error
	createErr error
}

func (f *fakeShop) CreateVariation(context.Context, string, string, time.Time, decimal.Decimal, int) (int64, int64, error) {
	if f.createErr != nil {
		return 0, 0, f.createErr
	}
	return 1001, 2002, nil
}

func (f *fakeShop) FetchSeatsSold(_ context.Context, _, wooVariationID int64) (int, error) {
	if f.fetchErr != nil {
		return 0, f.fetchErr
	}
	return f.seats[wooVariationID], nil
}

func publishedVariant(t *testing.T, wooVariationID int64, capacity int) *catalog.Variant {
	t.Helper()
	v, err := catalog.NewVariant(uuid.New(), time.Now().AddDate(0, 1, 0), capacity, decimal.NewFromInt(90))
	require.NoError(t, err)
	require.NoError(t, v.Publish(1001, wooVariationID))
	return v
}

func TestCatalogServicePublishVariant(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes through the shop", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		variantRepo := new(MockVariantRepository)
		svc := NewCatalogService(productRepo, variantRepo)
		svc.SetShopClient(&fakeShop{})

		product, err := catalog.NewProduct("PCI-01", "PCI", 8)
		require.NoError(t, err)
		variant, err := catalog.NewVariant(product.ID, time.Now().AddDate(0, 1, 0), 12, decimal.NewFromInt(90))
		require.NoError(t, err)

		variantRepo.On("FindByID", ctx, variant.ID).Return(variant, nil)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		variantRepo.On("Save", ctx, variant).Return(nil)

		resp, err := svc.PublishVariant(ctx, variant.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.VariantStatusPublished, resp.Status)
	})

	t.Run("without shop client publishing fails", func(t *testing.T) {
		svc := NewCatalogService(new(MockProductRepository), new(MockVariantRepository))
		_, err := svc.PublishVariant(ctx, uuid.New())
		assert.Error(t, err)
	})
}

func TestCatalogServiceSyncSeatCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("updates every published variant", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		variantRepo := new(MockVariantRepository)
		svc := NewCatalogService(productRepo, variantRepo)
		svc.SetShopClient(&fakeShop{seats: map[int64]int{10: 7, 11: 3}})

		a := publishedVariant(t, 10, 12)
		b := publishedVariant(t, 11, 8)
		variantRepo.On("FindPublished", ctx).Return([]*catalog.Variant{a, b}, nil)
		variantRepo.On("Save", ctx, mock.Anything).Return(nil)

		report, err := svc.SyncSeatCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Synced)
		assert.Equal(t, 0, report.Failed)
		assert.Equal(t, 7, a.SeatsSold)
		assert.Equal(t, 3, b.SeatsSold)
		assert.NotNil(t, a.SeatsSyncedAt)
	})

	t.Run("shop errors are counted and skipped", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		variantRepo := new(MockVariantRepository)
		svc := NewCatalogService(productRepo, variantRepo)
		svc.SetShopClient(&fakeShop{fetchErr: errors.New("shop down")})

		a := publishedVariant(t, 10, 12)
		variantRepo.On("FindPublished", ctx).Return([]*catalog.Variant{a}, nil)

		report, err := svc.SyncSeatCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Synced)
		assert.Equal(t, 1, report.Failed)
	})
}

func TestCatalogServiceCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate code rejected", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		svc := NewCatalogService(productRepo, new(MockVariantRepository))

		existing, err := catalog.NewProduct("PCI-01", "PCI", 8)
		require.NoError(t, err)
		productRepo.On("FindByCode", ctx, "PCI-01").Return(existing, nil)

		_, err = svc.CreateProduct(ctx, CreateProductRequest{Code: "PCI-01", Name: "PCI", Hours: 8})
		assert.Error(t, err)
	})

	t.Run("variant price falls back to product default", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		variantRepo := new(MockVariantRepository)
		svc := NewCatalogService(productRepo, variantRepo)

		product, err := catalog.NewProduct("PCI-01", "PCI", 8)
		require.NoError(t, err)
		require.NoError(t, product.SetDefaultPrice(decimal.NewFromInt(120)))
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		variantRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.CreateVariant(ctx, product.ID, CreateVariantRequest{
			StartsOn:     time.Now().AddDate(0, 2, 0),
			SeatCapacity: 10,
		})
		require.NoError(t, err)
		assert.True(t, resp.Price.Equal(decimal.NewFromInt(120)))
	})
}

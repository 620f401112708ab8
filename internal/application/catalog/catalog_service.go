package catalog

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/catalog"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShopClient talks to the WooCommerce shop. Publishing creates the remote
// variation; the nightly sync pulls seat counts back.
type ShopClient interface {
	CreateVariation(ctx context.Context, productCode, name string, startsOn time.Time, price decimal.Decimal, seats int) (wooProductID, wooVariationID int64, err error)
	FetchSeatsSold(ctx context.Context, wooProductID, wooVariationID int64) (int, error)
}

// CatalogService manages the course catalog and its shop-published variants
type CatalogService struct {
	productRepo catalog.ProductRepository
	variantRepo catalog.VariantRepository
	shop        ShopClient
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(productRepo catalog.ProductRepository, variantRepo catalog.VariantRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// SetShopClient sets the WooCommerce client (optional; without it variants
// stay local drafts)
func (s *CatalogService) SetShopClient(shop ShopClient) {
	s.shop = shop
}

// CreateProduct creates a catalog product
func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	existing, err := s.productRepo.FindByCode(ctx, req.Code)
	if err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this code already exists")
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.Hours)
	if err != nil {
		return nil, err
	}
	if err := product.SetDefaultPrice(req.DefaultPrice); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct returns a single product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts returns a page of products
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}

	page, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(page.Items))
	for i, p := range page.Items {
		items[i] = ToProductResponse(p)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UpdateProduct updates mutable product fields
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Hours != nil {
		if *req.Hours <= 0 {
			return nil, shared.NewDomainError("INVALID_HOURS", "Teaching hours must be positive")
		}
		product.Hours = *req.Hours
	}
	if req.DefaultPrice != nil {
		if err := product.SetDefaultPrice(*req.DefaultPrice); err != nil {
			return nil, err
		}
	}
	product.UpdatedAt = time.Now()
	product.IncrementVersion()

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// DeactivateProduct retires a product from the catalog
func (s *CatalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.productRepo.Save(ctx, product)
}

// CreateVariant creates a draft variant of a product. Omitted prices fall
// back to the product's default price.
func (s *CatalogService) CreateVariant(ctx context.Context, productID uuid.UUID, req CreateVariantRequest) (*VariantResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	price := req.Price
	if price.IsZero() {
		price = product.DefaultPrice
	}
	variant, err := catalog.NewVariant(productID, req.StartsOn, req.SeatCapacity, price)
	if err != nil {
		return nil, err
	}
	variant.Location = req.Location

	if err := s.variantRepo.Save(ctx, variant); err != nil {
		return nil, err
	}
	resp := ToVariantResponse(variant)
	return &resp, nil
}

// ListVariants returns a product's variants
func (s *CatalogService) ListVariants(ctx context.Context, productID uuid.UUID) ([]VariantResponse, error) {
	variants, err := s.variantRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	responses := make([]VariantResponse, len(variants))
	for i, v := range variants {
		responses[i] = ToVariantResponse(v)
	}
	return responses, nil
}

// PublishVariant mirrors the variant to the shop and opens sales
func (s *CatalogService) PublishVariant(ctx context.Context, variantID uuid.UUID) (*VariantResponse, error) {
	if s.shop == nil {
		return nil, shared.NewDomainError("SHOP_UNAVAILABLE", "Shop integration is not configured")
	}
	variant, err := s.findVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	product, err := s.findProduct(ctx, variant.ProductID)
	if err != nil {
		return nil, err
	}

	wooProductID, wooVariationID, err := s.shop.CreateVariation(ctx,
		product.Code, product.Name, variant.StartsOn, variant.Price, variant.SeatCapacity)
	if err != nil {
		return nil, err
	}
	if err := variant.Publish(wooProductID, wooVariationID); err != nil {
		return nil, err
	}
	if err := s.variantRepo.Save(ctx, variant); err != nil {
		return nil, err
	}
	resp := ToVariantResponse(variant)
	return &resp, nil
}

// CloseVariant stops sales for a variant
func (s *CatalogService) CloseVariant(ctx context.Context, variantID uuid.UUID) error {
	variant, err := s.findVariant(ctx, variantID)
	if err != nil {
		return err
	}
	variant.Close()
	return s.variantRepo.Save(ctx, variant)
}

// SyncSeatCounts pulls seat counts from the shop for every published
// variant. Run nightly by the scheduler; individual failures are counted
// and skipped so one broken variant does not stall the run.
func (s *CatalogService) SyncSeatCounts(ctx context.Context) (*SeatSyncReport, error) {
	if s.shop == nil {
		return nil, shared.NewDomainError("SHOP_UNAVAILABLE", "Shop integration is not configured")
	}
	variants, err := s.variantRepo.FindPublished(ctx)
	if err != nil {
		return nil, err
	}

	report := &SeatSyncReport{}
	now := time.Now()
	for _, variant := range variants {
		if variant.WooProductID == nil || variant.WooVariationID == nil {
			report.Failed++
			continue
		}
		sold, err := s.shop.FetchSeatsSold(ctx, *variant.WooProductID, *variant.WooVariationID)
		if err != nil {
			report.Failed++
			continue
		}
		if err := variant.SyncSeats(sold, now); err != nil {
			report.Failed++
			continue
		}
		if err := s.variantRepo.Save(ctx, variant); err != nil {
			report.Failed++
			continue
		}
		report.Synced++
	}
	return report, nil
}

// CourseInfo resolves the course title and teaching hours printed on
// certificates.
func (s *CatalogService) CourseInfo(ctx context.Context, courseID uuid.UUID) (string, int, error) {
	product, err := s.findProduct(ctx, courseID)
	if err != nil {
		return "", 0, err
	}
	return product.Name, product.Hours, nil
}

func (s *CatalogService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (s *CatalogService) findVariant(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	variant, err := s.variantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, shared.ErrNotFound
	}
	return variant, nil
}

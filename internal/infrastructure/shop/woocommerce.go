package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/formax/backend/internal/infrastructure/config"
)

const (
	// maxResponseSize limits response body size to prevent memory exhaustion (10MB)
	maxResponseSize = 10 * 1024 * 1024

	defaultTimeout = 30 * time.Second
)

// Shop client errors
var (
	ErrShopDisabled      = errors.New("shop integration is disabled")
	ErrShopUnavailable   = errors.New("shop is unavailable")
	ErrShopRequestFailed = errors.New("shop request failed")
	ErrProductNotFound   = errors.New("shop product not found")
	ErrInvalidConfig     = errors.New("invalid shop configuration")
)

// WooCommerceClient implements catalog.ShopClient against the WooCommerce
// REST API v3. Variants map to WooCommerce product variations so seats can
// be sold online; the parent product is looked up by SKU and created on
// first publish.
type WooCommerceClient struct {
	cfg        *config.ShopConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWooCommerceClient creates a WooCommerce REST client from configuration.
func NewWooCommerceClient(cfg *config.ShopConfig, logger *zap.Logger) (*WooCommerceClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if !cfg.Enabled {
		return nil, ErrShopDisabled
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("%w: consumer key and secret are required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &WooCommerceClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// CreateVariation publishes a scheduled edition to the shop. The parent
// product is resolved by SKU (the course code) and created if it does not
// exist yet, then a variation is created under it with the edition's price
// and seat capacity as managed stock.
func (c *WooCommerceClient) CreateVariation(ctx context.Context, productCode, name string, startsOn time.Time, price decimal.Decimal, seats int) (int64, int64, error) {
	if productCode == "" {
		return 0, 0, fmt.Errorf("%w: product code is required", ErrInvalidConfig)
	}

	productID, err := c.findProductBySKU(ctx, productCode)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			return 0, 0, err
		}
		productID, err = c.createProduct(ctx, productCode, name)
		if err != nil {
			return 0, 0, err
		}
	}

	variation := wooVariationRequest{
		SKU:           fmt.Sprintf("%s-%s", productCode, startsOn.Format("20060102")),
		Description:   name,
		RegularPrice:  price.StringFixed(2),
		ManageStock:   true,
		StockQuantity: seats,
		Attributes: []wooAttribute{
			{Name: "Fecha", Option: startsOn.Format("2006-01-02")},
		},
	}

	body, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/products/%d/variations", productID), variation)
	if err != nil {
		return 0, 0, err
	}

	var created wooVariationResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return 0, 0, fmt.Errorf("woocommerce: failed to parse variation response: %w", err)
	}

	c.logger.Info("published variation to shop",
		zap.String("product_code", productCode),
		zap.Int64("woo_product_id", productID),
		zap.Int64("woo_variation_id", created.ID))

	return productID, created.ID, nil
}

// FetchSeatsSold returns the number of seats sold for a published variation,
// derived from the variation's remaining managed stock.
func (c *WooCommerceClient) FetchSeatsSold(ctx context.Context, wooProductID, wooVariationID int64) (int, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/products/%d/variations/%d", wooProductID, wooVariationID), nil)
	if err != nil {
		return 0, err
	}

	var variation wooVariationResponse
	if err := json.Unmarshal(body, &variation); err != nil {
		return 0, fmt.Errorf("woocommerce: failed to parse variation response: %w", err)
	}

	sold := variation.TotalSales
	if sold < 0 {
		sold = 0
	}
	return sold, nil
}

// findProductBySKU looks up the parent product by SKU. Returns
// ErrProductNotFound when no product carries the SKU.
func (c *WooCommerceClient) findProductBySKU(ctx context.Context, sku string) (int64, error) {
	path := "/products?sku=" + url.QueryEscape(sku)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}

	var products []wooProductResponse
	if err := json.Unmarshal(body, &products); err != nil {
		return 0, fmt.Errorf("woocommerce: failed to parse product list: %w", err)
	}
	if len(products) == 0 {
		return 0, ErrProductNotFound
	}
	return products[0].ID, nil
}

// createProduct creates the variable parent product for a course code.
func (c *WooCommerceClient) createProduct(ctx context.Context, code, name string) (int64, error) {
	product := wooProductRequest{
		Name: name,
		SKU:  code,
		Type: "variable",
		Attributes: []wooProductAttribute{
			{Name: "Fecha", Variation: true, Visible: true},
		},
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/products", product)
	if err != nil {
		return 0, err
	}

	var created wooProductResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return 0, fmt.Errorf("woocommerce: failed to parse product response: %w", err)
	}

	c.logger.Info("created shop product", zap.String("sku", code), zap.Int64("woo_product_id", created.ID))
	return created.ID, nil
}

// doRequest performs an authenticated request against the WooCommerce REST API
func (c *WooCommerceClient) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + path

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("woocommerce: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: failed to create request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShopUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("woocommerce: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrShopRequestFailed, resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// wooProductRequest is the payload for creating a variable product
type wooProductRequest struct {
	Name       string                `json:"name"`
	SKU        string                `json:"sku"`
	Type       string                `json:"type"`
	Attributes []wooProductAttribute `json:"attributes,omitempty"`
}

type wooProductAttribute struct {
	Name      string `json:"name"`
	Variation bool   `json:"variation"`
	Visible   bool   `json:"visible"`
}

type wooProductResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// wooVariationRequest is the payload for creating a product variation
type wooVariationRequest struct {
	SKU           string         `json:"sku"`
	Description   string         `json:"description,omitempty"`
	RegularPrice  string         `json:"regular_price"`
	ManageStock   bool           `json:"manage_stock"`
	StockQuantity int            `json:"stock_quantity"`
	Attributes    []wooAttribute `json:"attributes,omitempty"`
}

type wooAttribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

type wooVariationResponse struct {
	ID           int64  `json:"id"`
	SKU          string `json:"sku"`
	RegularPrice string `json:"regular_price"`
	TotalSales   int    `json:"total_sales"`
}

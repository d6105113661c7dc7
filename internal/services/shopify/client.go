package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomnomnom/linkheader"

	"shopmirror/internal/apierrors"
	"shopmirror/internal/config"
	"shopmirror/internal/logger"
)

const (
	// Products are listed at the admin API's maximum page size.
	productsPageSize = 250

	// The inventory_levels endpoint caps inventory_item_ids per request.
	inventoryBatchSize = 40
)

// Client talks to the Shopify admin REST API. One instance is constructed at
// process start from configuration and shared by every component; it holds no
// per-request state.
type Client struct {
	baseURL     string
	apiKey      string
	apiPassword string
	locationID  int64
	httpClient  *http.Client
	logger      *logger.Logger
}

func NewClient(cfg *config.Config, logger *logger.Logger) *Client {
	return &Client{
		baseURL:     fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", cfg.ShopifyShopDomain, cfg.ShopifyAPIVersion),
		apiKey:      cfg.ShopifyAPIKey,
		apiPassword: cfg.ShopifyAPIPassword,
		locationID:  cfg.ShopifyLocationID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// LocationID returns the configured inventory location, 0 if none.
func (c *Client) LocationID() int64 {
	return c.locationID
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.apiKey, c.apiPassword)
	req.Header.Set("Content-Type", "application/json")
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrUpstreamUnavailable, err)
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", apierrors.ErrUpstreamUnavailable, err)
		}
		return resp, nil
	}

	resp.Body.Close()
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", apierrors.ErrUpstreamAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return apierrors.ErrNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s", apierrors.ErrValidation, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d - %s", apierrors.ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}
}

// ListProductsPage fetches one page of products. pageInfo is the cursor from
// a previous call, empty for the first page. The returned cursor is empty
// when no further page exists.
func (c *Client) ListProductsPage(ctx context.Context, pageInfo string) ([]Product, string, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(productsPageSize))
	if pageInfo != "" {
		q.Set("page_info", pageInfo)
	}

	var productsResp productsResponse
	resp, err := c.do(ctx, http.MethodGet, "/products.json", q, nil, &productsResp)
	if err != nil {
		return nil, "", err
	}

	return productsResp.Products, nextPageInfo(resp.Header.Get("Link")), nil
}

// nextPageInfo extracts the page_info cursor from the rel="next" entry of a
// Link response header, empty if there is no next page.
func nextPageInfo(header string) string {
	if header == "" {
		return ""
	}
	for _, link := range linkheader.Parse(header).FilterByRel("next") {
		u, err := url.Parse(link.URL)
		if err != nil {
			continue
		}
		if cursor := u.Query().Get("page_info"); cursor != "" {
			return cursor
		}
	}
	return ""
}

// GetProduct fetches a single product by its remote ID.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var productResp productResponse
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d.json", productID), nil, nil, &productResp); err != nil {
		return nil, err
	}
	return &productResp.Product, nil
}

// GetVariant fetches a single variant by its remote ID.
func (c *Client) GetVariant(ctx context.Context, variantID int64) (*Variant, error) {
	var variantResp variantResponse
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/variants/%d.json", variantID), nil, nil, &variantResp); err != nil {
		return nil, err
	}
	return &variantResp.Variant, nil
}

// UpdateVariantPrice issues a remote price mutation and returns the updated
// variant as reported by the platform.
func (c *Client) UpdateVariantPrice(ctx context.Context, variantID int64, newPrice string) (*Variant, error) {
	if newPrice == "" {
		return nil, fmt.Errorf("%w: price is required", apierrors.ErrValidation)
	}
	if _, err := strconv.ParseFloat(newPrice, 64); err != nil {
		return nil, fmt.Errorf("%w: price %q is not numeric", apierrors.ErrValidation, newPrice)
	}

	payload := map[string]interface{}{
		"variant": map[string]interface{}{
			"id":    variantID,
			"price": newPrice,
		},
	}

	var variantResp variantResponse
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/variants/%d.json", variantID), nil, payload, &variantResp); err != nil {
		return nil, err
	}
	return &variantResp.Variant, nil
}

// SetInventoryLevel forces the available quantity of one inventory item at
// the configured location to an absolute value (not a delta).
func (c *Client) SetInventoryLevel(ctx context.Context, inventoryItemID int64, available int) (*InventoryLevel, error) {
	if c.locationID == 0 {
		return nil, fmt.Errorf("%w: no inventory location configured", apierrors.ErrConfig)
	}

	payload := map[string]interface{}{
		"location_id":       c.locationID,
		"inventory_item_id": inventoryItemID,
		"available":         available,
	}

	var levelResp inventoryLevelResponse
	if _, err := c.do(ctx, http.MethodPost, "/inventory_levels/set.json", nil, payload, &levelResp); err != nil {
		return nil, err
	}
	return &levelResp.InventoryLevel, nil
}

// GetInventoryLevels reads available quantities for a set of inventory items
// at the configured location. Requests are chunked to the endpoint's batch
// ceiling and merged into one mapping; if an item appears in more than one
// chunk the last-seen value wins.
func (c *Client) GetInventoryLevels(ctx context.Context, inventoryItemIDs []int64) (map[int64]int, error) {
	if c.locationID == 0 {
		return nil, fmt.Errorf("%w: no inventory location configured", apierrors.ErrConfig)
	}

	levels := make(map[int64]int, len(inventoryItemIDs))

	for start := 0; start < len(inventoryItemIDs); start += inventoryBatchSize {
		end := start + inventoryBatchSize
		if end > len(inventoryItemIDs) {
			end = len(inventoryItemIDs)
		}
		chunk := inventoryItemIDs[start:end]

		ids := make([]string, len(chunk))
		for i, id := range chunk {
			ids[i] = strconv.FormatInt(id, 10)
		}

		q := url.Values{}
		q.Set("inventory_item_ids", strings.Join(ids, ","))
		q.Set("location_ids", strconv.FormatInt(c.locationID, 10))

		var levelsResp inventoryLevelsResponse
		if _, err := c.do(ctx, http.MethodGet, "/inventory_levels.json", q, nil, &levelsResp); err != nil {
			return nil, err
		}

		for _, level := range levelsResp.InventoryLevels {
			levels[level.InventoryItemID] = level.Available
		}
	}

	return levels, nil
}

// DeleteProduct removes a product upstream. The local mirror is not touched.
func (c *Client) DeleteProduct(ctx context.Context, productID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d.json", productID), nil, nil, nil)
	return err
}

// DeleteVariant removes a variant upstream. The admin API addresses variants
// through their product, so the variant is read first to find its owner.
func (c *Client) DeleteVariant(ctx context.Context, variantID int64) error {
	variant, err := c.GetVariant(ctx, variantID)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d/variants/%d.json", variant.ProductID, variantID), nil, nil, nil)
	return err
}

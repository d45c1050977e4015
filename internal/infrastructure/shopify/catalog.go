package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vylist-shopify-layer/internal/config"
	"vylist-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/tomnomnom/linkheader"
)

// CatalogClient pulls a shop's complete product catalog through the
// paginated products endpoint. Each page request authenticates with the
// access token header; the next-page cursor comes from the Link response
// header. The walk is bounded: a hard page cap and cursor-repeat detection
// both abort the pass instead of looping.
type CatalogClient struct {
	apiVersion string
	pageSize   int
	maxPages   int
	httpClient *http.Client
	baseURL    func(shopDomain string) string
	logger     zerolog.Logger
}

// NewCatalogClient creates a catalog client with the configured page size
// and termination bound.
func NewCatalogClient(cfg *config.Config, logger zerolog.Logger) *CatalogClient {
	return NewCatalogClientWithOptions(cfg, &http.Client{Timeout: 30 * time.Second}, nil, logger)
}

// NewCatalogClientWithOptions allows overriding the HTTP client and the shop
// base URL, used by tests to point at a fake remote.
func NewCatalogClientWithOptions(cfg *config.Config, httpClient *http.Client, baseURL func(string) string, logger zerolog.Logger) *CatalogClient {
	if baseURL == nil {
		baseURL = func(shopDomain string) string { return "https://" + shopDomain }
	}
	return &CatalogClient{
		apiVersion: cfg.APIVersion,
		pageSize:   cfg.SyncPageSize,
		maxPages:   cfg.SyncMaxPages,
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// FetchPages walks the catalog page by page, invoking fn with each page's
// strictly decoded records before requesting the next one. Any page failure,
// decode failure, or error from fn aborts the walk.
func (c *CatalogClient) FetchPages(ctx context.Context, shopDomain, accessToken string, fn func(page []*domain.Product) error) error {
	cursor := ""
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		if page > c.maxPages {
			return &domain.FetchError{
				Page:   page,
				Reason: fmt.Sprintf("page bound of %d exceeded", c.maxPages),
			}
		}

		products, next, err := c.fetchPage(ctx, shopDomain, accessToken, cursor, page)
		if err != nil {
			return err
		}

		c.logger.Debug().
			Str("shop", shopDomain).
			Int("page", page).
			Int("products", len(products)).
			Bool("has_next", next != "").
			Msg("Fetched catalog page")

		if err := fn(products); err != nil {
			return err
		}

		if next == "" {
			return nil
		}
		if _, dup := seen[next]; dup {
			return &domain.FetchError{
				Page:   page,
				Reason: "pagination cursor repeated, remote page chain loops",
			}
		}
		seen[next] = struct{}{}
		cursor = next
	}
}

// FetchAll accumulates every page in order. A failure on any page abandons
// the accumulated records rather than returning partial data.
func (c *CatalogClient) FetchAll(ctx context.Context, shopDomain, accessToken string) ([]*domain.Product, error) {
	var all []*domain.Product
	err := c.FetchPages(ctx, shopDomain, accessToken, func(page []*domain.Product) error {
		all = append(all, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (c *CatalogClient) fetchPage(ctx context.Context, shopDomain, accessToken, cursor string, page int) ([]*domain.Product, string, error) {
	pageURL := fmt.Sprintf("%s/admin/api/%s/products.json", c.baseURL(shopDomain), c.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", accessToken)
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(c.pageSize))
	if cursor != "" {
		q.Set("page_info", cursor)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error().
			Str("shop", shopDomain).
			Int("page", page).
			Int("status", resp.StatusCode).
			Msg("Catalog page request returned non-success status")
		return nil, "", &domain.FetchError{Page: page, Status: resp.StatusCode, Body: string(body)}
	}

	var pageResp struct {
		Products []RawProduct `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pageResp); err != nil {
		return nil, "", fmt.Errorf("failed to decode catalog page %d: %w", page, err)
	}

	products := make([]*domain.Product, 0, len(pageResp.Products))
	for i := range pageResp.Products {
		product, err := pageResp.Products[i].Normalize(shopDomain)
		if err != nil {
			return nil, "", err
		}
		products = append(products, product)
	}

	next, err := nextPageCursor(resp.Header.Get("Link"))
	if err != nil {
		return nil, "", &domain.FetchError{Page: page, Reason: err.Error()}
	}
	return products, next, nil
}

// nextPageCursor extracts the page_info cursor from a Link header's
// rel="next" entry. An absent header or absent next link means the walk is
// done.
func nextPageCursor(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	links := linkheader.Parse(header).FilterByRel("next")
	if len(links) == 0 {
		return "", nil
	}
	u, err := url.Parse(links[0].URL)
	if err != nil {
		return "", fmt.Errorf("malformed next-page link: %v", err)
	}
	cursor := u.Query().Get("page_info")
	if cursor == "" {
		return "", fmt.Errorf("next-page link carries no page_info cursor")
	}
	return cursor, nil
}

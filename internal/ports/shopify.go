package ports

import (
	"context"

	"vylist-shopify-layer/internal/domain"
)

// RequestVerifier validates that inbound callback parameters genuinely
// originated from the platform.
type RequestVerifier interface {
	// Verify reports whether the signature embedded in params matches the
	// rest of the payload. A merely-invalid or missing signature is false,
	// never an error.
	Verify(params map[string]string) bool
}

// AuthURLBuilder constructs the merchant-facing authorization URL that
// begins an install.
type AuthURLBuilder interface {
	AuthorizeURL(shopDomain, state string) (string, error)
}

// TokenExchanger performs the one-shot exchange of an authorization code for
// a durable access token, returning the granted scopes.
type TokenExchanger interface {
	Exchange(ctx context.Context, shopDomain, code string) (token string, scopes []string, err error)
}

// CatalogFetcher retrieves a shop's complete product catalog from the remote
// API, following cursor pagination until exhaustion.
type CatalogFetcher interface {
	// FetchPages invokes fn once per page, in page order, with strictly
	// decoded records. An error from fn or from any page request aborts the
	// walk.
	FetchPages(ctx context.Context, shopDomain, accessToken string, fn func(page []*domain.Product) error) error
}

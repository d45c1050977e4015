package ports

import (
	"context"

	"vylist-shopify-layer/internal/domain"
)

// CredentialRepository persists one access credential per shop.
type CredentialRepository interface {
	// Put stores the credential with last-write-wins upsert semantics. The
	// write must be a single atomic statement, not read-modify-write.
	Put(ctx context.Context, cred *domain.Credential) error

	// Get returns the shop's credential, or (nil, nil) when absent.
	Get(ctx context.Context, shopDomain string) (*domain.Credential, error)
}

// ProductRepository persists cached catalog records keyed by
// (shop domain, product ID).
type ProductRepository interface {
	// Upsert fully replaces the record under its key. Safe to call
	// concurrently for different products of the same shop.
	Upsert(ctx context.Context, product *domain.Product) error

	// ListByShop returns all cached products for a shop; empty slice when
	// none have been synced.
	ListByShop(ctx context.Context, shopDomain string) ([]*domain.Product, error)

	// DeleteAbsent removes the shop's products whose IDs are not in keepIDs
	// and reports how many were removed. Used by the prune-stale policy.
	DeleteAbsent(ctx context.Context, shopDomain string, keepIDs []string) (int64, error)
}

// StateStore holds short-lived OAuth state nonces between the install
// redirect and the callback.
type StateStore interface {
	Save(ctx context.Context, state, shopDomain string) error

	// Consume returns the shop the state was issued for and invalidates it.
	// An unknown or expired state returns ("", nil).
	Consume(ctx context.Context, state string) (string, error)
}

package application

import (
	"context"
	"math/rand/v2"

	"vylist-shopify-layer/internal/domain"
	"vylist-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// DefaultRecommendationCount is how many products a recommendation request
// samples when the caller does not say otherwise.
const DefaultRecommendationCount = 4

// CatalogService serves read-only queries from the locally cached catalog.
// It never calls the remote API. A shop with no credential is reported as
// not installed; a shop with a credential but no synced products gets empty
// results.
type CatalogService struct {
	credentials ports.CredentialRepository
	products    ports.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog read service
func NewCatalogService(credentials ports.CredentialRepository, products ports.ProductRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		credentials: credentials,
		products:    products,
		logger:      logger,
	}
}

// ListProducts returns the shop's cached catalog.
func (s *CatalogService) ListProducts(ctx context.Context, shopDomain string) ([]*domain.Product, error) {
	if err := s.requireInstalled(ctx, shopDomain); err != nil {
		return nil, err
	}
	return s.products.ListByShop(ctx, shopDomain)
}

// Recommendations samples up to count random cached products as storefront
// recommendations. Products without images carry the placeholder image.
func (s *CatalogService) Recommendations(ctx context.Context, shopDomain string, count int) ([]domain.Recommendation, error) {
	if count <= 0 {
		count = DefaultRecommendationCount
	}

	products, err := s.ListProducts(ctx, shopDomain)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(products), func(i, j int) {
		products[i], products[j] = products[j], products[i]
	})
	if len(products) > count {
		products = products[:count]
	}

	recs := make([]domain.Recommendation, 0, len(products))
	for _, p := range products {
		recs = append(recs, p.Recommendation())
	}
	return recs, nil
}

// FindVariant locates a variant by ID within the shop's cached catalog,
// returning the owning product and the variant. An unknown variant returns
// (nil, nil, nil).
func (s *CatalogService) FindVariant(ctx context.Context, shopDomain, variantID string) (*domain.Product, *domain.Variant, error) {
	products, err := s.ListProducts(ctx, shopDomain)
	if err != nil {
		return nil, nil, err
	}

	for _, p := range products {
		for i := range p.Variants {
			if p.Variants[i].VariantID == variantID {
				return p, &p.Variants[i], nil
			}
		}
	}
	return nil, nil, nil
}

func (s *CatalogService) requireInstalled(ctx context.Context, shopDomain string) error {
	cred, err := s.credentials.Get(ctx, shopDomain)
	if err != nil {
		return err
	}
	if cred == nil {
		return domain.ErrNotInstalled
	}
	return nil
}

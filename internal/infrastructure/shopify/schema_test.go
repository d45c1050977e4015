package shopify

import (
	"testing"
	"time"

	"vylist-shopify-layer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawProductFixture() RawProduct {
	compareAt := "29.99"
	published := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	return RawProduct{
		ID:          1234567890,
		Title:       "Linen Shirt",
		Handle:      "linen-shirt",
		Status:      "active",
		ProductType: "apparel",
		Tags:        "summer, linen",
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		PublishedAt: &published,
		Variants: []RawVariant{
			{ID: 11, Title: "S", Price: "19.99", CompareAtPrice: &compareAt, SKU: "LS-S", Position: 1},
			{ID: 12, Title: "M", Price: "19.99", Position: 2},
		},
		Images: []RawImage{
			{ID: 21, Src: "https://cdn.example.com/shirt.jpg", Position: 1},
		},
		Options: []RawOption{
			{Name: "Size", Position: 1, Values: []string{"S", "M"}},
		},
	}
}

func TestNormalizeMapsFields(t *testing.T) {
	raw := rawProductFixture()

	p, err := raw.Normalize("example.myshopify.com")
	require.NoError(t, err)

	assert.Equal(t, "example.myshopify.com", p.ShopDomain)
	assert.Equal(t, "1234567890", p.ProductID)
	assert.Equal(t, "Linen Shirt", p.Title)
	assert.Equal(t, "linen-shirt", p.Handle)
	assert.Equal(t, domain.ProductStatusActive, p.Status)
	assert.Equal(t, "apparel", p.ProductType)
	assert.Equal(t, "summer, linen", p.Tags)
	require.NotNil(t, p.PublishedAt)

	require.Len(t, p.Variants, 2)
	assert.Equal(t, "11", p.Variants[0].VariantID)
	assert.Equal(t, "29.99", p.Variants[0].CompareAtPrice)
	assert.Empty(t, p.Variants[1].CompareAtPrice)

	require.Len(t, p.Images, 1)
	assert.Equal(t, "https://cdn.example.com/shirt.jpg", p.FeaturedImage())

	require.Len(t, p.Options, 1)
	assert.Equal(t, []string{"S", "M"}, p.Options[0].Values)
}

func TestNormalizePreservesLargeIDsExactly(t *testing.T) {
	raw := rawProductFixture()
	// Beyond float64's 2^53 integer precision.
	raw.ID = 9007199254740993
	raw.Variants[0].ID = 9007199254740995

	p, err := raw.Normalize("example.myshopify.com")
	require.NoError(t, err)

	assert.Equal(t, "9007199254740993", p.ProductID)
	assert.Equal(t, "9007199254740995", p.Variants[0].VariantID)
}

func TestNormalizeNoImagesDegradesToPlaceholder(t *testing.T) {
	raw := rawProductFixture()
	raw.Images = nil

	p, err := raw.Normalize("example.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, domain.PlaceholderImageURL, p.FeaturedImage())
}

func TestNormalizeRejectsMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RawProduct)
		field  string
	}{
		{"missing id", func(r *RawProduct) { r.ID = 0 }, "id"},
		{"missing title", func(r *RawProduct) { r.Title = "" }, "title"},
		{"missing handle", func(r *RawProduct) { r.Handle = "" }, "handle"},
		{"unknown status", func(r *RawProduct) { r.Status = "published" }, "status"},
		{"no variants", func(r *RawProduct) { r.Variants = nil }, "variants"},
		{"no options", func(r *RawProduct) { r.Options = nil }, "options"},
		{"variant without id", func(r *RawProduct) { r.Variants[0].ID = 0 }, "id"},
		{"image without src", func(r *RawProduct) { r.Images[0].Src = "" }, "src"},
		{"option without name", func(r *RawProduct) { r.Options[0].Name = "" }, "name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := rawProductFixture()
			tc.mutate(&raw)

			_, err := raw.Normalize("example.myshopify.com")

			var schemaErr *domain.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tc.field, schemaErr.Field)
		})
	}
}

package domain

import "time"

// PlaceholderImageURL is served in place of a featured image for products
// whose remote record carried no images.
const PlaceholderImageURL = "https://via.placeholder.com/400?text=No+Image"

// Product statuses as reported by the Admin API.
const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// Product is a locally cached catalog record, keyed by (shop, product ID).
// ProductID is the remote numeric identifier in canonical decimal string
// form so large IDs survive storage and transport exactly.
type Product struct {
	ShopDomain  string     `json:"shop_domain" bson:"shopDomain"`
	ProductID   string     `json:"product_id" bson:"productId"`
	Title       string     `json:"title" bson:"title"`
	Handle      string     `json:"handle" bson:"handle"`
	Status      string     `json:"status" bson:"status"`
	ProductType string     `json:"product_type" bson:"productType"`
	Tags        string     `json:"tags" bson:"tags"`
	CreatedAt   time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updatedAt"`
	PublishedAt *time.Time `json:"published_at,omitempty" bson:"publishedAt,omitempty"`
	Variants    []Variant  `json:"variants" bson:"variants"`
	Images      []Image    `json:"images" bson:"images"`
	Options     []Option   `json:"options" bson:"options"`
}

// Variant is a purchasable variation of a product.
type Variant struct {
	VariantID      string `json:"variant_id" bson:"variantId"`
	Title          string `json:"title" bson:"title"`
	Price          string `json:"price" bson:"price"`
	CompareAtPrice string `json:"compare_at_price,omitempty" bson:"compareAtPrice,omitempty"`
	SKU            string `json:"sku,omitempty" bson:"sku,omitempty"`
	Position       int    `json:"position" bson:"position"`
}

// Image is a product image in display order.
type Image struct {
	ImageID  string `json:"image_id" bson:"imageId"`
	Src      string `json:"src" bson:"src"`
	Alt      string `json:"alt,omitempty" bson:"alt,omitempty"`
	Position int    `json:"position" bson:"position"`
}

// Option is a named axis of variation (e.g. Size) with its values.
type Option struct {
	Name     string   `json:"name" bson:"name"`
	Position int      `json:"position" bson:"position"`
	Values   []string `json:"values" bson:"values"`
}

// FeaturedImage returns the first image source, or the placeholder when the
// product has no images.
func (p *Product) FeaturedImage() string {
	if len(p.Images) == 0 {
		return PlaceholderImageURL
	}
	return p.Images[0].Src
}

// Recommendation is the storefront-facing projection of a cached product.
type Recommendation struct {
	Title          string `json:"title"`
	FeaturedImage  string `json:"featuredImage"`
	Price          string `json:"price"`
	VariantID      string `json:"variantId"`
	OnlineStoreURL string `json:"onlineStoreUrl"`
}

// Recommendation builds the storefront projection of the product.
func (p *Product) Recommendation() Recommendation {
	rec := Recommendation{
		Title:          p.Title,
		FeaturedImage:  p.FeaturedImage(),
		OnlineStoreURL: "/products/" + p.Handle,
	}
	if len(p.Variants) > 0 {
		rec.Price = p.Variants[0].Price
		rec.VariantID = p.Variants[0].VariantID
	}
	return rec
}

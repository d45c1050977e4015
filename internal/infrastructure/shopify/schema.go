package shopify

import (
	"strconv"
	"time"

	"vylist-shopify-layer/internal/domain"
)

// Raw remote record shapes as returned by the Admin API. Numeric identifiers
// decode into int64 so large IDs never pass through float64; Normalize
// renders them as canonical decimal strings.

// RawProduct is one product record from a catalog page.
type RawProduct struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Handle      string       `json:"handle"`
	Status      string       `json:"status"`
	ProductType string       `json:"product_type"`
	Tags        string       `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	PublishedAt *time.Time   `json:"published_at"`
	Variants    []RawVariant `json:"variants"`
	Images      []RawImage   `json:"images"`
	Options     []RawOption  `json:"options"`
}

// RawVariant is a product variant as sent by the remote API.
type RawVariant struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Price          string  `json:"price"`
	CompareAtPrice *string `json:"compare_at_price"`
	SKU            string  `json:"sku"`
	Position       int     `json:"position"`
}

// RawImage is a product image as sent by the remote API.
type RawImage struct {
	ID       int64   `json:"id"`
	Src      string  `json:"src"`
	Alt      *string `json:"alt"`
	Position int     `json:"position"`
}

// RawOption is a product option as sent by the remote API.
type RawOption struct {
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Values   []string `json:"values"`
}

// Normalize validates the record and maps it into the local schema. Missing
// required fields fail fast with *domain.SchemaError, isolating the rest of
// the pipeline from remote schema drift. A product without images is fine;
// one without variants or options is not usable and is rejected.
func (r *RawProduct) Normalize(shopDomain string) (*domain.Product, error) {
	switch {
	case r.ID == 0:
		return nil, &domain.SchemaError{Entity: "product", Field: "id"}
	case r.Title == "":
		return nil, &domain.SchemaError{Entity: "product", Field: "title"}
	case r.Handle == "":
		return nil, &domain.SchemaError{Entity: "product", Field: "handle"}
	case len(r.Variants) == 0:
		return nil, &domain.SchemaError{Entity: "product", Field: "variants"}
	case len(r.Options) == 0:
		return nil, &domain.SchemaError{Entity: "product", Field: "options"}
	}

	switch r.Status {
	case domain.ProductStatusActive, domain.ProductStatusDraft, domain.ProductStatusArchived:
	default:
		return nil, &domain.SchemaError{Entity: "product", Field: "status"}
	}

	p := &domain.Product{
		ShopDomain:  shopDomain,
		ProductID:   strconv.FormatInt(r.ID, 10),
		Title:       r.Title,
		Handle:      r.Handle,
		Status:      r.Status,
		ProductType: r.ProductType,
		Tags:        r.Tags,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		PublishedAt: r.PublishedAt,
		Variants:    make([]domain.Variant, 0, len(r.Variants)),
		Images:      make([]domain.Image, 0, len(r.Images)),
		Options:     make([]domain.Option, 0, len(r.Options)),
	}

	for _, v := range r.Variants {
		if v.ID == 0 {
			return nil, &domain.SchemaError{Entity: "variant", Field: "id"}
		}
		variant := domain.Variant{
			VariantID: strconv.FormatInt(v.ID, 10),
			Title:     v.Title,
			Price:     v.Price,
			SKU:       v.SKU,
			Position:  v.Position,
		}
		if v.CompareAtPrice != nil {
			variant.CompareAtPrice = *v.CompareAtPrice
		}
		p.Variants = append(p.Variants, variant)
	}

	for _, img := range r.Images {
		if img.Src == "" {
			return nil, &domain.SchemaError{Entity: "image", Field: "src"}
		}
		image := domain.Image{
			ImageID:  strconv.FormatInt(img.ID, 10),
			Src:      img.Src,
			Position: img.Position,
		}
		if img.Alt != nil {
			image.Alt = *img.Alt
		}
		p.Images = append(p.Images, image)
	}

	for _, opt := range r.Options {
		if opt.Name == "" {
			return nil, &domain.SchemaError{Entity: "option", Field: "name"}
		}
		p.Options = append(p.Options, domain.Option{
			Name:     opt.Name,
			Position: opt.Position,
			Values:   opt.Values,
		})
	}

	return p, nil
}

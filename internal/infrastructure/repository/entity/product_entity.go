package entity

import (
	"time"

	"vylist-shopify-layer/internal/domain"
)

// MongoProductDoc represents a cached catalog product in MongoDB, keyed by
// (shopDomain, productId). Variants, images and options are embedded
// sub-documents replaced wholesale on every upsert.
type MongoProductDoc struct {
	ShopDomain  string            `bson:"shopDomain"`
	ProductID   string            `bson:"productId"`
	Title       string            `bson:"title"`
	Handle      string            `bson:"handle"`
	Status      string            `bson:"status"`
	ProductType string            `bson:"productType"`
	Tags        string            `bson:"tags"`
	CreatedAt   time.Time         `bson:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt"`
	PublishedAt *time.Time        `bson:"publishedAt,omitempty"`
	Variants    []MongoVariantDoc `bson:"variants"`
	Images      []MongoImageDoc   `bson:"images"`
	Options     []MongoOptionDoc  `bson:"options"`
	SyncedAt    time.Time         `bson:"syncedAt"`
}

// MongoVariantDoc is an embedded product variant.
type MongoVariantDoc struct {
	VariantID      string `bson:"variantId"`
	Title          string `bson:"title"`
	Price          string `bson:"price"`
	CompareAtPrice string `bson:"compareAtPrice,omitempty"`
	SKU            string `bson:"sku,omitempty"`
	Position       int    `bson:"position"`
}

// MongoImageDoc is an embedded product image.
type MongoImageDoc struct {
	ImageID  string `bson:"imageId"`
	Src      string `bson:"src"`
	Alt      string `bson:"alt,omitempty"`
	Position int    `bson:"position"`
}

// MongoOptionDoc is an embedded product option.
type MongoOptionDoc struct {
	Name     string   `bson:"name"`
	Position int      `bson:"position"`
	Values   []string `bson:"values"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoProductDoc) ToDomain() *domain.Product {
	p := &domain.Product{
		ShopDomain:  d.ShopDomain,
		ProductID:   d.ProductID,
		Title:       d.Title,
		Handle:      d.Handle,
		Status:      d.Status,
		ProductType: d.ProductType,
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		PublishedAt: d.PublishedAt,
	}
	for _, v := range d.Variants {
		p.Variants = append(p.Variants, domain.Variant(v))
	}
	for _, img := range d.Images {
		p.Images = append(p.Images, domain.Image(img))
	}
	for _, opt := range d.Options {
		p.Options = append(p.Options, domain.Option(opt))
	}
	return p
}

// MongoProductDocFromDomain converts a domain entity to a MongoDB document
func MongoProductDocFromDomain(p *domain.Product) *MongoProductDoc {
	doc := &MongoProductDoc{
		ShopDomain:  p.ShopDomain,
		ProductID:   p.ProductID,
		Title:       p.Title,
		Handle:      p.Handle,
		Status:      p.Status,
		ProductType: p.ProductType,
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		PublishedAt: p.PublishedAt,
	}
	for _, v := range p.Variants {
		doc.Variants = append(doc.Variants, MongoVariantDoc(v))
	}
	for _, img := range p.Images {
		doc.Images = append(doc.Images, MongoImageDoc(img))
	}
	for _, opt := range p.Options {
		doc.Options = append(doc.Options, MongoOptionDoc(opt))
	}
	return doc
}

package entity

import (
	"time"

	"vylist-shopify-layer/internal/domain"
)

// MongoCredentialDoc represents a shop credential in MongoDB. shopDomain is
// the unique key.
type MongoCredentialDoc struct {
	ShopDomain  string    `bson:"shopDomain"`
	AccessToken string    `bson:"accessToken"`
	Scopes      []string  `bson:"scopes"`
	InstalledAt time.Time `bson:"installedAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoCredentialDoc) ToDomain() *domain.Credential {
	return &domain.Credential{
		ShopDomain:  d.ShopDomain,
		AccessToken: d.AccessToken,
		Scopes:      d.Scopes,
		InstalledAt: d.InstalledAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoCredentialDocFromDomain converts a domain entity to a MongoDB document
func MongoCredentialDocFromDomain(cred *domain.Credential) *MongoCredentialDoc {
	return &MongoCredentialDoc{
		ShopDomain:  cred.ShopDomain,
		AccessToken: cred.AccessToken,
		Scopes:      cred.Scopes,
		InstalledAt: cred.InstalledAt,
		UpdatedAt:   cred.UpdatedAt,
	}
}

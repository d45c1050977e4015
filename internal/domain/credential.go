package domain

import "time"

// Credential is the durable access token authorizing Admin API calls on a
// shop's behalf. At most one live credential exists per shop; a re-install
// replaces the token wholesale.
type Credential struct {
	ShopDomain  string    `json:"shop_domain" bson:"shopDomain"`
	AccessToken string    `json:"-" bson:"accessToken"`
	Scopes      []string  `json:"scopes" bson:"scopes"`
	InstalledAt time.Time `json:"installed_at" bson:"installedAt"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updatedAt"`
}

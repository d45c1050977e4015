package shopify

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"vylist-shopify-layer/internal/config"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// AuthService builds the merchant-facing authorization URLs that begin an
// install.
type AuthService struct {
	app    goshopify.App
	logger zerolog.Logger
}

// NewAuthService creates an auth service from the app credentials. Shopify
// expects the scope list comma-joined without spaces.
func NewAuthService(cfg *config.Config, logger zerolog.Logger) *AuthService {
	app := goshopify.App{
		ApiKey:      cfg.APIKey,
		ApiSecret:   cfg.APISecret,
		RedirectUrl: cfg.AppURL + "/auth/callback",
		Scope:       strings.Join(cfg.Scopes, ","),
	}
	return &AuthService{app: app, logger: logger}
}

// AuthorizeURL returns the authorization URL for the shop with the given
// CSRF state.
func (s *AuthService) AuthorizeURL(shopDomain, state string) (string, error) {
	authURL, err := s.app.AuthorizeUrl(shopDomain, state)
	if err != nil {
		return "", fmt.Errorf("failed to build authorize URL: %w", err)
	}

	s.logger.Info().
		Str("shop", shopDomain).
		Str("scopes", s.app.Scope).
		Msg("Generated OAuth authorization URL")

	return authURL, nil
}

// GenerateState returns a cryptographically random state nonce.
func GenerateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

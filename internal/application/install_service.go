package application

import (
	"context"
	"fmt"
	"time"

	"vylist-shopify-layer/internal/domain"
	"vylist-shopify-layer/internal/infrastructure/metrics"
	"vylist-shopify-layer/internal/infrastructure/shopify"
	"vylist-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// InstallService drives the OAuth install handshake: authorize redirect,
// callback verification, token exchange and credential storage.
type InstallService struct {
	verifier    ports.RequestVerifier
	authURLs    ports.AuthURLBuilder
	exchanger   ports.TokenExchanger
	credentials ports.CredentialRepository
	states      ports.StateStore
	logger      zerolog.Logger
}

// NewInstallService creates a new install service
func NewInstallService(
	verifier ports.RequestVerifier,
	authURLs ports.AuthURLBuilder,
	exchanger ports.TokenExchanger,
	credentials ports.CredentialRepository,
	states ports.StateStore,
	logger zerolog.Logger,
) *InstallService {
	return &InstallService{
		verifier:    verifier,
		authURLs:    authURLs,
		exchanger:   exchanger,
		credentials: credentials,
		states:      states,
		logger:      logger,
	}
}

// Begin issues a state nonce for the shop and returns the authorization URL
// to redirect the merchant to.
func (s *InstallService) Begin(ctx context.Context, shopDomain string) (string, error) {
	state, err := shopify.GenerateState()
	if err != nil {
		return "", err
	}
	if err := s.states.Save(ctx, state, shopDomain); err != nil {
		return "", err
	}

	authURL, err := s.authURLs.AuthorizeURL(shopDomain, state)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("shop", shopDomain).Msg("Install flow started")
	return authURL, nil
}

// Complete handles the authorization callback. It verifies the platform
// signature over all callback parameters, checks the state nonce against the
// pending install, exchanges the code and stores the credential. A failed
// exchange is terminal for this callback; nothing is stored.
func (s *InstallService) Complete(ctx context.Context, shopDomain, code, state string, params map[string]string) (*domain.Credential, error) {
	if shopDomain == "" || code == "" {
		return nil, &domain.AuthenticityError{Reason: "missing shop or code parameter"}
	}

	if !s.verifier.Verify(params) {
		s.logger.Warn().Str("shop", shopDomain).Msg("Callback signature verification failed")
		return nil, &domain.AuthenticityError{Reason: "invalid hmac signature"}
	}

	issuedFor, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to check oauth state: %w", err)
	}
	if issuedFor == "" || issuedFor != shopDomain {
		s.logger.Warn().Str("shop", shopDomain).Msg("Callback state did not match a pending install")
		return nil, &domain.AuthenticityError{Reason: "unknown or mismatched state"}
	}

	token, scopes, err := s.exchanger.Exchange(ctx, shopDomain, code)
	if err != nil {
		metrics.TokenExchanges.WithLabelValues("failure").Inc()
		return nil, err
	}
	metrics.TokenExchanges.WithLabelValues("success").Inc()

	cred := &domain.Credential{
		ShopDomain:  shopDomain,
		AccessToken: token,
		Scopes:      scopes,
		InstalledAt: time.Now(),
	}
	if err := s.credentials.Put(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("shop", shopDomain).
		Strs("scopes", scopes).
		Msg("Install completed, credential stored")

	return cred, nil
}

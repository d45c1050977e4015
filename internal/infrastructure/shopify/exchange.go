package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vylist-shopify-layer/internal/config"
	"vylist-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// TokenClient exchanges a short-lived authorization code for a durable
// access token. The exchange is one-shot: a failure is surfaced to the
// caller, never retried here.
type TokenClient struct {
	apiKey         string
	apiSecret      string
	requiredScopes []string
	httpClient     *http.Client
	baseURL        func(shopDomain string) string
	logger         zerolog.Logger
}

// NewTokenClient creates a token client with the deployment's required
// scope set.
func NewTokenClient(cfg *config.Config, logger zerolog.Logger) *TokenClient {
	return NewTokenClientWithOptions(cfg, &http.Client{Timeout: 10 * time.Second}, nil, logger)
}

// NewTokenClientWithOptions allows overriding the HTTP client and the shop
// base URL, used by tests to point at a fake remote.
func NewTokenClientWithOptions(cfg *config.Config, httpClient *http.Client, baseURL func(string) string, logger zerolog.Logger) *TokenClient {
	if baseURL == nil {
		baseURL = func(shopDomain string) string { return "https://" + shopDomain }
	}
	return &TokenClient{
		apiKey:         cfg.APIKey,
		apiSecret:      cfg.APISecret,
		requiredScopes: cfg.Scopes,
		httpClient:     httpClient,
		baseURL:        baseURL,
		logger:         logger,
	}
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// Exchange POSTs the authorization code to the shop's token endpoint and
// returns the access token with the granted scopes. A non-success status
// yields *domain.ExchangeError; granted scopes that do not superset the
// required set yield *domain.ScopeError.
func (c *TokenClient) Exchange(ctx context.Context, shopDomain, code string) (string, []string, error) {
	body, err := json.Marshal(tokenRequest{
		ClientID:     c.apiKey,
		ClientSecret: c.apiSecret,
		Code:         code,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	tokenURL := c.baseURL(shopDomain) + "/admin/oauth/access_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error().
			Str("shop", shopDomain).
			Int("status", resp.StatusCode).
			Msg("Token exchange returned non-success status")
		return "", nil, &domain.ExchangeError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", nil, &domain.ExchangeError{Status: resp.StatusCode, Body: "response carried no access_token"}
	}

	granted := splitScopes(tokenResp.Scope)
	if missing := missingScopes(c.requiredScopes, granted); len(missing) > 0 {
		c.logger.Warn().
			Str("shop", shopDomain).
			Strs("granted", granted).
			Strs("missing", missing).
			Msg("Token exchange granted insufficient scopes")
		return "", nil, &domain.ScopeError{Missing: missing}
	}

	c.logger.Info().
		Str("shop", shopDomain).
		Strs("granted_scopes", granted).
		Msg("Token exchange completed")

	return tokenResp.AccessToken, granted, nil
}

func splitScopes(s string) []string {
	var scopes []string
	for _, scope := range strings.Split(s, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}

func missingScopes(required, granted []string) []string {
	have := make(map[string]struct{}, len(granted))
	for _, scope := range granted {
		have[scope] = struct{}{}
	}
	var missing []string
	for _, scope := range required {
		if _, ok := have[scope]; !ok {
			missing = append(missing, scope)
		}
	}
	return missing
}

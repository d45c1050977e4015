package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vylist-shopify-layer/internal/config"
	"vylist-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		APIKey:       "key",
		APISecret:    "secret",
		Scopes:       []string{"read_products", "write_products"},
		APIVersion:   "2024-01",
		SyncPageSize: 250,
		SyncMaxPages: 200,
	}
}

func newTestTokenClient(t *testing.T, handler http.HandlerFunc) *TokenClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTokenClientWithOptions(testConfig(), srv.Client(), func(string) string { return srv.URL }, zerolog.Nop())
}

func TestExchangeSuccess(t *testing.T) {
	client := newTestTokenClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/oauth/access_token", r.URL.Path)

		var req struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
			Code         string `json:"code"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "key", req.ClientID)
		assert.Equal(t, "secret", req.ClientSecret)
		assert.Equal(t, "authcode", req.Code)

		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "shpat_token",
			"scope":        "read_products,write_products",
		})
	})

	token, scopes, err := client.Exchange(context.Background(), "example.myshopify.com", "authcode")
	require.NoError(t, err)
	assert.Equal(t, "shpat_token", token)
	assert.Equal(t, []string{"read_products", "write_products"}, scopes)
}

func TestExchangeNonSuccessStatus(t *testing.T) {
	client := newTestTokenClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_request"}`, http.StatusUnauthorized)
	})

	_, _, err := client.Exchange(context.Background(), "example.myshopify.com", "badcode")
	require.Error(t, err)

	var exchangeErr *domain.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, http.StatusUnauthorized, exchangeErr.Status)
	assert.Contains(t, exchangeErr.Body, "invalid_request")
}

func TestExchangeInsufficientScopes(t *testing.T) {
	client := newTestTokenClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "shpat_token",
			"scope":        "read_products",
		})
	})

	_, _, err := client.Exchange(context.Background(), "example.myshopify.com", "authcode")
	require.Error(t, err)

	var scopeErr *domain.ScopeError
	require.ErrorAs(t, err, &scopeErr)
	assert.Equal(t, []string{"write_products"}, scopeErr.Missing)
}

func TestExchangeEmptyToken(t *testing.T) {
	client := newTestTokenClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"scope": "read_products,write_products"})
	})

	_, _, err := client.Exchange(context.Background(), "example.myshopify.com", "authcode")

	var exchangeErr *domain.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
}

package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signParams(secret string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func callbackParams(secret string) map[string]string {
	params := map[string]string{
		"shop":      "example.myshopify.com",
		"code":      "abc123",
		"state":     "deadbeef",
		"timestamp": "1700000000",
	}
	params["hmac"] = signParams(secret, params)
	return params
}

func TestRequestVerifierAcceptsValidSignature(t *testing.T) {
	v := NewRequestVerifier("shh")
	assert.True(t, v.Verify(callbackParams("shh")))
}

func TestRequestVerifierRejectsMutatedParameter(t *testing.T) {
	v := NewRequestVerifier("shh")

	params := callbackParams("shh")
	params["shop"] = "evil.myshopify.com"
	assert.False(t, v.Verify(params))
}

func TestRequestVerifierRejectsMutatedSignature(t *testing.T) {
	v := NewRequestVerifier("shh")

	params := callbackParams("shh")
	sig := []byte(params["hmac"])
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	params["hmac"] = string(sig)
	assert.False(t, v.Verify(params))
}

func TestRequestVerifierRejectsWrongSecret(t *testing.T) {
	v := NewRequestVerifier("other")
	assert.False(t, v.Verify(callbackParams("shh")))
}

func TestRequestVerifierMissingSignatureIsInvalid(t *testing.T) {
	v := NewRequestVerifier("shh")

	params := callbackParams("shh")
	delete(params, "hmac")
	assert.False(t, v.Verify(params))
}

func TestRequestVerifierMalformedSignatureIsInvalid(t *testing.T) {
	v := NewRequestVerifier("shh")

	params := callbackParams("shh")
	params["hmac"] = "not hex at all"
	assert.False(t, v.Verify(params))
}

func TestRequestVerifierAcceptsSignatureParam(t *testing.T) {
	v := NewRequestVerifier("shh")

	params := map[string]string{
		"shop":     "example.myshopify.com",
		"path_pre": "/apps/vylist",
	}
	params["signature"] = signParams("shh", params)
	assert.True(t, v.Verify(params))
}

func TestRequestVerifierVerifyQuery(t *testing.T) {
	v := NewRequestVerifier("shh")

	params := callbackParams("shh")
	q := url.Values{}
	for k, val := range params {
		q.Set(k, val)
	}
	assert.True(t, v.VerifyQuery(q))
}

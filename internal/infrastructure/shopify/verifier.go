package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Signature-bearing parameter names. Both are excluded from the signed
// payload regardless of which one carries the digest.
const (
	hmacParam      = "hmac"
	signatureParam = "signature"
)

// RequestVerifier checks the HMAC-SHA256 signature Shopify attaches to OAuth
// callbacks and app-proxy requests.
type RequestVerifier struct {
	secret string
}

// NewRequestVerifier creates a verifier keyed with the shared app secret.
func NewRequestVerifier(secret string) *RequestVerifier {
	return &RequestVerifier{secret: secret}
}

// Verify reports whether the supplied signature matches an HMAC-SHA256 hex
// digest over the remaining parameters, sorted lexicographically by key and
// joined as key=value pairs with "&". The comparison is constant time. A
// missing or malformed signature yields false, never a panic. Timestamp
// freshness is not checked.
func (v *RequestVerifier) Verify(params map[string]string) bool {
	supplied, ok := params[hmacParam]
	if !ok {
		supplied, ok = params[signatureParam]
	}
	if !ok || supplied == "" {
		return false
	}

	suppliedMAC, err := hex.DecodeString(supplied)
	if err != nil {
		return false
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if k == hmacParam || k == signatureParam {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	message := strings.Join(pairs, "&")

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(message))
	return hmac.Equal(mac.Sum(nil), suppliedMAC)
}

// VerifyQuery flattens a parsed query string and verifies it. Repeated keys
// keep their first value, matching how the platform signs callbacks.
func (v *RequestVerifier) VerifyQuery(q url.Values) bool {
	params := make(map[string]string, len(q))
	for k := range q {
		params[k] = q.Get(k)
	}
	return v.Verify(params)
}

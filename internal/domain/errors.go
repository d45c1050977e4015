package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotInstalled is returned for operations against a shop that has no
// stored credential. A shop with a credential but no synced products is not
// an error; callers get an empty result instead.
var ErrNotInstalled = errors.New("shop is not installed")

// AuthenticityError rejects a request whose platform signature or OAuth
// state did not verify. Never retried.
type AuthenticityError struct {
	Reason string
}

func (e *AuthenticityError) Error() string {
	return "request authenticity check failed: " + e.Reason
}

// ExchangeError reports a non-success response from the token endpoint.
type ExchangeError struct {
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: status %d: %s", e.Status, e.Body)
}

// ScopeError reports that the granted scope set does not cover the scopes
// this deployment requires.
type ScopeError struct {
	Missing []string
}

func (e *ScopeError) Error() string {
	return "granted scopes missing: " + strings.Join(e.Missing, ", ")
}

// FetchError reports a failed catalog page request, or a pagination loop
// aborted by the termination bound. Results accumulated before the failure
// are abandoned by the caller.
type FetchError struct {
	Page   int
	Status int
	Body   string
	Reason string
}

func (e *FetchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("catalog fetch aborted on page %d: %s", e.Page, e.Reason)
	}
	return fmt.Sprintf("catalog fetch failed on page %d: status %d: %s", e.Page, e.Status, e.Body)
}

// SchemaError reports a remote record that failed strict decoding.
type SchemaError struct {
	Entity string
	Field  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("remote %s record missing required field %q", e.Entity, e.Field)
}

// StorageError wraps a persistence-layer failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

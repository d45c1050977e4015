package application

import (
	"context"
	"errors"
	"sync"

	"vylist-shopify-layer/internal/domain"
)

// In-memory repository fakes mirroring the mongo repositories' keyed upsert
// semantics.

type memCredentialRepo struct {
	mu    sync.Mutex
	creds map[string]*domain.Credential
	fail  bool
}

func newMemCredentialRepo() *memCredentialRepo {
	return &memCredentialRepo{creds: make(map[string]*domain.Credential)}
}

func (r *memCredentialRepo) Put(_ context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return &domain.StorageError{Op: "put credential", Err: errors.New("backend down")}
	}
	copied := *cred
	r.creds[cred.ShopDomain] = &copied
	return nil
}

func (r *memCredentialRepo) Get(_ context.Context, shopDomain string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, &domain.StorageError{Op: "get credential", Err: errors.New("backend down")}
	}
	cred, ok := r.creds[shopDomain]
	if !ok {
		return nil, nil
	}
	copied := *cred
	return &copied, nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]map[string]*domain.Product
	failAt   int // fail the Nth upsert when positive
	upserts  int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]map[string]*domain.Product)}
}

func (r *memProductRepo) Upsert(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if r.failAt > 0 && r.upserts >= r.failAt {
		return &domain.StorageError{Op: "upsert product", Err: errors.New("backend down")}
	}
	shop := r.products[p.ShopDomain]
	if shop == nil {
		shop = make(map[string]*domain.Product)
		r.products[p.ShopDomain] = shop
	}
	copied := *p
	shop[p.ProductID] = &copied
	return nil
}

func (r *memProductRepo) ListByShop(_ context.Context, shopDomain string) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Product{}
	for _, p := range r.products[shopDomain] {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memProductRepo) DeleteAbsent(_ context.Context, shopDomain string, keepIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors mongo rejecting a nil slice, which marshals as {$nin: null}.
	if keepIDs == nil {
		return 0, &domain.StorageError{Op: "prune products", Err: errors.New("$nin needs an array")}
	}
	keep := make(map[string]struct{}, len(keepIDs))
	for _, id := range keepIDs {
		keep[id] = struct{}{}
	}
	var deleted int64
	for id := range r.products[shopDomain] {
		if _, ok := keep[id]; !ok {
			delete(r.products[shopDomain], id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memProductRepo) count(shopDomain string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products[shopDomain])
}

type memStateStore struct {
	mu     sync.Mutex
	states map[string]string
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[string]string)}
}

func (s *memStateStore) Save(_ context.Context, state, shopDomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = shopDomain
	return nil
}

func (s *memStateStore) Consume(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shopDomain := s.states[state]
	delete(s.states, state)
	return shopDomain, nil
}

// stubExchanger returns a fixed token or error.
type stubExchanger struct {
	token  string
	scopes []string
	err    error
	calls  int
}

func (e *stubExchanger) Exchange(context.Context, string, string) (string, []string, error) {
	e.calls++
	if e.err != nil {
		return "", nil, e.err
	}
	return e.token, e.scopes, nil
}

// stubFetcher serves fixed pages, or an error after a number of pages.
type stubFetcher struct {
	pages    [][]*domain.Product
	failPage int // 1-based page whose request fails, 0 for never
	err      error
}

func (f *stubFetcher) FetchPages(_ context.Context, _, _ string, fn func([]*domain.Product) error) error {
	for i, page := range f.pages {
		if f.failPage > 0 && i+1 == f.failPage {
			return f.err
		}
		if err := fn(page); err != nil {
			return err
		}
	}
	if f.failPage > len(f.pages) {
		return f.err
	}
	return nil
}

// acceptVerifier accepts or rejects everything.
type acceptVerifier struct{ ok bool }

func (v acceptVerifier) Verify(map[string]string) bool { return v.ok }

// stubAuthURLs builds a recognizable authorize URL.
type stubAuthURLs struct{}

func (stubAuthURLs) AuthorizeURL(shopDomain, state string) (string, error) {
	return "https://" + shopDomain + "/admin/oauth/authorize?state=" + state, nil
}

func testProduct(shopDomain, id, title string) *domain.Product {
	return &domain.Product{
		ShopDomain: shopDomain,
		ProductID:  id,
		Title:      title,
		Handle:     "handle-" + id,
		Status:     domain.ProductStatusActive,
		Variants:   []domain.Variant{{VariantID: id + "1", Title: "Default", Price: "9.99", Position: 1}},
		Options:    []domain.Option{{Name: "Title", Position: 1, Values: []string{"Default"}}},
	}
}

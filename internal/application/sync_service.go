package application

import (
	"context"
	"sync"
	"time"

	"vylist-shopify-layer/internal/domain"
	"vylist-shopify-layer/internal/infrastructure/metrics"
	"vylist-shopify-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Pass is the handle for one detached sync pass. Callers observe it through
// Done and Report; the running goroutine is the only writer.
type Pass struct {
	id         string
	shopDomain string
	startedAt  time.Time

	mu         sync.Mutex
	state      domain.SyncState
	stored     int
	pruned     int64
	err        error
	finishedAt time.Time
	done       chan struct{}
}

// Done is closed when the pass reaches a terminal state.
func (p *Pass) Done() <-chan struct{} { return p.done }

// Err returns the terminal error, or nil while running or after success.
func (p *Pass) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Stored returns the number of products written so far.
func (p *Pass) Stored() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stored
}

// Report snapshots the pass for logging and the status endpoint.
func (p *Pass) Report() domain.SyncReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	report := domain.SyncReport{
		ID:         p.id,
		ShopDomain: p.shopDomain,
		State:      p.state,
		Stored:     p.stored,
		Pruned:     p.pruned,
		StartedAt:  p.startedAt,
		FinishedAt: p.finishedAt,
	}
	if p.err != nil {
		report.Error = p.err.Error()
	}
	return report
}

func (p *Pass) setState(state domain.SyncState) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}

func (p *Pass) finish(stored int, pruned int64, err error) {
	p.mu.Lock()
	p.stored = stored
	p.pruned = pruned
	p.err = err
	if err != nil {
		p.state = domain.SyncFailed
	} else {
		p.state = domain.SyncDone
	}
	p.finishedAt = time.Now()
	p.mu.Unlock()
	close(p.done)
}

// SyncService orchestrates full-catalog sync passes: fetch pages in order,
// upsert each record, optionally prune records absent from the pull. Passes
// run detached from the triggering request; a failure aborts the remainder
// of that pass without rolling back already-written products, and the next
// trigger always restarts from the beginning.
type SyncService struct {
	fetcher     ports.CatalogFetcher
	products    ports.ProductRepository
	credentials ports.CredentialRepository
	logger      zerolog.Logger
	timeout     time.Duration
	pruneStale  bool

	mu     sync.RWMutex
	latest map[string]*Pass
}

// NewSyncService creates a sync orchestrator. timeout bounds a whole pass;
// on expiry the pass is abandoned and products already committed remain.
func NewSyncService(
	fetcher ports.CatalogFetcher,
	products ports.ProductRepository,
	credentials ports.CredentialRepository,
	timeout time.Duration,
	pruneStale bool,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		fetcher:     fetcher,
		products:    products,
		credentials: credentials,
		logger:      logger,
		timeout:     timeout,
		pruneStale:  pruneStale,
		latest:      make(map[string]*Pass),
	}
}

// Start launches a detached sync pass for the shop using the given token and
// returns its handle immediately.
func (s *SyncService) Start(shopDomain, accessToken string) *Pass {
	pass := &Pass{
		id:         uuid.NewString(),
		shopDomain: shopDomain,
		startedAt:  time.Now(),
		state:      domain.SyncPending,
		done:       make(chan struct{}),
	}

	s.mu.Lock()
	s.latest[shopDomain] = pass
	s.mu.Unlock()

	go s.run(pass, accessToken)
	return pass
}

// StartForShop looks up the shop's stored credential and launches a pass
// with it. A shop that was never installed gets domain.ErrNotInstalled.
func (s *SyncService) StartForShop(ctx context.Context, shopDomain string) (*Pass, error) {
	cred, err := s.credentials.Get(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrNotInstalled
	}
	return s.Start(shopDomain, cred.AccessToken), nil
}

// Latest returns the most recent pass for the shop, or nil when none was
// ever started in this process.
func (s *SyncService) Latest(shopDomain string) *Pass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest[shopDomain]
}

func (s *SyncService) run(pass *Pass, accessToken string) {
	metrics.ActiveSyncPasses.Inc()
	defer metrics.ActiveSyncPasses.Dec()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	log := s.logger.With().
		Str("pass", pass.id).
		Str("shop", pass.shopDomain).
		Logger()

	log.Info().Msg("Sync pass started")
	pass.setState(domain.SyncFetching)

	stored := 0
	seenIDs := []string{}

	// Page N's products are upserted before page N+1 is fetched, so the
	// final state of a product that appears on multiple pages reflects the
	// last page.
	err := s.fetcher.FetchPages(ctx, pass.shopDomain, accessToken, func(page []*domain.Product) error {
		pass.setState(domain.SyncStoring)
		for _, product := range page {
			if err := s.products.Upsert(ctx, product); err != nil {
				return err
			}
			stored++
			metrics.ProductsUpserted.Inc()
			seenIDs = append(seenIDs, product.ProductID)
		}
		pass.setState(domain.SyncFetching)
		return nil
	})
	if err != nil {
		metrics.SyncPasses.WithLabelValues("failure").Inc()
		pass.finish(stored, 0, err)
		log.Error().Err(err).Int("stored", stored).Msg("Sync pass failed")
		return
	}

	var pruned int64
	if s.pruneStale {
		pruned, err = s.products.DeleteAbsent(ctx, pass.shopDomain, seenIDs)
		if err != nil {
			metrics.SyncPasses.WithLabelValues("failure").Inc()
			pass.finish(stored, 0, err)
			log.Error().Err(err).Msg("Sync pass failed while pruning stale products")
			return
		}
		metrics.ProductsPruned.Add(float64(pruned))
	}

	metrics.SyncPasses.WithLabelValues("success").Inc()
	pass.finish(stored, pruned, nil)
	log.Info().Int("stored", stored).Int64("pruned", pruned).Msg("Sync pass completed")
}

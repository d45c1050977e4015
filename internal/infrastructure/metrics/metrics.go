package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the credential and catalog sync pipeline, exposed on
// /metrics.
var (
	TokenExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopify_token_exchanges_total",
		Help: "OAuth token exchange attempts by result.",
	}, []string{"result"})

	SyncPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_passes_total",
		Help: "Catalog sync passes by terminal state.",
	}, []string{"result"})

	ProductsUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_upserted_total",
		Help: "Product records written during sync passes.",
	})

	ProductsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_pruned_total",
		Help: "Stale product records removed after successful sync passes.",
	})

	ActiveSyncPasses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_sync_passes_active",
		Help: "Sync passes currently running.",
	})
)

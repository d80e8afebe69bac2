// Package metrics declares the Prometheus collectors of the auction site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BidsTotal counts bids by decision outcome
	BidsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_site_bids_total",
			Help: "Total number of bids by outcome",
		},
		[]string{"outcome"},
	)

	BidDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auction_site_bid_duration_seconds",
			Help:    "Time spent arbitrating a bid, store round-trips included",
			Buckets: prometheus.DefBuckets,
		},
	)

	AuctionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auction_site_auctions_created_total",
			Help: "Total number of auctions created",
		},
	)

	AuctionsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auction_site_auctions_deleted_total",
			Help: "Total number of auctions deleted",
		},
	)

	// LoginsTotal counts logins by result: created, renewed, denied
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_site_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	SessionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auction_site_sessions_swept_total",
			Help: "Total number of expired sessions removed by the sweeper",
		},
	)

	StoreRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auction_site_store_retries_total",
			Help: "Total number of transactions replayed after a concurrency conflict",
		},
	)

	// HTTPRequests counts served requests by method, route template and status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_site_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)
)

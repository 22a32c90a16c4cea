// Package metrics exposes pipeline outcome counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EpisodesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "episodes_processed_total",
		Help: "Episode pipeline runs by outcome.",
	}, []string{"outcome"})

	DigestsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "digests_processed_total",
		Help: "Digest pipeline runs by outcome.",
	}, []string{"outcome"})

	FeedRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_refreshes_total",
		Help: "Podcast feed refresh runs.",
	})

	EpisodesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "episodes_discovered_total",
		Help: "New episodes found during feed refreshes.",
	})
)

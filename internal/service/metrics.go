package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adventure_turns_processed_total",
		Help: "Number of turns committed successfully.",
	})
	turnsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adventure_turns_failed_total",
		Help: "Number of turns that failed after validation.",
	})
	narrationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adventure_narration_failures_total",
		Help: "Number of failed narration calls.",
	})
	promptTokens = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "adventure_prompt_tokens",
		Help:    "Token counts of assembled narration prompts.",
		Buckets: prometheus.ExponentialBuckets(64, 2, 10),
	})
)

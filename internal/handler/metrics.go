package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adventure_registrations_total",
		Help: "Number of successful user registrations.",
	})
	tokenVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adventure_token_verifications_total",
		Help: "Access token verification attempts by result.",
	}, []string{"result"})
)

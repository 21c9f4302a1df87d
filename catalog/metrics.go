package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "biblioteca_catalog_operations_total",
		Help: "Number of catalog mutations by operation.",
	}, []string{"op"})

	booksGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "biblioteca_books",
		Help: "Number of books in the catalog.",
	})

	usersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "biblioteca_users",
		Help: "Number of registered users.",
	})

	loansGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "biblioteca_active_loans",
		Help: "Number of open loans.",
	})
)

// Package metrics exposes prometheus counters for the catalog engine.
// All methods are safe on a nil *Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Activations *prometheus.CounterVec
	Sorts       *prometheus.CounterVec
	Searches    prometheus.Counter
	Fillers     prometheus.Counter
	Reveals     prometheus.Counter
	Restores    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "selector_activations_total",
			Help:      "Result-set selector activations by mode.",
		}, []string{"mode"}),
		Sorts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "sorts_total",
			Help:      "Secondary sorts applied by key.",
		}, []string{"sort"}),
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "searches_total",
			Help:      "Free-text searches executed.",
		}),
		Fillers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "search_fillers_total",
			Help:      "Filler products appended to thin search results.",
		}),
		Reveals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "pagination_reveals_total",
			Help:      "Infinite-scroll page reveals.",
		}),
		Restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "session_restores_total",
			Help:      "Session rehydrations by source.",
		}, []string{"source"}),
	}
	if reg != nil {
		reg.MustRegister(m.Activations, m.Sorts, m.Searches, m.Fillers, m.Reveals, m.Restores)
	}
	return m
}

func (m *Metrics) ObserveActivation(mode string) {
	if m == nil {
		return
	}
	m.Activations.WithLabelValues(mode).Inc()
}

func (m *Metrics) ObserveSort(key string) {
	if m == nil {
		return
	}
	m.Sorts.WithLabelValues(key).Inc()
}

func (m *Metrics) ObserveSearch(fillers int) {
	if m == nil {
		return
	}
	m.Searches.Inc()
	m.Fillers.Add(float64(fillers))
}

func (m *Metrics) ObserveReveal() {
	if m == nil {
		return
	}
	m.Reveals.Inc()
}

func (m *Metrics) ObserveRestore(source string) {
	if m == nil {
		return
	}
	m.Restores.WithLabelValues(source).Inc()
}

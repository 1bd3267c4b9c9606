// Package observability exposes Prometheus metrics for the tracker:
// settlement traffic (payments, reversals, refusals) and advisor traffic.
// Metrics are registered once at package init and served on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quita_payments_total",
		Help: "Settled payments by funding source.",
	}, []string{"source"})

	reversalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quita_reversals_total",
		Help: "Payment reversals (unpay operations).",
	})

	refusalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quita_refusals_total",
		Help: "Settlement operations refused by validation.",
	}, []string{"op"})

	adviceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quita_advice_requests_total",
		Help: "Advisory plan requests by outcome.",
	}, []string{"outcome"})

	chatTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quita_chat_requests_total",
		Help: "Chat requests by outcome.",
	}, []string{"outcome"})
)

// ObservePayment records a settled payment funded from the given source.
func ObservePayment(source string) { paymentsTotal.WithLabelValues(source).Inc() }

// ObserveReversal records a payment reversal.
func ObserveReversal() { reversalsTotal.Inc() }

// ObserveRefusal records a refused settlement operation (op is "pay" or "unpay").
func ObserveRefusal(op string) { refusalsTotal.WithLabelValues(op).Inc() }

// ObserveAdvice records the outcome of an advisory request.
func ObserveAdvice(err error) { adviceTotal.WithLabelValues(outcome(err)).Inc() }

// ObserveChat records the outcome of a chat request.
func ObserveChat(err error) { chatTotal.WithLabelValues(outcome(err)).Inc() }

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

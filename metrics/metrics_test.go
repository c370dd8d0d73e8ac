package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestStatusClass(t *testing.T) {
	m := New()
	m.ObserveRequest("ops", "GET", 200)
	m.ObserveRequest("ops", "GET", 204)
	m.ObserveRequest("auth", "POST", 401)
	m.ObserveRequest("ops", "GET", 0)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("ops", "GET", "2xx")); got != 2 {
		t.Errorf("2xx count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("auth", "POST", "4xx")); got != 1 {
		t.Errorf("4xx count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("ops", "GET", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestObserveRenewal(t *testing.T) {
	m := New()
	m.ObserveRenewal(RenewalRenewed)
	m.ObserveRenewal(RenewalFailed)
	m.ObserveRenewal(RenewalFailed)

	if got := testutil.ToFloat64(m.renewals.WithLabelValues(RenewalFailed)); got != 2 {
		t.Errorf("failed renewals = %v, want 2", got)
	}
}

func TestSessionGauge(t *testing.T) {
	m := New()
	m.SetSessionActive(true)
	if got := testutil.ToFloat64(m.sessions); got != 1 {
		t.Errorf("gauge = %v, want 1", got)
	}
	m.SetSessionActive(false)
	if got := testutil.ToFloat64(m.sessions); got != 0 {
		t.Errorf("gauge = %v, want 0", got)
	}
}

// SPDX-License-Identifier: MIT

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecordMutation(t *testing.T) {
	before := counterValue(t, MutationsTotal.WithLabelValues("create", "persisted"))
	RecordMutation("create", "persisted")
	after := counterValue(t, MutationsTotal.WithLabelValues("create", "persisted"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}

func TestObserveGatewayOp(t *testing.T) {
	okBefore := counterValue(t, GatewayOpsTotal.WithLabelValues("put", "ok"))
	errBefore := counterValue(t, GatewayOpsTotal.WithLabelValues("put", "error"))

	ObserveGatewayOp("put", 5*time.Millisecond, nil)
	ObserveGatewayOp("put", 5*time.Millisecond, context.DeadlineExceeded)

	if got := counterValue(t, GatewayOpsTotal.WithLabelValues("put", "ok")); got != okBefore+1 {
		t.Errorf("ok counter = %v, want %v", got, okBefore+1)
	}
	if got := counterValue(t, GatewayOpsTotal.WithLabelValues("put", "error")); got != errBefore+1 {
		t.Errorf("error counter = %v, want %v", got, errBefore+1)
	}
}

func TestSetRecordCount(t *testing.T) {
	SetRecordCount(7)
	var m dto.Metric
	if err := Records.Write(&m); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	if m.GetGauge().GetValue() != 7 {
		t.Errorf("gauge = %v, want 7", m.GetGauge().GetValue())
	}
}

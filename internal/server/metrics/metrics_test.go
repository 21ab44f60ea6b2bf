package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{common.NewKindError(common.ErrorBadRequest, "x"), "bad_request"},
		{common.ErrorUnauthorized, "unauthorized"},
		{fmt.Errorf("wrap: %w", common.ErrorNotFound), "not_found"},
		{common.ErrorConflict, "conflict"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordOperation_IncrementsByLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOperation(OpSignIn, nil)
	c.RecordOperation(OpSignIn, nil)
	c.RecordOperation(OpSignIn, common.ErrorUnauthorized)

	mf := findFamily(t, reg, "gatekeeper_auth_operations_total")
	if mf == nil {
		t.Fatal("gatekeeper_auth_operations_total metric not found")
	}

	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		if labelValue(m, "operation") != OpSignIn {
			t.Errorf("unexpected operation label %q", labelValue(m, "operation"))
		}
		got[labelValue(m, "outcome")] = m.GetCounter().GetValue()
	}
	if got["ok"] != 2 || got["unauthorized"] != 1 {
		t.Errorf("unexpected counters: %v", got)
	}
}

func TestRecordPasswordHash_Observes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPasswordHash(80 * time.Millisecond)

	mf := findFamily(t, reg, "gatekeeper_password_hash_seconds")
	if mf == nil {
		t.Fatal("gatekeeper_password_hash_seconds metric not found")
	}
	if n := mf.GetMetric()[0].GetHistogram().GetSampleCount(); n != 1 {
		t.Errorf("sample count = %d, want 1", n)
	}
}

func TestHandler_ServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordOperation(OpSignUp, nil)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `gatekeeper_auth_operations_total{operation="sign_up",outcome="ok"} 1`) {
		t.Errorf("exposition missing counter:\n%s", body)
	}
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordOperation(OpSignOut, errors.New("x"))
	r.RecordPasswordHash(time.Second)
}

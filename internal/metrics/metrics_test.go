package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) (float64, bool) {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue(), true
		}
	}
	return 0, false
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordRegister_IncrementsCounter はユーザー登録カウンタが増加することを検証する。
func TestRecordRegister_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegister()
	c.RecordRegister()

	val, found := counterValue(t, reg, "authman_register_total")
	if !found {
		t.Fatal("authman_register_total metric not found")
	}
	if val != 2 {
		t.Errorf("register_total = %v, want 2", val)
	}
}

// TestRecordLoginSuccess_IncrementsCounter はログイン成功カウンタが増加することを検証する。
func TestRecordLoginSuccess_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()

	val, found := counterValue(t, reg, "authman_login_success_total")
	if !found {
		t.Fatal("authman_login_success_total metric not found")
	}
	if val != 1 {
		t.Errorf("login_success_total = %v, want 1", val)
	}
}

// TestRecordLoginFailure_IncrementsCounter はログイン失敗カウンタが増加することを検証する。
func TestRecordLoginFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginFailure()
	c.RecordLoginFailure()
	c.RecordLoginFailure()

	val, found := counterValue(t, reg, "authman_login_fail_total")
	if !found {
		t.Fatal("authman_login_fail_total metric not found")
	}
	if val != 3 {
		t.Errorf("login_fail_total = %v, want 3", val)
	}
}

// TestRecordTokenRenewal_IncrementsCounter はサイレント更新カウンタが増加することを検証する。
func TestRecordTokenRenewal_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenRenewal()

	val, found := counterValue(t, reg, "authman_token_renewal_total")
	if !found {
		t.Fatal("authman_token_renewal_total metric not found")
	}
	if val != 1 {
		t.Errorf("token_renewal_total = %v, want 1", val)
	}
}

// TestRecordRevocation_IncrementsCounterWithLabel は失効カウンタが理由ラベル付きで増加することを検証する。
func TestRecordRevocation_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRevocation(RevocationReasonLogout)
	c.RecordRevocation(RevocationReasonLogout)
	c.RecordRevocation(RevocationReasonRefreshExpired)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "authman_revocation_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case RevocationReasonLogout:
					if val != 2 {
						t.Errorf("revocation_total{reason=logout} = %v, want 2", val)
					}
				case RevocationReasonRefreshExpired:
					if val != 1 {
						t.Errorf("revocation_total{reason=refresh_expired} = %v, want 1", val)
					}
				default:
					t.Errorf("unexpected label value: %s", label)
				}
			}
		}
	}
	if !found {
		t.Error("authman_revocation_total metric not found")
	}
}

// TestHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegister()
	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordTokenRenewal()
	c.RecordRevocation(RevocationReasonLogout)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	expectedMetrics := []string{
		"authman_register_total",
		"authman_login_success_total",
		"authman_login_fail_total",
		"authman_token_renewal_total",
		"authman_revocation_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsRecorderInterface はCollectorがRecorderインターフェースを実装することを検証する。
func TestCollector_ImplementsRecorderInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ Recorder = NewCollector(reg)
	var _ Recorder = NopRecorder{}
}

// TestMultipleCollectors_IndependentRegistries は異なるレジストリで独立に動作することを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	c2 := NewCollector(reg2)

	c1.RecordLoginSuccess()
	c2.RecordLoginSuccess()
	c2.RecordLoginSuccess()

	val1, _ := counterValue(t, reg1, "authman_login_success_total")
	val2, _ := counterValue(t, reg2, "authman_login_success_total")

	if val1 != 1 {
		t.Errorf("reg1 login_success = %v, want 1", val1)
	}
	if val2 != 2 {
		t.Errorf("reg2 login_success = %v, want 2", val2)
	}
}

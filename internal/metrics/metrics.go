// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 失効理由のラベル値
const (
	RevocationReasonLogout         = "logout"
	RevocationReasonRefreshExpired = "refresh_expired"
)

// Recorder はメトリクス収集のインターフェース。
// 認証サービスから利用する。
type Recorder interface {
	RecordRegister()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordTokenRenewal()
	RecordRevocation(reason string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registerTotal prometheus.Counter
	loginSuccess  prometheus.Counter
	loginFail     prometheus.Counter
	tokenRenewal  prometheus.Counter
	revocation    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registerTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authman_register_total",
			Help: "ユーザー登録成功の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authman_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authman_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		tokenRenewal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authman_token_renewal_total",
			Help: "アクセストークンのサイレント更新の合計数",
		}),
		revocation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authman_revocation_total",
			Help: "リフレッシュレコード失効の合計数（理由別）",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.registerTotal,
		c.loginSuccess,
		c.loginFail,
		c.tokenRenewal,
		c.revocation,
	)

	return c
}

// RecordRegister はユーザー登録成功を記録する。
func (c *Collector) RecordRegister() {
	c.registerTotal.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordTokenRenewal はアクセストークンのサイレント更新を記録する。
func (c *Collector) RecordTokenRenewal() {
	c.tokenRenewal.Inc()
}

// RecordRevocation はリフレッシュレコードの失効を理由付きで記録する。
func (c *Collector) RecordRevocation(reason string) {
	c.revocation.WithLabelValues(reason).Inc()
}

// compile-time interface check
var _ Recorder = (*Collector)(nil)

// NopRecorder は何も記録しないRecorder実装。テストおよびメトリクス無効時用。
type NopRecorder struct{}

// RecordRegister は何もしない。
func (NopRecorder) RecordRegister() {}

// RecordLoginSuccess は何もしない。
func (NopRecorder) RecordLoginSuccess() {}

// RecordLoginFailure は何もしない。
func (NopRecorder) RecordLoginFailure() {}

// RecordTokenRenewal は何もしない。
func (NopRecorder) RecordTokenRenewal() {}

// RecordRevocation は何もしない。
func (NopRecorder) RecordRevocation(reason string) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

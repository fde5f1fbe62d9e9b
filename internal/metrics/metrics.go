// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 結果ラベルの値
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailure  = "failure"
	OutcomeNetwork  = "network_error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ニュースAPIクライアントから利用する。
type MetricsCollector interface {
	RecordRequest(endpoint, outcome string)
	RecordHTTPStatus(endpoint string, statusCode int)
	RecordLatency(endpoint string, duration time.Duration)
	RecordRecordsReceived(endpoint string, count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	requests   *prometheus.CounterVec
	httpStatus *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	records    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsfront_api_requests_total",
			Help: "ニュースAPI呼び出しの結果別合計数",
		}, []string{"endpoint", "outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsfront_api_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"endpoint", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newsfront_api_latency_seconds",
			Help:    "ニュースAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newsfront_api_records_total",
			Help: "受信したニュース件数の合計",
		}, []string{"endpoint"}),
	}

	reg.MustRegister(
		c.requests,
		c.httpStatus,
		c.latency,
		c.records,
	)

	return c
}

// RecordRequest はAPI呼び出しの結果を記録する。
func (c *Collector) RecordRequest(endpoint, outcome string) {
	c.requests.WithLabelValues(endpoint, outcome).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(endpoint string, statusCode int) {
	c.httpStatus.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

// RecordLatency はAPI呼び出しのレイテンシを記録する。
func (c *Collector) RecordLatency(endpoint string, duration time.Duration) {
	c.latency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordRecordsReceived は受信したニュース件数を記録する。
func (c *Collector) RecordRecordsReceived(endpoint string, count int) {
	c.records.WithLabelValues(endpoint).Add(float64(count))
}

// NopCollector は何も記録しないMetricsCollector。
// ターミナルコマンドなど/metricsを公開しない場面で使用する。
type NopCollector struct{}

func (NopCollector) RecordRequest(string, string)        {}
func (NopCollector) RecordHTTPStatus(string, int)        {}
func (NopCollector) RecordLatency(string, time.Duration) {}
func (NopCollector) RecordRecordsReceived(string, int)   {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

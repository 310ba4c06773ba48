package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics は社員ストアと gRPC サーバーのメトリクスを保持します。
// employee.Recorder を実装します。
type Metrics struct {
	gatherer prometheus.Gatherer

	operations      *prometheus.CounterVec
	persistDuration *prometheus.HistogramVec
	records         prometheus.Gauge
	rpcRequests     *prometheus.CounterVec
	rpcLatency      *prometheus.HistogramVec
}

// New はレジストリにメトリクスを登録します。
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "employee",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of record store operations broken down by operation and result.",
		}, []string{"operation", "result"}),
		persistDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "employee",
			Subsystem: "store",
			Name:      "persist_seconds",
			Help:      "Latency distribution for snapshot writes.",
			Buckets: []float64{
				0.0005, 0.001, 0.005,
				0.01, 0.05,
				0.1, 0.5,
				1, 5,
			},
		}, []string{"result"}),
		records: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "employee",
			Subsystem: "store",
			Name:      "records",
			Help:      "Number of records in the committed collection.",
		}),
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "employee",
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "Total number of gRPC requests broken down by method and code.",
		}, []string{"method", "code"}),
		rpcLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "employee",
			Subsystem: "grpc",
			Name:      "latency_seconds",
			Help:      "Latency distribution for gRPC requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// ObserveOperation はストア操作の結果を記録します。
func (m *Metrics) ObserveOperation(op string, err error) {
	m.operations.WithLabelValues(op, result(err)).Inc()
}

// ObservePersist はスナップショット書き込みの所要時間を記録します。
func (m *Metrics) ObservePersist(seconds float64, err error) {
	m.persistDuration.WithLabelValues(result(err)).Observe(seconds)
}

// SetRecordCount はコミット済みレコード数を記録します。
func (m *Metrics) SetRecordCount(n int) {
	m.records.Set(float64(n))
}

// UnaryServerInterceptor は gRPC リクエスト数とレイテンシを記録します。
func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)
		m.rpcLatency.WithLabelValues(info.FullMethod).Observe(time.Since(started).Seconds())
		m.rpcRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}

// Handler は /metrics 用のハンドラを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}

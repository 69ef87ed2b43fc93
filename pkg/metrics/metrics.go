// Package metrics 提供基于Prometheus的指标收集
//
// 指标命名规范：
// - Counter以`_total`结尾（checkout_success_total）
// - Histogram以单位结尾（checkout_duration_seconds）
// - Gauge使用现在时态（http_requests_in_progress）
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 业务代码中
//	metrics.CheckoutSuccessTotal.Inc()
//	metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
//
// 注意：避免高基数标签（不要用user_id、isbn做label）
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板）、status（200/400/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 结算（checkout）业务指标

	// CheckoutSuccessTotal 结算成功总数（Counter）
	CheckoutSuccessTotal prometheus.Counter

	// CheckoutFailedTotal 结算失败总数（Counter）
	// 标签：reason（validation/empty_cart/insufficient_stock/persistence）
	CheckoutFailedTotal *prometheus.CounterVec

	// CheckoutDuration 结算事务耗时（Histogram）
	CheckoutDuration prometheus.Histogram

	// ReplenishmentsIssuedTotal 自动补货单创建总数（Counter）
	ReplenishmentsIssuedTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
// 说明：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booky_http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booky_http_request_duration_seconds",
			Help:    "HTTP请求耗时分布",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "booky_http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	CheckoutSuccessTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booky_checkout_success_total",
			Help: "结算成功总数",
		},
	)

	CheckoutFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booky_checkout_failed_total",
			Help: "结算失败总数",
		},
		[]string{"reason"},
	)

	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booky_checkout_duration_seconds",
			Help:    "结算事务耗时分布",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	ReplenishmentsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booky_replenishments_issued_total",
			Help: "结算事务内自动创建的补货单总数",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "booky_circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booky_circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booky_messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}

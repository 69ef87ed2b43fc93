package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestInitMetrics 指标初始化与重复调用
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration未初始化")
	}
	if HTTPRequestsInProgress == nil {
		t.Error("HTTPRequestsInProgress未初始化")
	}
	if CheckoutSuccessTotal == nil {
		t.Error("CheckoutSuccessTotal未初始化")
	}
	if CheckoutFailedTotal == nil {
		t.Error("CheckoutFailedTotal未初始化")
	}
	if ReplenishmentsIssuedTotal == nil {
		t.Error("ReplenishmentsIssuedTotal未初始化")
	}
	if MessagesPublishedTotal == nil {
		t.Error("MessagesPublishedTotal未初始化")
	}

	// 重复初始化不应该panic（promauto重复注册会panic，靠initialized标记挡住）
	InitMetrics()
}

// TestCheckoutCounters 结算计数器递增
func TestCheckoutCounters(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(CheckoutSuccessTotal)
	CheckoutSuccessTotal.Inc()
	CheckoutSuccessTotal.Inc()
	after := testutil.ToFloat64(CheckoutSuccessTotal)

	if after-before != 2 {
		t.Errorf("期望递增2，实际%f", after-before)
	}
}

// TestCheckoutFailedLabels 失败计数器按原因分标签
func TestCheckoutFailedLabels(t *testing.T) {
	InitMetrics()

	c := CheckoutFailedTotal.WithLabelValues("insufficient_stock")
	before := testutil.ToFloat64(c)
	c.Inc()

	if testutil.ToFloat64(c)-before != 1 {
		t.Error("带标签的失败计数未递增")
	}
}

// TestGauge 在途请求数增减
func TestGauge(t *testing.T) {
	InitMetrics()

	base := testutil.ToFloat64(HTTPRequestsInProgress)
	HTTPRequestsInProgress.Inc()
	HTTPRequestsInProgress.Inc()
	HTTPRequestsInProgress.Dec()

	if got := testutil.ToFloat64(HTTPRequestsInProgress); got-base != 1 {
		t.Errorf("期望净增1，实际%f", got-base)
	}
}

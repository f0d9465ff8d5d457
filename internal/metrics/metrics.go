package metrics

import (
	"errors"

	"storefront-cart/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{
	0.001, // 1ms
	0.005, // 5ms
	0.01,  // 10ms
	0.025, // 25ms
	0.05,  // 50ms
	0.1,   // 100ms
	0.25,  // 250ms
	0.5,   // 500ms
	1.0,   // 1s
	2.5,   // 2.5s
	5.0,   // 5s
}

var (
	// HTTPRequestDuration tracks the latency of HTTP requests by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// CartOperationDuration tracks the latency of cart mutations and reads.
	CartOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_cart_operation_duration_seconds",
			Help:    "Duration of cart operations in seconds",
			Buckets: latencyBuckets,
		},
		[]string{"operation", "result"},
	)

	// CouponApplications counts coupon application attempts by outcome.
	CouponApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_coupon_applications_total",
			Help: "Coupon application attempts by result",
		},
		[]string{"result"},
	)

	// CouponsImported counts coupon definitions written by the importer.
	CouponsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_coupons_imported_total",
			Help: "Coupon definitions imported from coupon files",
		},
	)
)

// Result maps an operation error to a low-cardinality label value:
// "success", the domain error code, or "error".
func Result(err error) string {
	if err == nil {
		return "success"
	}
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "error"
}

// RecordHTTPRequest records the duration of an HTTP request.
func RecordHTTPRequest(method, route, status string, duration float64) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration)
}

// RecordCartOperation records the duration and outcome of a cart operation.
func RecordCartOperation(operation string, err error, duration float64) {
	CartOperationDuration.WithLabelValues(operation, Result(err)).Observe(duration)
}

// RecordCouponApplication counts one coupon application attempt.
func RecordCouponApplication(err error) {
	CouponApplications.WithLabelValues(Result(err)).Inc()
}

// AddImportedCoupons adds n to the imported coupon counter.
func AddImportedCoupons(n int) {
	CouponsImported.Add(float64(n))
}

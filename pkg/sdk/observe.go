package matchd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// observer logs and counts SDK calls. A nil observer, or one without a
// logger and registerer, does nothing.
type observer struct {
	logger   *slog.Logger
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchd",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "SDK calls by operation and outcome.",
	}, []string{"operation", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "matchd",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK call latency in seconds.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15},
	}, []string{"operation"})

	var err error
	if o.calls, err = reuseOnConflict(reg, calls); err != nil {
		return nil, err
	}
	if o.duration, err = reuseOnConflict(reg, duration); err != nil {
		return nil, err
	}
	return o, nil
}

// reuseOnConflict registers c, or returns the collector a previous client
// already registered under the same name.
func reuseOnConflict[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("matchd: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("matchd: metric registered with a different type: %T", are.ExistingCollector)
	}
	return existing, nil
}

// track starts timing op. Call the returned func with the call's error.
func (o *observer) track(op string, attrs ...slog.Attr) func(error) {
	if o == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		dur := time.Since(start)
		status := "ok"
		if err != nil {
			status = "error"
		}
		if o.calls != nil {
			o.calls.WithLabelValues(op, status).Inc()
			o.duration.WithLabelValues(op).Observe(dur.Seconds())
		}
		if o.logger == nil {
			return
		}
		attrs = append(attrs, slog.String("op", op), slog.Duration("duration", dur))
		if err != nil {
			o.logger.LogAttrs(context.Background(), slog.LevelWarn, "matchd call failed",
				append(attrs, slog.Any("error", err))...)
			return
		}
		o.logger.LogAttrs(context.Background(), slog.LevelDebug, "matchd call completed", attrs...)
	}
}

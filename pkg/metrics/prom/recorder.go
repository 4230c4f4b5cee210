// Package prom exports badge metrics to Prometheus.
package prom

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/badge.go/pkg/pubsub"
)

// Recorder implements metrics.Recorder with Prometheus counters.
type Recorder struct {
	buttons  *prometheus.CounterVec
	leds     *prometheus.CounterVec
	display  *prometheus.CounterVec
	registry prometheus.Registerer
}

// NewRecorder creates the counters and registers them.
func NewRecorder(registry prometheus.Registerer) *Recorder {
	r := &Recorder{
		buttons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "badge_button_presses_total",
				Help: "Debounced button presses",
			},
			[]string{"button"},
		),
		leds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "badge_led_updates_total",
				Help: "LED strip commits by result",
			},
			[]string{"result"},
		),
		display: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "badge_display_redraws_total",
				Help: "Display commits by result",
			},
			[]string{"result"},
		),
		registry: registry,
	}
	registry.MustRegister(r.buttons, r.leds, r.display)
	return r
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ButtonPressed implements metrics.Recorder.
func (r *Recorder) ButtonPressed(name string) {
	r.buttons.WithLabelValues(name).Inc()
}

// LEDCommitted implements metrics.Recorder.
func (r *Recorder) LEDCommitted(err error) {
	r.leds.WithLabelValues(result(err)).Inc()
}

// DisplayRedrawn implements metrics.Recorder.
func (r *Recorder) DisplayRedrawn(err error) {
	r.display.WithLabelValues(result(err)).Inc()
}

// StatsFunc reads the counters of a bus channel.
type StatsFunc func() pubsub.Stats

// RegisterChannel exports the counters of a bus channel.
// Registering the same channel name again replaces the previous one.
func (r *Recorder) RegisterChannel(name string, stats StatsFunc) error {
	labels := prometheus.Labels{"channel": name}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "badge_bus_published_total",
			Help:        "Values published on the bus",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Published) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "badge_bus_dropped_total",
			Help:        "Values overwritten in full subscriber queues",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Dropped) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "badge_bus_subscribers",
			Help:        "Registered subscribers",
			ConstLabels: labels,
		}, func() float64 { return float64(stats().Subscribers) }),
	}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
			r.registry.Unregister(are.ExistingCollector)
			if err := r.registry.Register(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Server serves /metrics.
type Server struct {
	Addr     string
	Gatherer prometheus.Gatherer
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "metrics"
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("serving metrics on %s", s.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	<-errCh
	return ctx.Err()
}

// Package httpapi exposes a small read-only status/metrics surface over a
// gin server: process liveness, the current and next lifecycle state with
// the iteration count and last result code, and a Prometheus /metrics
// endpoint. It only ever reads
// through an engine.View and never drives a state transition (spec §5
// [FULL]).
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edgecore/wedge/engine"
)

// Metrics are the Prometheus collectors the status surface publishes,
// sampled from the engine.View on every /metrics scrape.
type Metrics struct {
	stateInfo      *prometheus.GaugeVec
	iterationCount prometheus.Gauge
	resultCode     prometheus.Gauge
}

// NewMetrics registers the collectors against registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		stateInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "edgeapp_lifecycle_state_info",
			Help: "1 for the currently occupied lifecycle state, labeled by name.",
		}, []string{"state"}),
		iterationCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edgeapp_iteration_count",
			Help: "Number of onIterate calls completed since startup.",
		}),
		resultCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edgeapp_last_result_code",
			Help: "Most recent res_info.code value.",
		}),
	}
	registerer.MustRegister(m.stateInfo, m.iterationCount, m.resultCode)
	return m
}

func (m *Metrics) sample(view engine.View) {
	m.stateInfo.Reset()
	m.stateInfo.WithLabelValues(view.State().String()).Set(1)
	m.iterationCount.Set(float64(view.IterationCount()))
	m.resultCode.Set(float64(view.ResultCode()))
}

// Server is the status/metrics HTTP surface.
type Server struct {
	view    engine.View
	metrics *Metrics
	srv     *http.Server
}

// New builds a gin-backed status server bound to view, listening on addr
// once Start is called.
func New(view engine.View, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{view: view, metrics: NewMetrics(prometheus.DefaultRegisterer)}

	router.GET("/healthz", s.handleHealthz)
	router.GET("/status", s.handleStatus)
	metricsHandler := promhttp.Handler()
	router.GET("/metrics", func(c *gin.Context) {
		s.metrics.sample(s.view)
		metricsHandler.ServeHTTP(c.Writer, c.Request)
	})

	s.srv = &http.Server{Addr: addr, Handler: router}
	return s
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	s.metrics.sample(s.view)
	c.JSON(http.StatusOK, gin.H{
		"state":            s.view.State().String(),
		"next_state":       s.view.NextState().String(),
		"iteration_count":  s.view.IterationCount(),
		"last_result_code": s.view.ResultCode().String(),
	})
}

// Start serves in the background until ctx is cancelled, then shuts down
// gracefully. Intended to be run on its own goroutine from cmd/edgeapp.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return s.srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

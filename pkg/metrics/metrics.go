package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "spanreed_game_proxy"

type ProxyMetrics struct {
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	DisconnectsTotal  *prometheus.CounterVec

	IngressFramesTotal prometheus.Counter

	EgressMessagesTotal     *prometheus.CounterVec
	EgressDecodeErrorsTotal prometheus.Counter
	RegistryMissesTotal     *prometheus.CounterVec
	DeliveriesTotal         *prometheus.CounterVec
	EvictionsTotal          prometheus.Counter
}

// CreateProxyMetrics builds the proxy collectors and registers them on reg.
// A nil reg leaves them unregistered, which is what tests want.
func CreateProxyMetrics(reg prometheus.Registerer) *ProxyMetrics {
	m := &ProxyMetrics{
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Client connections currently in the registry.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Client connections accepted.",
		}),
		DisconnectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disconnects_total",
			Help:      "Client disconnects reported to the backend, by reason.",
		}, []string{"reason"}),
		IngressFramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingress_frames_total",
			Help:      "Client frames forwarded to the backend.",
		}),
		EgressMessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "egress_messages_total",
			Help:      "Backend envelopes decoded, by message type.",
		}, []string{"type"}),
		EgressDecodeErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "egress_decode_errors_total",
			Help:      "Backend envelopes dropped because they could not be decoded.",
		}),
		RegistryMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_misses_total",
			Help:      "Backend instructions naming a connection that is no longer registered.",
		}, []string{"type"}),
		DeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Payloads enqueued onto client connections, by kind.",
		}, []string{"kind"}),
		EvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Connections shut down because their outgoing queue overflowed.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ConnectionsActive,
			m.ConnectionsTotal,
			m.DisconnectsTotal,
			m.IngressFramesTotal,
			m.EgressMessagesTotal,
			m.EgressDecodeErrorsTotal,
			m.RegistryMissesTotal,
			m.DeliveriesTotal,
			m.EvictionsTotal,
		)
	}

	return m
}

type MetricsServerParams struct {
	ListenAddress string
	Gatherer      prometheus.Gatherer
	Logger        *zap.Logger
}

// Serve exposes /metrics and /health until ctx is cancelled.
func Serve(ctx context.Context, params MetricsServerParams) error {
	log := params.Logger
	if log == nil {
		log = zap.Must(zap.NewDevelopment())
	}
	log = log.With(zap.String("handler", "Metrics"))

	gatherer := params.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:    params.ListenAddress,
		Handler: mux,
	}

	serveCtx, serveCancel := context.WithCancel(ctx)
	defer serveCancel()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-serveCtx.Done()

		shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownRelease()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to gracefully shut down metrics server", zap.Error(err))
		}
	}()

	log.Info("Starting metrics server", zap.String("address", params.ListenAddress))
	err := server.ListenAndServe()
	serveCancel()
	wg.Wait()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Main package for the Spanreed game proxy: terminates client connections and
// routes their traffic to a single game backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sessamekesh/spanreed-game-proxy/internal"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/config"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/metrics"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/proxy"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if dotenvErr := godotenv.Load(); dotenvErr != nil && !os.IsNotExist(dotenvErr) {
		fmt.Printf("Failed to load .env file! %s\n", dotenvErr.Error())
	}

	configPath := flag.String("config", "", "Path to a YAML config file. Environment variables with the SPANREED_ prefix override it")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err.Error())
		os.Exit(1)
	}

	logger, err := internal.CreateLogger(internal.LoggerParams{
		Development: cfg.Log.Development,
		Level:       cfg.Log.Level,
		FilePath:    cfg.Log.FilePath,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %s\n", err.Error())
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Spanreed game proxy stopped with an error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("Successfully shutdown Spanreed game proxy!")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	//
	// Proxy setup + attach handlers
	gameProxy := proxy.CreateProxy(proxy.ProxyConfig{
		Version: cfg.Proxy.Version,
		Logger:  logger,
		Metrics: metrics.CreateProxyMetrics(registry),

		MaxConnections: cfg.Proxy.MaxConnections,

		OutgoingClientQueueLength:      cfg.Proxy.OutgoingQueueLength,
		IncomingClientFrameQueueLength: cfg.Proxy.IngressQueueLength,
		IncomingClientFragmentSize:     cfg.Proxy.IngressFragmentSize,
		MaxClientPacketSize:            cfg.Proxy.MaxClientPacketSize,

		OutgoingDestinationMessageBufferLength: cfg.Backend.SendQueueLength,
		IncomingDestinationFrameQueueLength:    cfg.Backend.ReceiveQueueLength,
		MaxDestinationPacketSize:               cfg.Backend.MaxFrameSize,

		DeliveryWorkers:       cfg.Egress.Workers,
		LocalBroadcastRadius:  cfg.Egress.LocalBroadcastRadius,
		MaxStagedInstructions: cfg.Egress.MaxStagedInstructions,

		DisconnectReportTimeout: cfg.Proxy.DisconnectReportWait,
	})

	shutdownCtx, shutdownRelease := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer shutdownRelease()

	g, gctx := errgroup.WithContext(shutdownCtx)

	backendHandler, err := gameProxy.CreateDestinationMessageHandler("Backend")
	if err != nil {
		return err
	}
	backendLink, err := transport.CreateBackendLink(backendHandler, transport.BackendLinkParams{
		Address:     cfg.Backend.Address,
		DialTimeout: cfg.Backend.DialTimeout,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	g.Go(func() error {
		return backendLink.Start(gctx)
	})

	if cfg.Tcp.Enabled {
		tcpHandler, err := gameProxy.CreateClientMessageHandler("TCP")
		if err != nil {
			return err
		}
		tcpServer, err := transport.CreateTcpHandler(tcpHandler, transport.TcpSpanreedClientParams{
			ListenAddress: cfg.Tcp.ListenAddress,
			AcceptRate:    cfg.Tcp.AcceptRate,
			AcceptBurst:   cfg.Tcp.AcceptBurst,
			NoDelay:       cfg.Tcp.NoDelay,
			Logger:        logger,
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			return tcpServer.Start(gctx)
		})
	}

	if cfg.Websocket.Enabled {
		wsHandler, err := gameProxy.CreateClientMessageHandler("WebSocket")
		if err != nil {
			return err
		}
		wsServer, err := transport.CreateWebsocketHandler(wsHandler, transport.WebsocketSpanreedClientParams{
			ListenAddress:      cfg.Websocket.ListenAddress,
			ListenEndpoint:     cfg.Websocket.ListenEndpoint,
			AllowAllHosts:      cfg.Websocket.AllowAllHosts,
			AllowlistedHosts:   cfg.Websocket.AllowlistedHosts,
			DenylistedHosts:    cfg.Websocket.DenylistedHosts,
			MaxReadMessageSize: cfg.Websocket.MaxReadMessageSize,
			Logger:             logger,
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			return wsServer.Start(gctx)
		})
	}

	if cfg.Webtransport.Enabled {
		wtHandler, err := gameProxy.CreateClientMessageHandler("WebTransport")
		if err != nil {
			return err
		}
		wtServer, err := transport.CreateWebtransportHandler(wtHandler, transport.WebtransportSpanreedClientParams{
			ListenAddress:    cfg.Webtransport.ListenAddress,
			ListenEndpoint:   cfg.Webtransport.ListenEndpoint,
			CertPath:         cfg.Webtransport.CertPath,
			KeyPath:          cfg.Webtransport.KeyPath,
			AllowAllHosts:    cfg.Webtransport.AllowAllHosts,
			AllowlistedHosts: cfg.Webtransport.AllowlistedHosts,
			DenylistedHosts:  cfg.Webtransport.DenylistedHosts,
			Logger:           logger,
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			return wtServer.Start(gctx)
		})
	}

	if cfg.Metrics.ListenAddress != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, metrics.MetricsServerParams{
				ListenAddress: cfg.Metrics.ListenAddress,
				Gatherer:      registry,
				Logger:        logger,
			})
		})
	}

	g.Go(func() error {
		logger.Info("Starting proxy middleware")
		defer logger.Info("Stopping proxy middleware")
		return gameProxy.Start(gctx)
	})

	return g.Wait()
}

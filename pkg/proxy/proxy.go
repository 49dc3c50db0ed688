package proxy

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sessamekesh/spanreed-game-proxy/internal"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/handlers"
	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
	servertoproxy "github.com/sessamekesh/spanreed-game-proxy/pkg/message/server_to_proxy"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/metrics"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/packetchannel"
	"go.uber.org/zap"
)

type MissingDestinationHandler struct{}

func (e *MissingDestinationHandler) Error() string {
	return "Proxy started without a destination handler"
}

type DestinationHandlerAlreadyExists struct {
	Name string
}

func (e *DestinationHandlerAlreadyExists) Error() string {
	return fmt.Sprintf("Destination handler %s already attached, only one backend link is supported", e.Name)
}

type ProxyConfig struct {
	Version uint8

	Logger  *zap.Logger
	Metrics *metrics.ProxyMetrics

	MaxConnections int

	// Frames queued for each client before it is considered unable to keep up.
	OutgoingClientQueueLength int

	IncomingClientFrameQueueLength int
	IncomingClientFragmentSize     int
	MaxClientPacketSize            int

	OutgoingDestinationMessageBufferLength int
	IncomingDestinationFrameQueueLength    int
	MaxDestinationPacketSize               int

	// Also the registry shard count.
	DeliveryWorkers int

	LocalBroadcastRadius  int32
	MaxStagedInstructions int

	// How long a disconnect report may wait on the backend link once the
	// connection itself is gone.
	DisconnectReportTimeout time.Duration
}

type proxy struct {
	config ProxyConfig
	log    *zap.Logger

	metrics *metrics.ProxyMetrics

	registry  *internal.ConnectionRegistry
	startTime time.Time

	proxyToServerSerializer proxytoserver.ProxyToServerMessageSerializer
	serverToProxySerializer servertoproxy.ServerToProxyMessageSerializer

	backend    *channelBackendSender
	dispatcher *EgressDispatcher

	mut_clientHandlers sync.RWMutex
	clientHandlers     map[string]*handlers.ClientMessageHandler

	mut_destinationHandler sync.Mutex
	destinationHandler     *handlers.DestinationMessageHandler
	incomingFrames         *packetchannel.Receiver

	forwarders sync.WaitGroup
}

func CreateProxy(config ProxyConfig) *proxy {
	log := config.Logger
	if log == nil {
		log = zap.Must(zap.NewDevelopment())
	}
	log = log.With(zap.String("handler", "Proxy"))

	if config.Metrics == nil {
		config.Metrics = metrics.CreateProxyMetrics(nil)
	}
	if config.OutgoingClientQueueLength <= 0 {
		config.OutgoingClientQueueLength = 256
	}
	if config.IncomingClientFrameQueueLength <= 0 {
		config.IncomingClientFrameQueueLength = 64
	}
	if config.OutgoingDestinationMessageBufferLength <= 0 {
		config.OutgoingDestinationMessageBufferLength = 1024
	}
	if config.IncomingDestinationFrameQueueLength <= 0 {
		config.IncomingDestinationFrameQueueLength = 1024
	}
	if config.DeliveryWorkers <= 0 {
		config.DeliveryWorkers = 8
	}
	if config.LocalBroadcastRadius <= 0 {
		config.LocalBroadcastRadius = internal.DefaultLocalBroadcastRadius
	}
	if config.DisconnectReportTimeout <= 0 {
		config.DisconnectReportTimeout = 2 * time.Second
	}

	registry := internal.CreateConnectionRegistry(internal.ConnectionRegistryParams{
		MaxConnections: config.MaxConnections,
		ShardCount:     config.DeliveryWorkers,
	})

	proxyToServerSerializer := proxytoserver.ProxyToServerMessageSerializer{Version: config.Version}
	serverToProxySerializer := servertoproxy.ServerToProxyMessageSerializer{Version: config.Version}

	return &proxy{
		config:  config,
		log:     log,
		metrics: config.Metrics,

		registry:  registry,
		startTime: time.Now(),

		proxyToServerSerializer: proxyToServerSerializer,
		serverToProxySerializer: serverToProxySerializer,

		backend: createChannelBackendSender(proxyToServerSerializer, config.OutgoingDestinationMessageBufferLength),
		dispatcher: CreateEgressDispatcher(EgressDispatcherParams{
			Registry:              registry,
			Serializer:            serverToProxySerializer,
			LocalBroadcastRadius:  config.LocalBroadcastRadius,
			MaxStagedInstructions: config.MaxStagedInstructions,
			Logger:                log,
			Metrics:               config.Metrics,
		}),

		mut_clientHandlers: sync.RWMutex{},
		clientHandlers:     make(map[string]*handlers.ClientMessageHandler),
	}
}

func (p *proxy) getNowTime() int64 {
	return time.Since(p.startTime).Microseconds()
}

func (p *proxy) Registry() *internal.ConnectionRegistry {
	return p.registry
}

func (p *proxy) CreateClientMessageHandler(name string) (*handlers.ClientMessageHandler, error) {
	p.mut_clientHandlers.Lock()
	defer p.mut_clientHandlers.Unlock()

	if _, alreadyHasName := p.clientHandlers[name]; alreadyHasName {
		return nil, &errors.NameCollision{
			CollisionContext: "CreateClientMessageHandler",
			Name:             name,
		}
	}

	handler := &handlers.ClientMessageHandler{
		Name:                 name,
		GetNextClientId:      p.registry.GetNewClientId,
		GetNowTimestamp:      p.getNowTime,
		OpenClientConnection: p.OpenClientConnection,
	}
	p.clientHandlers[name] = handler

	return handler, nil
}

// CreateDestinationMessageHandler attaches the backend link. Only one may
// exist for the life of the proxy.
func (p *proxy) CreateDestinationMessageHandler(name string) (*handlers.DestinationMessageHandler, error) {
	p.mut_destinationHandler.Lock()
	defer p.mut_destinationHandler.Unlock()

	if p.destinationHandler != nil {
		return nil, &DestinationHandlerAlreadyExists{Name: p.destinationHandler.Name}
	}

	sender, receiver := packetchannel.Create(packetchannel.PacketChannelParams{
		MaxQueuedFrames: p.config.IncomingDestinationFrameQueueLength,
		MaxPacketSize:   p.config.MaxDestinationPacketSize,
	})

	p.destinationHandler = &handlers.DestinationMessageHandler{
		Name:             name,
		GetNowTimestamp:  p.getNowTime,
		IncomingFrames:   sender,
		OutgoingMessages: p.backend.outgoing,
	}
	p.incomingFrames = receiver

	return p.destinationHandler, nil
}

// OpenClientConnection registers a freshly accepted client and starts its
// forwarder. The backend hears PlayerConnect before any of its packets.
func (p *proxy) OpenClientConnection(ctx context.Context, clientId uint64) (*handlers.ClientConnection, error) {
	handle := internal.CreateConnectionHandle(clientId, p.config.OutgoingClientQueueLength)
	if err := p.registry.Insert(clientId, handle); err != nil {
		return nil, err
	}

	p.metrics.ConnectionsTotal.Inc()
	p.metrics.ConnectionsActive.Inc()

	sender, receiver := packetchannel.Create(packetchannel.PacketChannelParams{
		FragmentSize:    p.config.IncomingClientFragmentSize,
		MaxQueuedFrames: p.config.IncomingClientFrameQueueLength,
		MaxPacketSize:   p.config.MaxClientPacketSize,
	})

	p.forwarders.Add(1)
	go func() {
		defer p.forwarders.Done()
		p.forwardClientFrames(ctx, handle, receiver)
	}()

	return &handlers.ClientConnection{
		ClientId: clientId,
		Outgoing: handle.Outgoing(),
		Closed:   handle.Done(),
		Ingest: func(chunk []byte) error {
			err := sender.Send(chunk)
			if err != nil {
				handle.ShutdownWithCause(internal.CauseOther(err.Error()))
			}
			return err
		},
		Close: func(reason proxytoserver.DisconnectReason, message string) {
			sender.Close()
			p.closeHandle(handle, internal.ShutdownCause{Reason: reason, Message: message})
		},
	}, nil
}

// CloseClientConnection shuts a connection down from outside its transport.
// Closing an unknown id is a no-op.
func (p *proxy) CloseClientConnection(clientId uint64, reason proxytoserver.DisconnectReason, message string) {
	handle, has := p.registry.Get(clientId)
	if !has {
		return
	}
	p.closeHandle(handle, internal.ShutdownCause{Reason: reason, Message: message})
}

func (p *proxy) closeHandle(handle *internal.ConnectionHandle, cause internal.ShutdownCause) {
	handle.ShutdownWithCause(cause)
	p.registry.RemoveIf(handle.Id(), handle)
}

// Start runs the egress loop until ctx is cancelled or the backend link goes
// away, then waits for every forwarder to report its disconnect.
func (p *proxy) Start(ctx context.Context) error {
	incomingFrames, destinationName := func() (*packetchannel.Receiver, string) {
		p.mut_destinationHandler.Lock()
		defer p.mut_destinationHandler.Unlock()
		if p.destinationHandler == nil {
			return nil, ""
		}
		return p.incomingFrames, p.destinationHandler.Name
	}()
	if incomingFrames == nil {
		return &MissingDestinationHandler{}
	}

	p.dispatcher.Start()
	defer func() {
		p.dispatcher.Stop()
		for _, handle := range p.registry.Snapshot() {
			p.closeHandle(handle, internal.CauseOther("proxy shutting down"))
		}
		p.forwarders.Wait()
	}()

	p.log.Info("Proxy started", zap.String("destination", destinationName))

	for {
		frame, err := incomingFrames.Recv(ctx)
		if err == io.EOF {
			p.log.Error("Backend link closed, stopping proxy")
			return &errors.BackendLinkLost{Address: destinationName}
		}
		if err != nil {
			p.log.Info("Proxy stopping", zap.Error(err))
			return nil
		}

		if err := p.dispatcher.HandleMessage(frame.Bytes()); err != nil {
			p.metrics.EgressDecodeErrorsTotal.Inc()
			p.log.Warn("Dropping malformed backend message", zap.Error(err), zap.Int("size", frame.Len()))
		}
	}
}

package transport

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/sessamekesh/spanreed-game-proxy/pkg/handlers"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type TcpSpanreedClientParams struct {
	ListenAddress string

	// Accepted connections per second, with bursts up to AcceptBurst.
	// Zero disables the limit.
	AcceptRate  float64
	AcceptBurst int

	NoDelay bool

	Router ClientConnectionRouterParams

	Logger *zap.Logger
}

// tcpSpanreedClient accepts plain TCP clients. TLS is expected to be
// terminated in front of the proxy.
type tcpSpanreedClient struct {
	params  TcpSpanreedClientParams
	router  *clientConnectionRouter
	limiter *rate.Limiter

	log *zap.Logger

	mut_listener sync.Mutex
	listener     net.Listener
	ready        chan struct{}
}

func CreateTcpHandler(proxyConnection *handlers.ClientMessageHandler, params TcpSpanreedClientParams) (*tcpSpanreedClient, error) {
	logger := params.Logger
	if logger == nil {
		logger = zap.Must(zap.NewDevelopment())
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if params.AcceptRate > 0 {
		burst := params.AcceptBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(params.AcceptRate), burst)
	}

	return &tcpSpanreedClient{
		params:  params,
		router:  CreateClientConnectionRouter(proxyConnection, params.Router, logger.With(zap.String("transport", "TCP"))),
		limiter: limiter,
		log:     logger.With(zap.String("handler", "TCP")),
		ready:   make(chan struct{}),
	}, nil
}

// Addr blocks until the listener is up.
func (t *tcpSpanreedClient) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case <-t.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	t.mut_listener.Lock()
	defer t.mut_listener.Unlock()
	return t.listener.Addr(), nil
}

func (t *tcpSpanreedClient) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", t.params.ListenAddress)
	if err != nil {
		t.log.Error("Failed to listen", zap.String("address", t.params.ListenAddress), zap.Error(err))
		return err
	}

	func() {
		t.mut_listener.Lock()
		defer t.mut_listener.Unlock()
		t.listener = listener
		close(t.ready)
	}()

	t.log.Info("Starting TCP listener", zap.String("address", listener.Addr().String()))

	wg := sync.WaitGroup{}
	defer wg.Wait()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		listener.Close()
	}()

	for {
		if err := t.limiter.Wait(ctx); err != nil {
			listener.Close()
			return nil
		}

		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				t.log.Info("TCP listener closed")
				return nil
			}
			t.log.Warn("Failed to accept TCP connection", zap.Error(err))
			continue
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			tcpConn.SetNoDelay(t.params.NoDelay)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			t.router.Serve(ctx, conn)
		}()
	}
}

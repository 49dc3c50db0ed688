package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/quic-go/quic-go/http3"
	"github.com/quic-go/webtransport-go"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/handlers"
	utils "github.com/sessamekesh/spanreed-game-proxy/pkg/util"
	"go.uber.org/zap"
)

type webtransportSpanreedClient struct {
	router *clientConnectionRouter

	log *zap.Logger

	params WebtransportSpanreedClientParams

	s *webtransport.Server
}

type WebtransportSpanreedClientParams struct {
	ListenAddress  string
	ListenEndpoint string

	Logger *zap.Logger

	CertPath string
	KeyPath  string

	AllowAllHosts    bool
	AllowlistedHosts []string
	DenylistedHosts  []string

	// How long a new session may take to open its bidirectional stream.
	AcceptStreamTimeout time.Duration

	Router ClientConnectionRouterParams
}

func CreateWebtransportHandler(proxyConnection *handlers.ClientMessageHandler, params WebtransportSpanreedClientParams) (*webtransportSpanreedClient, error) {
	logger := params.Logger
	if logger == nil {
		logger = zap.Must(zap.NewDevelopment())
	}
	if params.ListenEndpoint == "" {
		params.ListenEndpoint = "/"
	}
	if params.AcceptStreamTimeout <= 0 {
		params.AcceptStreamTimeout = 10 * time.Second
	}

	return &webtransportSpanreedClient{
		router: CreateClientConnectionRouter(proxyConnection, params.Router, logger.With(zap.String("transport", "WebTransport"))),
		log:    logger.With(zap.String("handler", "WebTransport")),
		params: params,
	}, nil
}

// wtStream closes the whole session along with its only stream.
type wtStream struct {
	webtransport.Stream
	session *webtransport.Session
}

func (s *wtStream) Close() error {
	s.Stream.Close()
	return s.session.CloseWithError(0, "connection closed")
}

func (wt *webtransportSpanreedClient) onWtRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	session, sessionError := wt.s.Upgrade(w, r)
	if sessionError != nil {
		wt.log.Warn("Failed to upgrade HTTP3 request to a WebTransport session", zap.Error(sessionError))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	acceptCtx, acceptCancel := context.WithTimeout(ctx, wt.params.AcceptStreamTimeout)
	defer acceptCancel()

	stream, err := session.AcceptStream(acceptCtx)
	if err != nil {
		wt.log.Warn("WebTransport session never opened a stream", zap.Error(err))
		session.CloseWithError(0, "expected a bidirectional stream")
		return
	}

	wt.router.Serve(ctx, &wtStream{Stream: stream, session: session})
}

func (wt *webtransportSpanreedClient) Start(ctx context.Context) error {
	certs, err := tls.LoadX509KeyPair(wt.params.CertPath, wt.params.KeyPath)
	if err != nil {
		wt.log.Error("Failed to load certificate pair", zap.Error(err))
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc(wt.params.ListenEndpoint, func(w http.ResponseWriter, r *http.Request) {
		wt.onWtRequest(ctx, w, r)
	})

	hosts := utils.HostFilter{
		AllowAllHosts:    wt.params.AllowAllHosts,
		AllowlistedHosts: wt.params.AllowlistedHosts,
		DenylistedHosts:  wt.params.DenylistedHosts,
	}

	wt.s = &webtransport.Server{
		H3: http3.Server{
			Addr:      wt.params.ListenAddress,
			TLSConfig: &tls.Config{Certificates: []tls.Certificate{certs}},
			Handler:   mux,
		},
		CheckOrigin: hosts.CheckOrigin,
	}

	serveCtx, serveCancel := context.WithCancel(ctx)
	defer serveCancel()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-serveCtx.Done()
		if err := wt.s.Close(); err != nil {
			wt.log.Error("Failed to close WebTransport server", zap.Error(err))
		}
	}()

	wt.log.Info("Starting WebTransport HTTP3 server", zap.String("address", wt.params.ListenAddress))
	err = wt.s.ListenAndServeTLS(wt.params.CertPath, wt.params.KeyPath)
	serveCancel()
	wg.Wait()

	if ctx.Err() != nil || errors.Is(err, http.ErrServerClosed) {
		wt.log.Info("All WebTransport server goroutines finished. Exiting gracefully.")
		return nil
	}
	wt.log.Error("Unexpected WebTransport server close!", zap.Error(err))
	return err
}

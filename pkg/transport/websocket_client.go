package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/handlers"
	utils "github.com/sessamekesh/spanreed-game-proxy/pkg/util"
	"go.uber.org/zap"
)

type websocketSpanreedClient struct {
	upgrader *websocket.Upgrader

	params WebsocketSpanreedClientParams
	router *clientConnectionRouter

	log *zap.Logger
}

type WebsocketSpanreedClientParams struct {
	ListenAddress    string
	ListenEndpoint   string
	AllowAllHosts    bool
	AllowlistedHosts []string
	DenylistedHosts  []string

	MaxReadMessageSize int64
	ReadBufferSize     int
	WriteBufferSize    int

	Router ClientConnectionRouterParams

	Logger *zap.Logger
}

var expectedCloseErrors = []int{websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived}

func CreateWebsocketHandler(proxyConnection *handlers.ClientMessageHandler, params WebsocketSpanreedClientParams) (*websocketSpanreedClient, error) {
	logger := params.Logger
	if logger == nil {
		logger = zap.Must(zap.NewDevelopment())
	}
	if params.ListenEndpoint == "" {
		params.ListenEndpoint = "/"
	}
	if params.MaxReadMessageSize <= 0 {
		params.MaxReadMessageSize = 64 * 1024
	}

	hosts := utils.HostFilter{
		AllowAllHosts:    params.AllowAllHosts,
		AllowlistedHosts: params.AllowlistedHosts,
		DenylistedHosts:  params.DenylistedHosts,
	}

	return &websocketSpanreedClient{
		upgrader: &websocket.Upgrader{
			CheckOrigin:     hosts.CheckOrigin,
			ReadBufferSize:  params.ReadBufferSize,
			WriteBufferSize: params.WriteBufferSize,
		},
		params: params,
		router: CreateClientConnectionRouter(proxyConnection, params.Router, logger.With(zap.String("transport", "WebSocket"))),
		log:    logger.With(zap.String("handler", "WebSocket")),
	}, nil
}

// wsStream presents the binary messages of a WebSocket connection as one
// continuous byte stream. Message boundaries carry no meaning.
type wsStream struct {
	c   *websocket.Conn
	log *zap.Logger

	reader    io.Reader
	closeOnce sync.Once
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.reader == nil {
			msgType, reader, err := s.c.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, expectedCloseErrors...) {
					return 0, io.EOF
				}
				return 0, err
			}
			if msgType != websocket.BinaryMessage {
				s.log.Info("Received non-binary message, ignoring")
				continue
			}
			s.reader = reader
		}

		n, err := s.reader.Read(p)
		if errors.Is(err, io.EOF) {
			s.reader = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.c.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *wsStream) SetWriteDeadline(t time.Time) error {
	return s.c.SetWriteDeadline(t)
}

func (s *wsStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.c.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = s.c.Close()
	})
	return err
}

func (ws *websocketSpanreedClient) onWsRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ws.log.Debug("New WebSocket request", zap.String("remoteAddr", r.RemoteAddr))

	c, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.log.Warn("Failed to upgrade HTTP request to WebSocket connection", zap.Error(err))
		return
	}
	c.SetReadLimit(ws.params.MaxReadMessageSize)

	ws.router.Serve(ctx, &wsStream{c: c, log: ws.log})
}

func (ws *websocketSpanreedClient) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(ws.params.ListenEndpoint, func(w http.ResponseWriter, r *http.Request) {
		ws.onWsRequest(ctx, w, r)
	})

	server := &http.Server{
		Addr:              ws.params.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveCtx, serveCancel := context.WithCancel(ctx)
	defer serveCancel()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()

		<-serveCtx.Done()

		shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownRelease()
		ws.log.Info("Attempting to trigger shutdown of WebSocket server")

		if err := server.Shutdown(shutdownCtx); err != nil {
			ws.log.Error("Failed to gracefully shut down WebSocket server", zap.Error(err))
			return
		}
		ws.log.Info("Successfully shutdown WebSocket server")
	}()

	ws.log.Info("Starting WebSocket server", zap.String("address", ws.params.ListenAddress), zap.String("endpoint", ws.params.ListenEndpoint))
	err := server.ListenAndServe()
	serveCancel()
	wg.Wait()

	if errors.Is(err, http.ErrServerClosed) {
		ws.log.Info("All WebSocket server goroutines finished. Exiting gracefully!")
		return nil
	}
	ws.log.Error("Unexpected WebSocket server close!", zap.Error(err))
	return err
}

package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sessamekesh/spanreed-game-proxy/pkg/handlers"
	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
	utils "github.com/sessamekesh/spanreed-game-proxy/pkg/util"
	"go.uber.org/zap"
)

type ClientConnectionRouterParams struct {
	ReadBufferSize int

	// Frames coalesced into one write.
	MaxWriteBatch int

	// How long queued frames may take to go out once the proxy closes the
	// connection. Only honored by streams with write deadlines.
	CloseFlushTimeout time.Duration
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// clientConnectionRouter pumps accepted client byte streams in and out of
// the proxy. Every transport hands its streams to one.
type clientConnectionRouter struct {
	proxyConnection *handlers.ClientMessageHandler
	params          ClientConnectionRouterParams

	log       *zap.Logger
	stringGen *utils.RandomStringGenerator
}

func CreateClientConnectionRouter(proxyConnection *handlers.ClientMessageHandler, params ClientConnectionRouterParams, logger *zap.Logger) *clientConnectionRouter {
	log := logger
	if log == nil {
		log = zap.Must(zap.NewDevelopment())
	}

	if params.ReadBufferSize <= 0 {
		params.ReadBufferSize = 8 * 1024
	}
	if params.MaxWriteBatch <= 0 {
		params.MaxWriteBatch = 16
	}
	if params.CloseFlushTimeout <= 0 {
		params.CloseFlushTimeout = time.Second
	}

	return &clientConnectionRouter{
		proxyConnection: proxyConnection,
		params:          params,
		log:             log.With(zap.String("handlerBase", "ClientConnectionRouter")),
		stringGen:       utils.CreateRandomstringGenerator(time.Now().UnixMicro()),
	}
}

// Serve registers stream with the proxy and pumps it until either side
// closes it. The stream is always closed on return.
func (r *clientConnectionRouter) Serve(ctx context.Context, stream io.ReadWriteCloser) error {
	clientId := r.proxyConnection.GetNextClientId()
	log := r.log.With(
		zap.Uint64("clientId", clientId),
		zap.String("connTag", r.stringGen.GetRandomString(6)))

	conn, err := r.proxyConnection.OpenClientConnection(ctx, clientId)
	if err != nil {
		log.Warn("Refusing client connection", zap.Error(err))
		stream.Close()
		return err
	}

	log.Info("New client connection")

	closeStream := sync.OnceFunc(func() {
		stream.Close()
	})

	wg := sync.WaitGroup{}
	wg.Add(2)

	//
	// Proxy -> client
	go func() {
		defer wg.Done()
		defer closeStream()

		batch := make(net.Buffers, 0, r.params.MaxWriteBatch)
		for {
			select {
			case <-ctx.Done():
				conn.Close(proxytoserver.DisconnectReason_Other, "proxy shutting down")
				return
			case <-conn.Closed:
				r.flushOnClose(stream, conn, batch, log)
				return
			case frame := <-conn.Outgoing:
				if err := r.writeBatch(stream, conn, append(batch[:0], frame)); err != nil {
					log.Debug("Client write failed", zap.Error(err))
					conn.Close(proxytoserver.DisconnectReason_LostConnection, err.Error())
					return
				}
			}
		}
	}()

	//
	// Client -> proxy
	go func() {
		defer wg.Done()
		defer closeStream()

		buf := make([]byte, r.params.ReadBufferSize)
		for {
			n, readErr := stream.Read(buf)
			if n > 0 {
				if err := conn.Ingest(buf[:n]); err != nil {
					log.Warn("Rejecting client stream", zap.Error(err))
					return
				}
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					log.Info("Client closed connection")
					conn.Close(proxytoserver.DisconnectReason_LostConnection, "")
				} else {
					log.Debug("Client read failed", zap.Error(readErr))
					conn.Close(proxytoserver.DisconnectReason_LostConnection, readErr.Error())
				}
				return
			}
		}
	}()

	wg.Wait()
	log.Info("Client connection finished")
	return nil
}

// writeBatch tops batch up with whatever else is already queued and writes
// it in one go.
func (r *clientConnectionRouter) writeBatch(stream io.Writer, conn *handlers.ClientConnection, batch net.Buffers) error {
	for len(batch) < r.params.MaxWriteBatch {
		select {
		case frame := <-conn.Outgoing:
			batch = append(batch, frame)
			continue
		default:
		}
		break
	}

	_, err := batch.WriteTo(stream)
	return err
}

// flushOnClose writes frames queued before the proxy closed the connection,
// as long as the client is still reading.
func (r *clientConnectionRouter) flushOnClose(stream io.Writer, conn *handlers.ClientConnection, batch net.Buffers, log *zap.Logger) {
	if len(conn.Outgoing) == 0 {
		return
	}

	deadliner, ok := stream.(writeDeadliner)
	if !ok {
		return
	}
	if err := deadliner.SetWriteDeadline(time.Now().Add(r.params.CloseFlushTimeout)); err != nil {
		return
	}

	for len(conn.Outgoing) > 0 {
		if err := r.writeBatch(stream, conn, batch[:0]); err != nil {
			log.Debug("Dropping frames queued for a closed client", zap.Error(err))
			return
		}
	}
}

package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"net"
	"time"

	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/handlers"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BackendLinkParams struct {
	Address     string
	DialTimeout time.Duration

	ReadBufferSize  int
	WriteBufferSize int

	Logger *zap.Logger
}

// backendLink carries both message families over a single TCP connection to
// the game backend, each envelope behind a VarInt length prefix.
type backendLink struct {
	proxyConnection *handlers.DestinationMessageHandler
	params          BackendLinkParams

	log *zap.Logger
}

func CreateBackendLink(proxyConnection *handlers.DestinationMessageHandler, params BackendLinkParams) (*backendLink, error) {
	logger := params.Logger
	if logger == nil {
		logger = zap.Must(zap.NewDevelopment())
	}
	if params.DialTimeout <= 0 {
		params.DialTimeout = 5 * time.Second
	}
	if params.ReadBufferSize <= 0 {
		params.ReadBufferSize = 64 * 1024
	}
	if params.WriteBufferSize <= 0 {
		params.WriteBufferSize = 64 * 1024
	}

	return &backendLink{
		proxyConnection: proxyConnection,
		params:          params,
		log:             logger.With(zap.String("handler", "BackendLink"), zap.String("address", params.Address)),
	}, nil
}

// Start dials the backend and runs the link until ctx is cancelled, which
// returns nil, or the connection fails, which returns BackendLinkLost. The
// destination handler's frame channel is closed either way.
func (b *backendLink) Start(ctx context.Context) error {
	dialer := net.Dialer{Timeout: b.params.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", b.params.Address)
	if err != nil {
		b.proxyConnection.IncomingFrames.Close()
		b.log.Error("Failed to connect to backend", zap.Error(err))
		return &errors.BackendLinkLost{Address: b.params.Address, Cause: err}
	}

	b.log.Info("Connected to backend")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return conn.Close()
	})

	//
	// Backend -> proxy
	g.Go(func() error {
		defer b.proxyConnection.IncomingFrames.Close()

		buf := make([]byte, b.params.ReadBufferSize)
		for {
			n, readErr := conn.Read(buf)
			if n > 0 {
				if err := b.proxyConnection.IncomingFrames.SendWait(gctx, buf[:n]); err != nil {
					return &errors.BackendLinkLost{Address: b.params.Address, Cause: err}
				}
			}
			if readErr != nil {
				return &errors.BackendLinkLost{Address: b.params.Address, Cause: readErr}
			}
		}
	})

	//
	// Proxy -> backend
	g.Go(func() error {
		w := bufio.NewWriterSize(conn, b.params.WriteBufferSize)
		header := make([]byte, 0, binary.MaxVarintLen64)

		for {
			select {
			case <-gctx.Done():
				return nil
			case msg := <-b.proxyConnection.OutgoingMessages:
				header = binary.AppendUvarint(header[:0], uint64(len(msg)))
				if _, err := w.Write(header); err != nil {
					return &errors.BackendLinkLost{Address: b.params.Address, Cause: err}
				}
				if _, err := w.Write(msg); err != nil {
					return &errors.BackendLinkLost{Address: b.params.Address, Cause: err}
				}

				if len(b.proxyConnection.OutgoingMessages) == 0 {
					if err := w.Flush(); err != nil {
						return &errors.BackendLinkLost{Address: b.params.Address, Cause: err}
					}
				}
			}
		}
	})

	err = g.Wait()
	if ctx.Err() != nil {
		b.log.Info("Backend link closed")
		return nil
	}

	b.log.Error("Lost backend link", zap.Error(err))
	return err
}

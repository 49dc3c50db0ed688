package proxy

import (
	"context"

	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
)

// BackendSender delivers proxy to backend messages in the order Send is
// called. Send blocks while the link is backed up.
type BackendSender interface {
	Send(ctx context.Context, msg *proxytoserver.ProxyToServerMessage) error
}

type channelBackendSender struct {
	serializer proxytoserver.ProxyToServerMessageSerializer
	outgoing   chan []byte
}

func createChannelBackendSender(serializer proxytoserver.ProxyToServerMessageSerializer, bufferLength int) *channelBackendSender {
	return &channelBackendSender{
		serializer: serializer,
		outgoing:   make(chan []byte, bufferLength),
	}
}

func (b *channelBackendSender) Send(ctx context.Context, msg *proxytoserver.ProxyToServerMessage) error {
	raw, err := b.serializer.SerializeMessage(msg)
	if err != nil {
		return err
	}

	select {
	case b.outgoing <- raw:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

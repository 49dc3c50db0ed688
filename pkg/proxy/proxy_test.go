package proxy

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/handlers"
	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
	servertoproxy "github.com/sessamekesh/spanreed-game-proxy/pkg/message/server_to_proxy"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/packetchannel"
	"go.uber.org/zap/zaptest"
)

type proxyFixture struct {
	proxy   *proxy
	dest    *handlers.DestinationMessageHandler
	clients *handlers.ClientMessageHandler
	done    chan error
	cancel  context.CancelFunc
	ctx     context.Context
}

func startProxy(t *testing.T) *proxyFixture {
	p := CreateProxy(ProxyConfig{Logger: zaptest.NewLogger(t)})

	dest, err := p.CreateDestinationMessageHandler("backend")
	if err != nil {
		t.Fatalf("destination handler: %v", err)
	}
	clients, err := p.CreateClientMessageHandler("test")
	if err != nil {
		t.Fatalf("client handler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Start(ctx)
	}()

	f := &proxyFixture{proxy: p, dest: dest, clients: clients, done: done, cancel: cancel, ctx: ctx}
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return f
}

func (f *proxyFixture) nextBackendMessage(t *testing.T) *proxytoserver.ProxyToServerMessage {
	t.Helper()
	select {
	case raw := <-f.dest.OutgoingMessages:
		msg, err := proxytoserver.ProxyToServerMessageSerializer{}.Parse(raw)
		if err != nil {
			t.Fatalf("parse backend message: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a backend message")
	}
	return nil
}

func (f *proxyFixture) sendFromBackend(t *testing.T, msg *servertoproxy.ServerToProxyMessage) {
	t.Helper()
	raw, err := servertoproxy.ServerToProxyMessageSerializer{}.SerializeMessage(msg)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if err := f.dest.IncomingFrames.SendWait(f.ctx, packetchannel.AppendFrame(nil, raw)); err != nil {
		t.Fatalf("send from backend: %v", err)
	}
}

func (f *proxyFixture) open(t *testing.T) *handlers.ClientConnection {
	t.Helper()
	conn, err := f.clients.OpenClientConnection(f.ctx, f.clients.GetNextClientId())
	if err != nil {
		t.Fatalf("open client: %v", err)
	}

	msg := f.nextBackendMessage(t)
	if msg.MessageType != proxytoserver.ProxyToServerMessageType_PlayerConnect || msg.PlayerConnect.Stream != conn.ClientId {
		t.Fatalf("expected PlayerConnect for %d, got %s", conn.ClientId, msg.MessageType)
	}
	return conn
}

func expectDisconnect(t *testing.T, msg *proxytoserver.ProxyToServerMessage, stream uint64, reason proxytoserver.DisconnectReason) {
	t.Helper()
	if msg.MessageType != proxytoserver.ProxyToServerMessageType_PlayerDisconnect {
		t.Fatalf("expected PlayerDisconnect, got %s", msg.MessageType)
	}
	if msg.PlayerDisconnect.Stream != stream || msg.PlayerDisconnect.Reason != reason {
		t.Fatalf("expected disconnect of %d with %s, got %+v", stream, reason, msg.PlayerDisconnect)
	}
}

func TestClientTrafficReachesBackend(t *testing.T) {
	f := startProxy(t)
	conn := f.open(t)

	stream := packetchannel.AppendFrame(nil, []byte("hello"))
	stream = packetchannel.AppendFrame(stream, []byte("world"))
	if err := conn.Ingest(stream[:3]); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := conn.Ingest(stream[3:]); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	got := []byte{}
	for len(got) < len(stream) {
		msg := f.nextBackendMessage(t)
		if msg.MessageType != proxytoserver.ProxyToServerMessageType_PlayerPackets {
			t.Fatalf("expected PlayerPackets, got %s", msg.MessageType)
		}
		got = append(got, msg.PlayerPackets.Data...)
	}
	if string(got) != string(stream) {
		t.Fatalf("backend saw %q, want %q", got, stream)
	}

	conn.Close(proxytoserver.DisconnectReason_LostConnection, "")
	expectDisconnect(t, f.nextBackendMessage(t), conn.ClientId, proxytoserver.DisconnectReason_LostConnection)
}

func TestClientPrefixesReachBackendUnchanged(t *testing.T) {
	f := startProxy(t)
	conn := f.open(t)

	// A three byte prefix for a two byte payload.
	stream := []byte{0x82, 0x80, 0x00, 'h', 'i'}
	if err := conn.Ingest(stream); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	msg := f.nextBackendMessage(t)
	if msg.MessageType != proxytoserver.ProxyToServerMessageType_PlayerPackets {
		t.Fatalf("expected PlayerPackets, got %s", msg.MessageType)
	}
	if string(msg.PlayerPackets.Data) != string(stream) {
		t.Fatalf("backend saw %q, want %q", msg.PlayerPackets.Data, stream)
	}
}

func TestBackendUnicastReachesClient(t *testing.T) {
	f := startProxy(t)
	conn := f.open(t)

	// The backend sends packets already framed for the client; two of them
	// ride in a single Unicast.
	data := packetchannel.AppendFrame(nil, []byte("hi"))
	data = packetchannel.AppendFrame(data, []byte("there"))
	f.sendFromBackend(t, &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_Unicast,
		Unicast:     &servertoproxy.Unicast{Stream: conn.ClientId, Order: 1, Data: data},
	})
	f.sendFromBackend(t, &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_Flush,
		Flush:       &servertoproxy.Flush{},
	})

	select {
	case raw := <-conn.Outgoing:
		if string(raw) != string(data) {
			t.Fatalf("client got %q, want %q", raw, data)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the unicast")
	}
}

func TestBackendShutdownReportsDisconnect(t *testing.T) {
	f := startProxy(t)
	conn := f.open(t)

	f.sendFromBackend(t, &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_Shutdown,
		Shutdown:    &servertoproxy.Shutdown{Stream: conn.ClientId},
	})
	f.sendFromBackend(t, &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_Flush,
		Flush:       &servertoproxy.Flush{},
	})

	select {
	case <-conn.Closed:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the connection to close")
	}
	expectDisconnect(t, f.nextBackendMessage(t), conn.ClientId, proxytoserver.DisconnectReason_Other)

	select {
	case raw := <-f.dest.OutgoingMessages:
		t.Fatalf("expected a single disconnect report, got another message of %d bytes", len(raw))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMalformedClientStreamDisconnects(t *testing.T) {
	f := startProxy(t)
	conn := f.open(t)

	if err := conn.Ingest([]byte{0}); err == nil {
		t.Fatalf("expected a zero length frame to be rejected")
	}
	expectDisconnect(t, f.nextBackendMessage(t), conn.ClientId, proxytoserver.DisconnectReason_Other)
}

func TestBackendLinkLossStopsProxy(t *testing.T) {
	f := startProxy(t)
	conn := f.open(t)

	f.dest.IncomingFrames.Close()

	select {
	case err := <-f.done:
		f.done <- err
		var lost *errors.BackendLinkLost
		if !stderrors.As(err, &lost) {
			t.Fatalf("expected BackendLinkLost, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the proxy to stop")
	}

	expectDisconnect(t, f.nextBackendMessage(t), conn.ClientId, proxytoserver.DisconnectReason_Other)
}

func TestHandlerRegistration(t *testing.T) {
	p := CreateProxy(ProxyConfig{Logger: zaptest.NewLogger(t)})

	if err := p.Start(context.Background()); err == nil {
		t.Fatalf("expected Start without a destination handler to fail")
	}

	if _, err := p.CreateClientMessageHandler("ws"); err != nil {
		t.Fatalf("first client handler: %v", err)
	}
	if _, err := p.CreateClientMessageHandler("ws"); err == nil {
		t.Fatalf("expected a name collision")
	}

	if _, err := p.CreateDestinationMessageHandler("a"); err != nil {
		t.Fatalf("first destination handler: %v", err)
	}
	if _, err := p.CreateDestinationMessageHandler("b"); err == nil {
		t.Fatalf("expected a second destination handler to be refused")
	}
}

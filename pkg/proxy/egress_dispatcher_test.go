package proxy

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sessamekesh/spanreed-game-proxy/internal"
	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
	servertoproxy "github.com/sessamekesh/spanreed-game-proxy/pkg/message/server_to_proxy"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/metrics"
	"go.uber.org/zap/zaptest"
)

type dispatcherFixture struct {
	registry   *internal.ConnectionRegistry
	dispatcher *EgressDispatcher
	metrics    *metrics.ProxyMetrics
	serializer servertoproxy.ServerToProxyMessageSerializer
}

func createDispatcherFixture(t *testing.T, maxStaged int) *dispatcherFixture {
	f := createIdleDispatcherFixture(t, maxStaged)
	f.dispatcher.Start()
	t.Cleanup(f.dispatcher.Stop)
	return f
}

// createIdleDispatcherFixture leaves the delivery workers stopped.
func createIdleDispatcherFixture(t *testing.T, maxStaged int) *dispatcherFixture {
	registry := internal.CreateConnectionRegistry(internal.ConnectionRegistryParams{ShardCount: 4})
	m := metrics.CreateProxyMetrics(nil)
	d := CreateEgressDispatcher(EgressDispatcherParams{
		Registry:              registry,
		MaxStagedInstructions: maxStaged,
		Logger:                zaptest.NewLogger(t),
		Metrics:               m,
	})

	return &dispatcherFixture{
		registry:   registry,
		dispatcher: d,
		metrics:    m,
	}
}

func (f *dispatcherFixture) connect(t *testing.T, id uint64, queueLen int, armed bool) *internal.ConnectionHandle {
	h := internal.CreateConnectionHandle(id, queueLen)
	if err := f.registry.Insert(id, h); err != nil {
		t.Fatalf("insert %d: %v", id, err)
	}
	if armed {
		h.EnableReceiveBroadcasts()
	}
	return h
}

func (f *dispatcherFixture) handle(t *testing.T, msg *servertoproxy.ServerToProxyMessage) {
	t.Helper()
	raw, err := f.serializer.SerializeMessage(msg)
	if err != nil {
		t.Fatalf("serialize %s: %v", msg.MessageType, err)
	}
	if err := f.dispatcher.HandleMessage(raw); err != nil {
		t.Fatalf("handle %s: %v", msg.MessageType, err)
	}
}

func (f *dispatcherFixture) flush(t *testing.T) {
	t.Helper()
	f.handle(t, &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_Flush,
		Flush:       &servertoproxy.Flush{},
	})
	f.dispatcher.Drain()
}

func unicast(stream uint64, order uint32, data string) *servertoproxy.ServerToProxyMessage {
	return &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_Unicast,
		Unicast:     &servertoproxy.Unicast{Stream: stream, Order: order, Data: []byte(data)},
	}
}

func broadcastGlobal(exclude uint64, order uint32, data string) *servertoproxy.ServerToProxyMessage {
	return &servertoproxy.ServerToProxyMessage{
		MessageType:     servertoproxy.ServerToProxyMessageType_BroadcastGlobal,
		BroadcastGlobal: &servertoproxy.BroadcastGlobal{Exclude: exclude, Order: order, Data: []byte(data)},
	}
}

func broadcastLocal(x, z int16, exclude uint64, order uint32, data string) *servertoproxy.ServerToProxyMessage {
	return &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_BroadcastLocal,
		BroadcastLocal: &servertoproxy.BroadcastLocal{
			Center:  servertoproxy.ChunkPosition{X: x, Z: z},
			Exclude: exclude,
			Order:   order,
			Data:    []byte(data),
		},
	}
}

func positions(streams []uint64, positions []servertoproxy.ChunkPosition) *servertoproxy.ServerToProxyMessage {
	return &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_UpdatePlayerChunkPositions,
		UpdatePlayerChunkPositions: &servertoproxy.UpdatePlayerChunkPositions{
			Streams:   streams,
			Positions: positions,
		},
	}
}

func received(h *internal.ConnectionHandle) []string {
	out := []string{}
	for {
		select {
		case raw := <-h.Outgoing():
			out = append(out, string(raw))
		default:
			return out
		}
	}
}

func expectReceived(t *testing.T, h *internal.ConnectionHandle, want ...string) {
	t.Helper()
	got := received(h)
	if len(got) != len(want) {
		t.Fatalf("client %d: got %q, want %q", h.Id(), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("client %d frame %d: got %q, want %q", h.Id(), i, got[i], want[i])
		}
	}
}

func TestDeliveryFollowsOrderTokens(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	h := f.connect(t, 1, 16, true)

	f.handle(t, unicast(1, 6, "second"))
	f.handle(t, unicast(1, 5, "first"))
	f.handle(t, broadcastGlobal(0, 6, "third"))

	if got := received(h); len(got) != 0 {
		t.Fatalf("nothing should be delivered before Flush, got %q", got)
	}

	f.flush(t)
	expectReceived(t, h, "first", "second", "third")
}

func TestOrderAcrossTicks(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	h := f.connect(t, 1, 16, false)

	f.handle(t, unicast(1, 9, "tick one"))
	f.flush(t)
	f.handle(t, unicast(1, 1, "tick two"))
	f.flush(t)

	expectReceived(t, h, "tick one", "tick two")
}

func TestBroadcastGlobalSkipsExcluded(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	h1 := f.connect(t, 1, 16, true)
	h2 := f.connect(t, 2, 16, true)
	h3 := f.connect(t, 3, 16, true)

	f.handle(t, broadcastGlobal(2, 1, "ping"))
	f.flush(t)

	expectReceived(t, h1, "ping")
	expectReceived(t, h2)
	expectReceived(t, h3, "ping")
}

func TestPayloadsAreDeliveredUnchanged(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	h1 := f.connect(t, 1, 16, true)
	h3 := f.connect(t, 3, 16, true)

	// Two length-prefixed client packets carried in one payload.
	batch := string([]byte{0x04, 'p', 'i', 'n', 'g', 0x04, 'p', 'o', 'n', 'g'})

	f.handle(t, broadcastGlobal(2, 1, "ping"))
	f.handle(t, unicast(3, 2, batch))
	f.flush(t)

	expectReceived(t, h1, "ping")
	expectReceived(t, h3, "ping", batch)
}

func TestBroadcastTokensHoldOnEveryShard(t *testing.T) {
	f := createDispatcherFixture(t, 0)

	handles := []*internal.ConnectionHandle{}
	for id := uint64(1); id <= 12; id++ {
		handles = append(handles, f.connect(t, id, 64, true))
	}
	shards := map[int]bool{}
	for _, h := range handles {
		shards[f.registry.ShardFor(h.Id())] = true
	}
	if len(shards) < 2 {
		t.Fatalf("expected connections on several shards, got %d", len(shards))
	}

	for tick := 0; tick < 10; tick++ {
		f.handle(t, broadcastGlobal(0, 6, "six"))
		f.handle(t, broadcastGlobal(0, 5, "five"))
		f.flush(t)
	}

	for _, h := range handles {
		want := []string{}
		for tick := 0; tick < 10; tick++ {
			want = append(want, "five", "six")
		}
		expectReceived(t, h, want...)
	}
}

func TestDispatcherWithoutWorkersAppliesInline(t *testing.T) {
	f := createIdleDispatcherFixture(t, 0)
	h1 := f.connect(t, 1, 16, true)
	h2 := f.connect(t, 2, 16, true)

	f.handle(t, unicast(2, 2, "second"))
	f.handle(t, unicast(1, 1, "direct"))
	f.handle(t, broadcastGlobal(0, 1, "first"))
	f.flush(t)

	expectReceived(t, h1, "direct", "first")
	expectReceived(t, h2, "first", "second")

	f.dispatcher.Start()
	f.dispatcher.Stop()

	f.handle(t, unicast(1, 1, "after stop"))
	f.flush(t)
	expectReceived(t, h1, "after stop")

	f.handle(t, unicast(2, 1, "staged at stop"))
	f.dispatcher.Stop()
	expectReceived(t, h2, "staged at stop")
}

func TestBroadcastRequiresArming(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	armed := f.connect(t, 1, 16, true)
	unarmed := f.connect(t, 2, 16, false)

	f.handle(t, broadcastGlobal(0, 1, "before"))
	f.flush(t)
	expectReceived(t, armed, "before")
	expectReceived(t, unarmed)

	f.handle(t, &servertoproxy.ServerToProxyMessage{
		MessageType:          servertoproxy.ServerToProxyMessageType_SetReceiveBroadcasts,
		SetReceiveBroadcasts: &servertoproxy.SetReceiveBroadcasts{Stream: 2},
	})
	f.handle(t, broadcastGlobal(0, 1, "after"))
	f.flush(t)

	if !unarmed.CanReceiveBroadcasts() {
		t.Fatalf("expected SetReceiveBroadcasts to arm the connection")
	}
	expectReceived(t, armed, "after")
	expectReceived(t, unarmed, "after")
}

func TestBroadcastLocalRadiusIsInclusive(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	center := f.connect(t, 1, 16, true)
	edge := f.connect(t, 2, 16, true)
	outside := f.connect(t, 3, 16, true)
	unknown := f.connect(t, 4, 16, true)

	f.handle(t, positions(
		[]uint64{1, 2, 3},
		[]servertoproxy.ChunkPosition{{X: 0, Z: 0}, {X: 16, Z: -16}, {X: 17, Z: 0}},
	))
	f.handle(t, broadcastLocal(0, 0, 0, 0, "nearby"))
	f.flush(t)

	expectReceived(t, center, "nearby")
	expectReceived(t, edge, "nearby")
	expectReceived(t, outside)
	expectReceived(t, unknown)
}

func TestUntokenedMessagesKeepTheirPosition(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	h := f.connect(t, 1, 16, true)

	f.handle(t, unicast(1, 5, "hello"))
	f.handle(t, positions([]uint64{1}, []servertoproxy.ChunkPosition{{X: 100, Z: 100}}))
	f.handle(t, broadcastLocal(100, 100, 0, 5, "arrived"))
	f.handle(t, broadcastLocal(100, 100, 0, 3, "too early"))
	f.flush(t)

	expectReceived(t, h, "hello", "arrived")
}

func TestUnicastToUnknownConnectionIsDropped(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	h := f.connect(t, 1, 16, true)

	f.handle(t, unicast(99, 1, "nobody"))
	f.handle(t, unicast(1, 2, "somebody"))
	f.flush(t)

	expectReceived(t, h, "somebody")
	if got := testutil.ToFloat64(f.metrics.RegistryMissesTotal.WithLabelValues("unicast")); got != 1 {
		t.Fatalf("expected 1 registry miss, got %v", got)
	}
}

func TestSlowConnectionIsEvicted(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	slow := f.connect(t, 1, 1, true)
	fast := f.connect(t, 2, 16, true)

	f.handle(t, broadcastGlobal(0, 1, "a"))
	f.handle(t, broadcastGlobal(0, 2, "b"))
	f.flush(t)

	if !slow.IsShutdown() {
		t.Fatalf("expected slow connection to be shut down")
	}
	if slow.Cause().Reason != proxytoserver.DisconnectReason_CouldNotKeepUp {
		t.Fatalf("expected CouldNotKeepUp, got %s", slow.Cause().Reason)
	}
	if _, has := f.registry.Get(1); has {
		t.Fatalf("expected slow connection to leave the registry")
	}
	expectReceived(t, fast, "a", "b")
	if got := testutil.ToFloat64(f.metrics.EvictionsTotal); got != 1 {
		t.Fatalf("expected 1 eviction, got %v", got)
	}
}

func TestShutdownInstruction(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	h := f.connect(t, 1, 16, true)

	f.handle(t, unicast(1, 1, "bye"))
	f.handle(t, &servertoproxy.ServerToProxyMessage{
		MessageType: servertoproxy.ServerToProxyMessageType_Shutdown,
		Shutdown:    &servertoproxy.Shutdown{Stream: 1},
	})
	f.flush(t)

	if !h.IsShutdown() {
		t.Fatalf("expected connection to be shut down")
	}
	if h.Cause().Reason != proxytoserver.DisconnectReason_Other {
		t.Fatalf("expected Other, got %s", h.Cause().Reason)
	}
	if _, has := f.registry.Get(1); has {
		t.Fatalf("expected connection to leave the registry")
	}
	expectReceived(t, h, "bye")
}

func TestTooManyStagedInstructionsFlushEarly(t *testing.T) {
	f := createDispatcherFixture(t, 2)
	h := f.connect(t, 1, 16, false)

	f.handle(t, unicast(1, 1, "a"))
	f.handle(t, unicast(1, 2, "b"))
	f.dispatcher.Drain()

	expectReceived(t, h, "a", "b")
}

func TestMalformedMessageIsRejected(t *testing.T) {
	f := createDispatcherFixture(t, 0)
	if err := f.dispatcher.HandleMessage([]byte("definitely not an envelope")); err == nil {
		t.Fatalf("expected an error for garbage input")
	}
}

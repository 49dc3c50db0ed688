package internal

import (
	"sync"
	"testing"

	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
)

func TestSendOnFullQueueShutsDownHandle(t *testing.T) {
	h := CreateConnectionHandle(1, 2)

	if err := h.Send([]byte("a")); err != nil {
		t.Fatalf("send 1: %v", err)
	}
	if err := h.Send([]byte("b")); err != nil {
		t.Fatalf("send 2: %v", err)
	}

	err := h.Send([]byte("c"))
	if _, ok := err.(*QueueFullError); !ok {
		t.Fatalf("expected QueueFullError, got %v", err)
	}
	if !h.IsShutdown() {
		t.Fatalf("expected handle to be shut down after a full queue")
	}
	if h.Cause().Reason != proxytoserver.DisconnectReason_CouldNotKeepUp {
		t.Fatalf("expected CouldNotKeepUp, got %s", h.Cause().Reason)
	}

	err = h.Send([]byte("d"))
	if _, ok := err.(*QueueClosedError); !ok {
		t.Fatalf("expected QueueClosedError on a shut down handle, got %v", err)
	}
}

func TestShutdownIsIdempotentAndConcurrent(t *testing.T) {
	h := CreateConnectionHandle(1, 4)
	h.ShutdownWithCause(CauseLostConnection)

	wg := sync.WaitGroup{}
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Shutdown()
			h.ShutdownWithCause(CauseCouldNotKeepUp)
		}()
	}
	wg.Wait()

	select {
	case <-h.Done():
	default:
		t.Fatalf("expected Done to be closed")
	}
	if h.Cause() != CauseLostConnection {
		t.Fatalf("expected first cause to win, got %+v", h.Cause())
	}
}

func TestBroadcastFlag(t *testing.T) {
	h := CreateConnectionHandle(1, 1)
	if h.CanReceiveBroadcasts() {
		t.Fatalf("new handles must not receive broadcasts")
	}
	h.EnableReceiveBroadcasts()
	h.EnableReceiveBroadcasts()
	if !h.CanReceiveBroadcasts() {
		t.Fatalf("expected broadcasts to be enabled")
	}
}

func TestRegionPacking(t *testing.T) {
	h := CreateConnectionHandle(1, 1)
	if _, known := h.Region(); known {
		t.Fatalf("new handles have no region")
	}

	for _, key := range []RegionKey{{0, 0}, {-1, 1}, {-32768, 32767}, {123, -456}} {
		h.SetRegion(key)
		got, known := h.Region()
		if !known || got != key {
			t.Fatalf("SetRegion(%+v) read back %+v (known=%v)", key, got, known)
		}
	}
}

func TestClaimDisconnectOnce(t *testing.T) {
	h := CreateConnectionHandle(1, 1)

	claims := make(chan bool, 16)
	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claims <- h.ClaimDisconnect()
		}()
	}
	wg.Wait()
	close(claims)

	winners := 0
	for c := range claims {
		if c {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestIsWithinRadiusBoundary(t *testing.T) {
	center := RegionKey{0, 0}
	cases := []struct {
		key    RegionKey
		inside bool
	}{
		{RegionKey{0, 0}, true},
		{RegionKey{16, 16}, true},
		{RegionKey{-16, 16}, true},
		{RegionKey{16, -16}, true},
		{RegionKey{17, 0}, false},
		{RegionKey{0, -17}, false},
		{RegionKey{-32768, 32767}, false},
	}

	for _, c := range cases {
		if got := c.key.IsWithinRadius(center, DefaultLocalBroadcastRadius); got != c.inside {
			t.Errorf("%+v within 16 of origin: got %v, want %v", c.key, got, c.inside)
		}
	}

	far := RegionKey{32767, 32767}
	if !(RegionKey{32760, 32751}).IsWithinRadius(far, DefaultLocalBroadcastRadius) {
		t.Errorf("expected boundary math not to overflow near the edge")
	}
}

package internal

import (
	"fmt"
	"sync"
	"sync/atomic"

	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
)

type QueueFullError struct {
	Id       uint64
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("Outgoing queue for client %d is full (capacity=%d)", e.Id, e.Capacity)
}

type QueueClosedError struct {
	Id uint64
}

func (e *QueueClosedError) Error() string {
	return fmt.Sprintf("Outgoing queue for client %d is closed", e.Id)
}

type ShutdownCause struct {
	Reason  proxytoserver.DisconnectReason
	Message string
}

var (
	CauseCouldNotKeepUp = ShutdownCause{Reason: proxytoserver.DisconnectReason_CouldNotKeepUp}
	CauseLostConnection = ShutdownCause{Reason: proxytoserver.DisconnectReason_LostConnection}
)

func CauseOther(message string) ShutdownCause {
	return ShutdownCause{Reason: proxytoserver.DisconnectReason_Other, Message: message}
}

const regionKnownBit = uint64(1) << 32

// ConnectionHandle is the per-connection state shared between the delivery
// workers, the client writer and the disconnect path.
type ConnectionHandle struct {
	id uint64

	outgoing chan []byte

	shutdownOnce sync.Once
	done         chan struct{}
	cause        atomic.Pointer[ShutdownCause]

	receivesBroadcasts atomic.Bool
	region             atomic.Uint64
	disconnectClaimed  atomic.Bool
}

func CreateConnectionHandle(id uint64, outgoingQueueLength int) *ConnectionHandle {
	if outgoingQueueLength <= 0 {
		outgoingQueueLength = 256
	}

	return &ConnectionHandle{
		id:       id,
		outgoing: make(chan []byte, outgoingQueueLength),
		done:     make(chan struct{}),
	}
}

func (h *ConnectionHandle) Id() uint64 {
	return h.id
}

// Send enqueues data without blocking. A full queue means the client cannot
// keep up: the handle is shut down and a QueueFullError returned.
func (h *ConnectionHandle) Send(data []byte) error {
	select {
	case <-h.done:
		return &QueueClosedError{Id: h.id}
	default:
	}

	select {
	case h.outgoing <- data:
		return nil
	default:
		h.ShutdownWithCause(CauseCouldNotKeepUp)
		return &QueueFullError{Id: h.id, Capacity: cap(h.outgoing)}
	}
}

func (h *ConnectionHandle) Shutdown() {
	h.ShutdownWithCause(CauseOther("connection shut down"))
}

// ShutdownWithCause is idempotent. The first recorded cause wins.
func (h *ConnectionHandle) ShutdownWithCause(cause ShutdownCause) {
	h.cause.CompareAndSwap(nil, &cause)
	h.shutdownOnce.Do(func() {
		close(h.done)
	})
}

func (h *ConnectionHandle) IsShutdown() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Cause reports why the handle was shut down. It is only meaningful once
// IsShutdown returns true.
func (h *ConnectionHandle) Cause() ShutdownCause {
	if c := h.cause.Load(); c != nil {
		return *c
	}
	return CauseOther("connection shut down")
}

func (h *ConnectionHandle) Done() <-chan struct{} {
	return h.done
}

func (h *ConnectionHandle) Outgoing() <-chan []byte {
	return h.outgoing
}

func (h *ConnectionHandle) EnableReceiveBroadcasts() {
	h.receivesBroadcasts.Store(true)
}

func (h *ConnectionHandle) CanReceiveBroadcasts() bool {
	return h.receivesBroadcasts.Load()
}

func (h *ConnectionHandle) SetRegion(key RegionKey) {
	h.region.Store(regionKnownBit | uint64(uint16(key.X))<<16 | uint64(uint16(key.Z)))
}

func (h *ConnectionHandle) Region() (RegionKey, bool) {
	packed := h.region.Load()
	if packed&regionKnownBit == 0 {
		return RegionKey{}, false
	}
	return RegionKey{
		X: int16(uint16(packed >> 16)),
		Z: int16(uint16(packed)),
	}, true
}

// ClaimDisconnect returns true exactly once per handle. The caller that wins
// is responsible for reporting the disconnect to the backend.
func (h *ConnectionHandle) ClaimDisconnect() bool {
	return h.disconnectClaimed.CompareAndSwap(false, true)
}

package proxy

import (
	"context"

	"github.com/sessamekesh/spanreed-game-proxy/internal"
	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/packetchannel"
	"go.uber.org/zap"
)

// Upper bound on the framed bytes packed into one PlayerPackets message.
const maxForwardBatchBytes = 64 * 1024

// forwardClientFrames owns the client to backend direction of one connection.
// It reports PlayerConnect, then batches of client frames, then exactly one
// PlayerDisconnect once the handle is shut down.
func (p *proxy) forwardClientFrames(ctx context.Context, handle *internal.ConnectionHandle, frames *packetchannel.Receiver) {
	defer frames.Close()

	stream := handle.Id()
	log := p.log.With(zap.Uint64("clientId", stream))

	connected := p.backend.Send(ctx, &proxytoserver.ProxyToServerMessage{
		MessageType:   proxytoserver.ProxyToServerMessageType_PlayerConnect,
		PlayerConnect: &proxytoserver.PlayerConnect{Stream: stream},
	}) == nil
	if !connected {
		handle.ShutdownWithCause(internal.CauseOther("backend unavailable"))
	} else {
		log.Debug("Client connected")
	}

	batch := []byte{}
	for connected && !handle.IsShutdown() {
		select {
		case <-ctx.Done():
			handle.ShutdownWithCause(internal.CauseOther("proxy shutting down"))
		case <-handle.Done():
		case frame, ok := <-frames.Frames():
			if !ok {
				// The ingest side shuts the handle down right after closing.
				select {
				case <-handle.Done():
				case <-ctx.Done():
				}
				continue
			}

			var err error
			batch, err = p.forwardBatch(ctx, stream, frame, frames, batch)
			if err != nil {
				handle.ShutdownWithCause(internal.CauseOther("backend unavailable"))
			}
		}
	}

	p.registry.RemoveIf(stream, handle)
	p.metrics.ConnectionsActive.Dec()

	if connected && handle.ClaimDisconnect() {
		p.reportDisconnect(ctx, handle, frames, batch, log)
	}
}

// forwardBatch packs first plus whatever else is already queued into a single
// PlayerPackets message. Frames are copied byte for byte as the client sent
// them, length prefix included.
func (p *proxy) forwardBatch(ctx context.Context, stream uint64, first packetchannel.Frame, frames *packetchannel.Receiver, batch []byte) ([]byte, error) {
	batch = first.AppendWire(batch[:0])
	count := 1
	for len(batch) < maxForwardBatchBytes {
		next, ok := frames.TryRecv()
		if !ok {
			break
		}
		batch = next.AppendWire(batch)
		count++
	}

	err := p.backend.Send(ctx, &proxytoserver.ProxyToServerMessage{
		MessageType: proxytoserver.ProxyToServerMessageType_PlayerPackets,
		PlayerPackets: &proxytoserver.PlayerPackets{
			Stream: stream,
			Data:   batch,
		},
	})
	if err == nil {
		p.metrics.IngressFramesTotal.Add(float64(count))
	}
	return batch, err
}

func (p *proxy) reportDisconnect(ctx context.Context, handle *internal.ConnectionHandle, frames *packetchannel.Receiver, batch []byte, log *zap.Logger) {
	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.config.DisconnectReportTimeout)
	defer cancel()

	stream := handle.Id()

	// Frames decoded before the shutdown still belong ahead of the disconnect.
	for {
		frame, ok := frames.TryRecv()
		if !ok {
			break
		}
		var err error
		if batch, err = p.forwardBatch(reportCtx, stream, frame, frames, batch); err != nil {
			log.Warn("Dropping queued client frames", zap.Error(err))
			break
		}
	}

	cause := handle.Cause()
	err := p.backend.Send(reportCtx, &proxytoserver.ProxyToServerMessage{
		MessageType: proxytoserver.ProxyToServerMessageType_PlayerDisconnect,
		PlayerDisconnect: &proxytoserver.PlayerDisconnect{
			Stream:  stream,
			Reason:  cause.Reason,
			Message: cause.Message,
		},
	})
	if err != nil {
		log.Error("Failed to report disconnect to backend", zap.Error(err))
		return
	}

	p.metrics.DisconnectsTotal.WithLabelValues(cause.Reason.String()).Inc()
	log.Info("Client disconnected",
		zap.Stringer("reason", cause.Reason),
		zap.String("message", cause.Message))
}

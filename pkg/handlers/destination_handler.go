package handlers

import (
	"github.com/sessamekesh/spanreed-game-proxy/pkg/packetchannel"
)

// DestinationMessageHandler connects the proxy to the backend link.
type DestinationMessageHandler struct {
	Name            string
	GetNowTimestamp func() int64

	// IncomingFrames decodes the framed byte stream read from the backend.
	// The link closes it when the connection is lost.
	IncomingFrames *packetchannel.Sender

	// OutgoingMessages carries serialized envelopes for the backend. Each
	// one still needs its length prefix.
	OutgoingMessages <-chan []byte
}

package handlers

import (
	proxytoserver "github.com/sessamekesh/spanreed-game-proxy/pkg/message/proxy_to_server"
)

type ClientConnection struct {
	ClientId uint64

	// Outgoing carries bytes for the client exactly as the backend sent them.
	Outgoing <-chan []byte

	// Closed is closed once the proxy has shut the connection down.
	Closed <-chan struct{}

	// Ingest hands raw bytes read from the client to the proxy. Any error
	// is fatal for the connection.
	Ingest func(chunk []byte) error

	Close func(reason proxytoserver.DisconnectReason, message string)
}

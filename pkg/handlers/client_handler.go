package handlers

import "context"

// ClientMessageHandler is handed to a client transport so it can register
// accepted connections with the proxy.
type ClientMessageHandler struct {
	Name            string
	GetNextClientId func() uint64
	GetNowTimestamp func() int64

	// OpenClientConnection registers clientId and starts forwarding its
	// traffic to the backend. The connection lives until Close is called or
	// the proxy shuts it down.
	OpenClientConnection func(ctx context.Context, clientId uint64) (*ClientConnection, error)
}

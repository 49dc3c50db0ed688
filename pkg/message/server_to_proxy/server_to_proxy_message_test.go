package servertoproxy

import (
	goerrs "errors"
	"reflect"
	"testing"

	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/message/GameProxyMessage"
)

func TestRoundTripAllVariants(t *testing.T) {
	s := ServerToProxyMessageSerializer{Version: 1}

	cases := []*ServerToProxyMessage{
		{
			MessageType: ServerToProxyMessageType_UpdatePlayerChunkPositions,
			UpdatePlayerChunkPositions: &UpdatePlayerChunkPositions{
				Streams:   []uint64{1, 2, 1 << 40},
				Positions: []ChunkPosition{{X: 0, Z: 0}, {X: -16, Z: 16}, {X: -32768, Z: 32767}},
			},
		},
		{
			MessageType:          ServerToProxyMessageType_SetReceiveBroadcasts,
			SetReceiveBroadcasts: &SetReceiveBroadcasts{Stream: 42},
		},
		{
			MessageType:     ServerToProxyMessageType_BroadcastGlobal,
			BroadcastGlobal: &BroadcastGlobal{Exclude: 2, Order: 5, Data: []byte("ping")},
		},
		{
			MessageType: ServerToProxyMessageType_BroadcastLocal,
			BroadcastLocal: &BroadcastLocal{
				Center:  ChunkPosition{X: -3, Z: 7},
				Exclude: 9,
				Order:   0xFFFFFFFF,
				Data:    []byte{0, 1, 2, 3, 4},
			},
		},
		{
			MessageType: ServerToProxyMessageType_Unicast,
			Unicast:     &Unicast{Stream: 7, Order: 6, Data: []byte("hello")},
		},
		{
			MessageType: ServerToProxyMessageType_Flush,
			Flush:       &Flush{},
		},
		{
			MessageType: ServerToProxyMessageType_Shutdown,
			Shutdown:    &Shutdown{Stream: 11},
		},
	}

	for _, msg := range cases {
		t.Run(msg.MessageType.String(), func(t *testing.T) {
			raw, err := s.SerializeMessage(msg)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}

			if got := PeekMessageType(raw); got != msg.MessageType {
				t.Fatalf("PeekMessageType = %s, want %s", got, msg.MessageType)
			}

			parsed, err := s.Parse(raw)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			msg.Version = 1
			if !reflect.DeepEqual(parsed, msg) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", parsed, msg)
			}
		})
	}
}

func TestParseDataIsAView(t *testing.T) {
	s := ServerToProxyMessageSerializer{Version: 1}
	raw, err := s.SerializeMessage(&ServerToProxyMessage{
		MessageType: ServerToProxyMessageType_Unicast,
		Unicast:     &Unicast{Stream: 1, Data: []byte("abc")},
	})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	parsed, err := s.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	parsed.Unicast.Data[0] = 'z'
	again, err := s.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if string(again.Unicast.Data) != "zbc" {
		t.Fatalf("expected parsed data to alias the input buffer, got %q", again.Unicast.Data)
	}
}

func TestParseRejectsUnknownDiscriminant(t *testing.T) {
	s := ServerToProxyMessageSerializer{Version: 1}
	raw, err := s.SerializeMessage(&ServerToProxyMessage{
		MessageType: ServerToProxyMessageType_Shutdown,
		Shutdown:    &Shutdown{Stream: 3},
	})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	root := GameProxyMessage.GetRootAsServerToProxy(raw, 0)
	if !root.MutateMessageType(GameProxyMessage.ServerToProxyMessage(200)) {
		t.Fatalf("failed to rewrite discriminant")
	}

	_, err = s.Parse(raw)
	var enumErr *errors.InvalidEnumValue
	if !goerrs.As(err, &enumErr) {
		t.Fatalf("expected InvalidEnumValue, got %v", err)
	}
	if enumErr.IntValue != 200 {
		t.Fatalf("expected IntValue 200, got %d", enumErr.IntValue)
	}

	if got := PeekMessageType(raw); got != ServerToProxyMessageType_NONE {
		t.Fatalf("PeekMessageType = %s, want NONE", got)
	}
}

func TestParseRejectsBadEnvelopes(t *testing.T) {
	s := ServerToProxyMessageSerializer{Version: 1}

	if _, err := s.Parse([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected underflow error")
	} else if _, ok := err.(*errors.Underflow); !ok {
		t.Fatalf("expected Underflow, got %T", err)
	}

	proxySide, err := ServerToProxyMessageSerializer{Version: 2}.SerializeMessage(&ServerToProxyMessage{
		MessageType: ServerToProxyMessageType_Flush,
		Flush:       &Flush{},
	})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if _, err := s.Parse(proxySide); err == nil {
		t.Fatalf("expected version mismatch error")
	} else if _, ok := err.(*errors.InvalidHeaderVersion); !ok {
		t.Fatalf("expected InvalidHeaderVersion, got %T", err)
	}

	garbage := []byte{0xFF, 0xFF, 0xFF, 0x7F, 'S', 'R', 'B', 'P', 0, 0}
	if _, err := s.Parse(garbage); err == nil {
		t.Fatalf("expected malformed message error")
	}
}

func TestSerializeRejectsMismatchedChunkPositions(t *testing.T) {
	s := ServerToProxyMessageSerializer{Version: 1}
	_, err := s.SerializeMessage(&ServerToProxyMessage{
		MessageType: ServerToProxyMessageType_UpdatePlayerChunkPositions,
		UpdatePlayerChunkPositions: &UpdatePlayerChunkPositions{
			Streams:   []uint64{1, 2},
			Positions: []ChunkPosition{{X: 1, Z: 1}},
		},
	})
	if _, ok := err.(*errors.MismatchedLengths); !ok {
		t.Fatalf("expected MismatchedLengths, got %v", err)
	}
}

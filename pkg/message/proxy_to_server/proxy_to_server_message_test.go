package proxytoserver

import (
	"reflect"
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/message/GameProxyMessage"
)

func TestRoundTripAllVariants(t *testing.T) {
	s := ProxyToServerMessageSerializer{Version: 1}

	cases := []*ProxyToServerMessage{
		{
			MessageType:   ProxyToServerMessageType_PlayerConnect,
			PlayerConnect: &PlayerConnect{Stream: 1},
		},
		{
			MessageType:      ProxyToServerMessageType_PlayerDisconnect,
			PlayerDisconnect: &PlayerDisconnect{Stream: 2, Reason: DisconnectReason_CouldNotKeepUp},
		},
		{
			MessageType:      ProxyToServerMessageType_PlayerDisconnect,
			PlayerDisconnect: &PlayerDisconnect{Stream: 3, Reason: DisconnectReason_LostConnection},
		},
		{
			MessageType:      ProxyToServerMessageType_PlayerDisconnect,
			PlayerDisconnect: &PlayerDisconnect{Stream: 4, Reason: DisconnectReason_Other, Message: "shut down by server"},
		},
		{
			MessageType:   ProxyToServerMessageType_PlayerPackets,
			PlayerPackets: &PlayerPackets{Stream: 1 << 50, Data: []byte{3, 0xAA, 0xBB, 0xCC}},
		},
	}

	for _, msg := range cases {
		raw, err := s.SerializeMessage(msg)
		if err != nil {
			t.Fatalf("serialize %s: %v", msg.MessageType, err)
		}

		parsed, err := s.Parse(raw)
		if err != nil {
			t.Fatalf("parse %s: %v", msg.MessageType, err)
		}

		msg.Version = 1
		if !reflect.DeepEqual(parsed, msg) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", parsed, msg)
		}
	}
}

func TestSerializeWithReusedBuilder(t *testing.T) {
	s := ProxyToServerMessageSerializer{Version: 1}
	b := flatbuffers.NewBuilder(16)

	for i := uint64(0); i < 4; i++ {
		raw, err := s.SerializeMessageWithBuilder(b, &ProxyToServerMessage{
			MessageType:   ProxyToServerMessageType_PlayerPackets,
			PlayerPackets: &PlayerPackets{Stream: i, Data: make([]byte, 100*int(i)+1)},
		})
		if err != nil {
			t.Fatalf("serialize: %v", err)
		}

		parsed, err := s.Parse(raw)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if parsed.PlayerPackets.Stream != i || len(parsed.PlayerPackets.Data) != 100*int(i)+1 {
			t.Fatalf("unexpected message %+v", parsed.PlayerPackets)
		}
	}
}

func TestParseRejectsUnknownDiscriminant(t *testing.T) {
	s := ProxyToServerMessageSerializer{Version: 1}
	raw, err := s.SerializeMessage(&ProxyToServerMessage{
		MessageType:   ProxyToServerMessageType_PlayerConnect,
		PlayerConnect: &PlayerConnect{Stream: 9},
	})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	GameProxyMessage.GetRootAsProxyToServer(raw, 0).MutateMessageType(GameProxyMessage.ProxyToServerMessage(4))

	if _, err := s.Parse(raw); err == nil {
		t.Fatalf("expected error for unknown discriminant")
	} else if _, ok := err.(*errors.InvalidEnumValue); !ok {
		t.Fatalf("expected InvalidEnumValue, got %T (%v)", err, err)
	}
}

func TestParseRejectsWrongFamily(t *testing.T) {
	s := ProxyToServerMessageSerializer{Version: 1}

	b := flatbuffers.NewBuilder(32)
	GameProxyMessage.FlushStart(b)
	body := GameProxyMessage.FlushEnd(b)
	GameProxyMessage.ServerToProxyStart(b)
	GameProxyMessage.ServerToProxyAddVersion(b, 1)
	GameProxyMessage.ServerToProxyAddMessageType(b, GameProxyMessage.ServerToProxyMessageFlush)
	GameProxyMessage.ServerToProxyAddMessage(b, body)
	GameProxyMessage.FinishServerToProxyBuffer(b, GameProxyMessage.ServerToProxyEnd(b))

	if _, err := s.Parse(b.FinishedBytes()); err == nil {
		t.Fatalf("expected identifier mismatch")
	} else if _, ok := err.(*errors.InvalidHeaderVersion); !ok {
		t.Fatalf("expected InvalidHeaderVersion, got %T", err)
	}
}

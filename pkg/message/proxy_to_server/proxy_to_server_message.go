package proxytoserver

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/message/GameProxyMessage"
)

type ProxyToServerMessageType uint8

const (
	ProxyToServerMessageType_PlayerConnect ProxyToServerMessageType = iota
	ProxyToServerMessageType_PlayerDisconnect
	ProxyToServerMessageType_PlayerPackets

	ProxyToServerMessageType_NONE
)

func (t ProxyToServerMessageType) String() string {
	switch t {
	case ProxyToServerMessageType_PlayerConnect:
		return "PlayerConnect"
	case ProxyToServerMessageType_PlayerDisconnect:
		return "PlayerDisconnect"
	case ProxyToServerMessageType_PlayerPackets:
		return "PlayerPackets"
	}
	return "NONE"
}

type DisconnectReason uint8

const (
	DisconnectReason_CouldNotKeepUp DisconnectReason = iota
	DisconnectReason_LostConnection
	DisconnectReason_Other
)

func (r DisconnectReason) String() string {
	switch r {
	case DisconnectReason_CouldNotKeepUp:
		return "CouldNotKeepUp"
	case DisconnectReason_LostConnection:
		return "LostConnection"
	case DisconnectReason_Other:
		return "Other"
	}
	return fmt.Sprintf("DisconnectReason(%d)", uint8(r))
}

func reasonFromWire(r GameProxyMessage.PlayerDisconnectReason) (DisconnectReason, error) {
	switch r {
	case GameProxyMessage.PlayerDisconnectReasonCouldNotKeepUp:
		return DisconnectReason_CouldNotKeepUp, nil
	case GameProxyMessage.PlayerDisconnectReasonLostConnection:
		return DisconnectReason_LostConnection, nil
	case GameProxyMessage.PlayerDisconnectReasonOther:
		return DisconnectReason_Other, nil
	}
	return 0, &errors.InvalidEnumValue{
		EnumName: "PlayerDisconnectReason",
		IntValue: uint8(r),
	}
}

func reasonToWire(r DisconnectReason) (GameProxyMessage.PlayerDisconnectReason, error) {
	switch r {
	case DisconnectReason_CouldNotKeepUp:
		return GameProxyMessage.PlayerDisconnectReasonCouldNotKeepUp, nil
	case DisconnectReason_LostConnection:
		return GameProxyMessage.PlayerDisconnectReasonLostConnection, nil
	case DisconnectReason_Other:
		return GameProxyMessage.PlayerDisconnectReasonOther, nil
	}
	return 0, &errors.InvalidEnumValue{
		EnumName: "DisconnectReason",
		IntValue: uint8(r),
	}
}

type PlayerConnect struct {
	Stream uint64
}

type PlayerDisconnect struct {
	Stream  uint64
	Reason  DisconnectReason
	Message string
}

type PlayerPackets struct {
	Stream uint64
	// Data aliases the parsed buffer; copy it if it must outlive that buffer.
	Data []byte
}

type ProxyToServerMessage struct {
	Version     uint8
	MessageType ProxyToServerMessageType

	PlayerConnect    *PlayerConnect
	PlayerDisconnect *PlayerDisconnect
	PlayerPackets    *PlayerPackets
}

type ProxyToServerMessageSerializer struct {
	Version uint8
}

// Smallest buffer that can hold a root offset and a file identifier.
const minEnvelopeSize = 8

func (s ProxyToServerMessageSerializer) SerializeMessage(msg *ProxyToServerMessage) ([]byte, error) {
	initialSize := 64
	if msg.PlayerPackets != nil {
		initialSize += len(msg.PlayerPackets.Data)
	}
	b := flatbuffers.NewBuilder(initialSize)
	return s.SerializeMessageWithBuilder(b, msg)
}

// SerializeMessageWithBuilder resets b and builds msg into it. The returned
// slice is owned by b and is only valid until b is reused.
func (s ProxyToServerMessageSerializer) SerializeMessageWithBuilder(b *flatbuffers.Builder, msg *ProxyToServerMessage) ([]byte, error) {
	b.Reset()

	var body flatbuffers.UOffsetT
	var bodyType GameProxyMessage.ProxyToServerMessage

	switch msg.MessageType {
	case ProxyToServerMessageType_PlayerConnect:
		if msg.PlayerConnect == nil {
			return nil, &errors.MissingFieldError{
				MessageName: "ProxyToServer",
				FieldName:   "PlayerConnect",
			}
		}
		GameProxyMessage.PlayerConnectStart(b)
		GameProxyMessage.PlayerConnectAddStream(b, msg.PlayerConnect.Stream)
		body = GameProxyMessage.PlayerConnectEnd(b)
		bodyType = GameProxyMessage.ProxyToServerMessagePlayerConnect
	case ProxyToServerMessageType_PlayerDisconnect:
		if msg.PlayerDisconnect == nil {
			return nil, &errors.MissingFieldError{
				MessageName: "ProxyToServer",
				FieldName:   "PlayerDisconnect",
			}
		}
		reason, reasonErr := reasonToWire(msg.PlayerDisconnect.Reason)
		if reasonErr != nil {
			return nil, reasonErr
		}
		var pMessage flatbuffers.UOffsetT
		if msg.PlayerDisconnect.Message != "" {
			pMessage = b.CreateString(msg.PlayerDisconnect.Message)
		}
		GameProxyMessage.PlayerDisconnectStart(b)
		GameProxyMessage.PlayerDisconnectAddStream(b, msg.PlayerDisconnect.Stream)
		GameProxyMessage.PlayerDisconnectAddReason(b, reason)
		if pMessage != 0 {
			GameProxyMessage.PlayerDisconnectAddMessage(b, pMessage)
		}
		body = GameProxyMessage.PlayerDisconnectEnd(b)
		bodyType = GameProxyMessage.ProxyToServerMessagePlayerDisconnect
	case ProxyToServerMessageType_PlayerPackets:
		if msg.PlayerPackets == nil {
			return nil, &errors.MissingFieldError{
				MessageName: "ProxyToServer",
				FieldName:   "PlayerPackets",
			}
		}
		var pData flatbuffers.UOffsetT
		if len(msg.PlayerPackets.Data) > 0 {
			pData = b.CreateByteVector(msg.PlayerPackets.Data)
		}
		GameProxyMessage.PlayerPacketsStart(b)
		GameProxyMessage.PlayerPacketsAddStream(b, msg.PlayerPackets.Stream)
		if pData != 0 {
			GameProxyMessage.PlayerPacketsAddData(b, pData)
		}
		body = GameProxyMessage.PlayerPacketsEnd(b)
		bodyType = GameProxyMessage.ProxyToServerMessagePlayerPackets
	default:
		return nil, &errors.InvalidEnumValue{
			EnumName: "ProxyToServerMessageType",
			IntValue: uint8(msg.MessageType),
		}
	}

	GameProxyMessage.ProxyToServerStart(b)
	GameProxyMessage.ProxyToServerAddVersion(b, s.Version)
	GameProxyMessage.ProxyToServerAddMessageType(b, bodyType)
	GameProxyMessage.ProxyToServerAddMessage(b, body)
	root := GameProxyMessage.ProxyToServerEnd(b)
	GameProxyMessage.FinishProxyToServerBuffer(b, root)

	return b.FinishedBytes(), nil
}

func (s ProxyToServerMessageSerializer) Parse(raw []byte) (msg *ProxyToServerMessage, err error) {
	if len(raw) < minEnvelopeSize {
		return nil, &errors.Underflow{
			MessageName: "ProxyToServer",
			MsgSize:     len(raw),
			MinimumSize: minEnvelopeSize,
		}
	}

	if !GameProxyMessage.ProxyToServerBufferHasIdentifier(raw) {
		return nil, &errors.InvalidHeaderVersion{
			ExpectedIdentifier: GameProxyMessage.ProxyToServerIdentifier,
			ActualIdentifier:   string(raw[4:8]),
			ExpectedVersion:    s.Version,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			msg = nil
			err = &errors.MalformedMessage{
				MessageName: "ProxyToServer",
				Cause:       fmt.Sprintf("%v", r),
			}
		}
	}()

	root := GameProxyMessage.GetRootAsProxyToServer(raw, 0)
	if root.Version() != s.Version {
		return nil, &errors.InvalidHeaderVersion{
			ExpectedIdentifier: GameProxyMessage.ProxyToServerIdentifier,
			ActualIdentifier:   GameProxyMessage.ProxyToServerIdentifier,
			ExpectedVersion:    s.Version,
			ActualVersion:      root.Version(),
		}
	}

	parsed := &ProxyToServerMessage{
		Version:     root.Version(),
		MessageType: ProxyToServerMessageType_NONE,
	}

	bodyType := root.MessageType()
	body := flatbuffers.Table{}
	if bodyType == GameProxyMessage.ProxyToServerMessageNONE || !root.Message(&body) {
		return nil, &errors.MissingFieldError{
			MessageName: "ProxyToServer",
			FieldName:   "message",
		}
	}

	switch bodyType {
	case GameProxyMessage.ProxyToServerMessagePlayerConnect:
		m := GameProxyMessage.PlayerConnect{}
		m.Init(body.Bytes, body.Pos)
		parsed.MessageType = ProxyToServerMessageType_PlayerConnect
		parsed.PlayerConnect = &PlayerConnect{Stream: m.Stream()}
	case GameProxyMessage.ProxyToServerMessagePlayerDisconnect:
		m := GameProxyMessage.PlayerDisconnect{}
		m.Init(body.Bytes, body.Pos)
		reason, reasonErr := reasonFromWire(m.Reason())
		if reasonErr != nil {
			return nil, reasonErr
		}
		parsed.MessageType = ProxyToServerMessageType_PlayerDisconnect
		parsed.PlayerDisconnect = &PlayerDisconnect{
			Stream:  m.Stream(),
			Reason:  reason,
			Message: string(m.Message()),
		}
	case GameProxyMessage.ProxyToServerMessagePlayerPackets:
		m := GameProxyMessage.PlayerPackets{}
		m.Init(body.Bytes, body.Pos)
		data := m.DataBytes()
		if len(data) == 0 {
			data = nil
		}
		parsed.MessageType = ProxyToServerMessageType_PlayerPackets
		parsed.PlayerPackets = &PlayerPackets{
			Stream: m.Stream(),
			Data:   data,
		}
	default:
		return nil, &errors.InvalidEnumValue{
			EnumName: "ProxyToServerMessage",
			IntValue: uint8(bodyType),
		}
	}

	return parsed, nil
}

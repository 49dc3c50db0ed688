package servertoproxy

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
	"github.com/sessamekesh/spanreed-game-proxy/pkg/message/GameProxyMessage"
)

type ServerToProxyMessageType uint8

const (
	ServerToProxyMessageType_UpdatePlayerChunkPositions ServerToProxyMessageType = iota
	ServerToProxyMessageType_SetReceiveBroadcasts
	ServerToProxyMessageType_BroadcastGlobal
	ServerToProxyMessageType_BroadcastLocal
	ServerToProxyMessageType_Unicast
	ServerToProxyMessageType_Flush
	ServerToProxyMessageType_Shutdown

	ServerToProxyMessageType_NONE
)

func (t ServerToProxyMessageType) String() string {
	switch t {
	case ServerToProxyMessageType_UpdatePlayerChunkPositions:
		return "UpdatePlayerChunkPositions"
	case ServerToProxyMessageType_SetReceiveBroadcasts:
		return "SetReceiveBroadcasts"
	case ServerToProxyMessageType_BroadcastGlobal:
		return "BroadcastGlobal"
	case ServerToProxyMessageType_BroadcastLocal:
		return "BroadcastLocal"
	case ServerToProxyMessageType_Unicast:
		return "Unicast"
	case ServerToProxyMessageType_Flush:
		return "Flush"
	case ServerToProxyMessageType_Shutdown:
		return "Shutdown"
	}
	return "NONE"
}

func messageTypeFromWire(t GameProxyMessage.ServerToProxyMessage) ServerToProxyMessageType {
	switch t {
	case GameProxyMessage.ServerToProxyMessageUpdatePlayerChunkPositions:
		return ServerToProxyMessageType_UpdatePlayerChunkPositions
	case GameProxyMessage.ServerToProxyMessageSetReceiveBroadcasts:
		return ServerToProxyMessageType_SetReceiveBroadcasts
	case GameProxyMessage.ServerToProxyMessageBroadcastGlobal:
		return ServerToProxyMessageType_BroadcastGlobal
	case GameProxyMessage.ServerToProxyMessageBroadcastLocal:
		return ServerToProxyMessageType_BroadcastLocal
	case GameProxyMessage.ServerToProxyMessageUnicast:
		return ServerToProxyMessageType_Unicast
	case GameProxyMessage.ServerToProxyMessageFlush:
		return ServerToProxyMessageType_Flush
	case GameProxyMessage.ServerToProxyMessageShutdown:
		return ServerToProxyMessageType_Shutdown
	}
	return ServerToProxyMessageType_NONE
}

type ChunkPosition struct {
	X int16
	Z int16
}

type UpdatePlayerChunkPositions struct {
	Streams   []uint64
	Positions []ChunkPosition
}

type SetReceiveBroadcasts struct {
	Stream uint64
}

// Data fields below alias the parsed buffer.

type BroadcastGlobal struct {
	Exclude uint64
	Order   uint32
	Data    []byte
}

type BroadcastLocal struct {
	Center  ChunkPosition
	Exclude uint64
	Order   uint32
	Data    []byte
}

type Unicast struct {
	Stream uint64
	Order  uint32
	Data   []byte
}

type Flush struct{}

type Shutdown struct {
	Stream uint64
}

type ServerToProxyMessage struct {
	Version     uint8
	MessageType ServerToProxyMessageType

	UpdatePlayerChunkPositions *UpdatePlayerChunkPositions
	SetReceiveBroadcasts       *SetReceiveBroadcasts
	BroadcastGlobal            *BroadcastGlobal
	BroadcastLocal             *BroadcastLocal
	Unicast                    *Unicast
	Flush                      *Flush
	Shutdown                   *Shutdown
}

type ServerToProxyMessageSerializer struct {
	Version uint8
}

const minEnvelopeSize = 8

// PeekMessageType reads only the union discriminant of an envelope.
func PeekMessageType(raw []byte) (t ServerToProxyMessageType) {
	if len(raw) < minEnvelopeSize || !GameProxyMessage.ServerToProxyBufferHasIdentifier(raw) {
		return ServerToProxyMessageType_NONE
	}

	defer func() {
		if r := recover(); r != nil {
			t = ServerToProxyMessageType_NONE
		}
	}()

	return messageTypeFromWire(GameProxyMessage.GetRootAsServerToProxy(raw, 0).MessageType())
}

func (s ServerToProxyMessageSerializer) SerializeMessage(msg *ServerToProxyMessage) ([]byte, error) {
	initialSize := 64
	switch {
	case msg.BroadcastGlobal != nil:
		initialSize += len(msg.BroadcastGlobal.Data)
	case msg.BroadcastLocal != nil:
		initialSize += len(msg.BroadcastLocal.Data)
	case msg.Unicast != nil:
		initialSize += len(msg.Unicast.Data)
	case msg.UpdatePlayerChunkPositions != nil:
		initialSize += 12 * len(msg.UpdatePlayerChunkPositions.Streams)
	}
	return s.SerializeMessageWithBuilder(flatbuffers.NewBuilder(initialSize), msg)
}

func missingBody(name string) error {
	return &errors.MissingFieldError{
		MessageName: "ServerToProxy",
		FieldName:   name,
	}
}

func createData(b *flatbuffers.Builder, data []byte) flatbuffers.UOffsetT {
	if len(data) == 0 {
		return 0
	}
	return b.CreateByteVector(data)
}

// SerializeMessageWithBuilder resets b and builds msg into it. The returned
// slice is owned by b.
func (s ServerToProxyMessageSerializer) SerializeMessageWithBuilder(b *flatbuffers.Builder, msg *ServerToProxyMessage) ([]byte, error) {
	b.Reset()

	var body flatbuffers.UOffsetT
	var bodyType GameProxyMessage.ServerToProxyMessage

	switch msg.MessageType {
	case ServerToProxyMessageType_UpdatePlayerChunkPositions:
		m := msg.UpdatePlayerChunkPositions
		if m == nil {
			return nil, missingBody("UpdatePlayerChunkPositions")
		}
		if len(m.Streams) != len(m.Positions) {
			return nil, &errors.MismatchedLengths{
				MessageName: "UpdatePlayerChunkPositions",
				LeftName:    "streams",
				LeftLen:     len(m.Streams),
				RightName:   "positions",
				RightLen:    len(m.Positions),
			}
		}
		GameProxyMessage.UpdatePlayerChunkPositionsStartStreamsVector(b, len(m.Streams))
		for i := len(m.Streams) - 1; i >= 0; i-- {
			b.PrependUint64(m.Streams[i])
		}
		pStreams := b.EndVector(len(m.Streams))
		GameProxyMessage.UpdatePlayerChunkPositionsStartPositionsVector(b, len(m.Positions))
		for i := len(m.Positions) - 1; i >= 0; i-- {
			GameProxyMessage.CreateChunkPosition(b, m.Positions[i].X, m.Positions[i].Z)
		}
		pPositions := b.EndVector(len(m.Positions))
		GameProxyMessage.UpdatePlayerChunkPositionsStart(b)
		GameProxyMessage.UpdatePlayerChunkPositionsAddStreams(b, pStreams)
		GameProxyMessage.UpdatePlayerChunkPositionsAddPositions(b, pPositions)
		body = GameProxyMessage.UpdatePlayerChunkPositionsEnd(b)
		bodyType = GameProxyMessage.ServerToProxyMessageUpdatePlayerChunkPositions
	case ServerToProxyMessageType_SetReceiveBroadcasts:
		if msg.SetReceiveBroadcasts == nil {
			return nil, missingBody("SetReceiveBroadcasts")
		}
		GameProxyMessage.SetReceiveBroadcastsStart(b)
		GameProxyMessage.SetReceiveBroadcastsAddStream(b, msg.SetReceiveBroadcasts.Stream)
		body = GameProxyMessage.SetReceiveBroadcastsEnd(b)
		bodyType = GameProxyMessage.ServerToProxyMessageSetReceiveBroadcasts
	case ServerToProxyMessageType_BroadcastGlobal:
		m := msg.BroadcastGlobal
		if m == nil {
			return nil, missingBody("BroadcastGlobal")
		}
		pData := createData(b, m.Data)
		GameProxyMessage.BroadcastGlobalStart(b)
		GameProxyMessage.BroadcastGlobalAddExclude(b, m.Exclude)
		GameProxyMessage.BroadcastGlobalAddOrder(b, m.Order)
		if pData != 0 {
			GameProxyMessage.BroadcastGlobalAddData(b, pData)
		}
		body = GameProxyMessage.BroadcastGlobalEnd(b)
		bodyType = GameProxyMessage.ServerToProxyMessageBroadcastGlobal
	case ServerToProxyMessageType_BroadcastLocal:
		m := msg.BroadcastLocal
		if m == nil {
			return nil, missingBody("BroadcastLocal")
		}
		pData := createData(b, m.Data)
		GameProxyMessage.BroadcastLocalStart(b)
		GameProxyMessage.BroadcastLocalAddExclude(b, m.Exclude)
		GameProxyMessage.BroadcastLocalAddOrder(b, m.Order)
		if pData != 0 {
			GameProxyMessage.BroadcastLocalAddData(b, pData)
		}
		GameProxyMessage.BroadcastLocalAddCenter(b, GameProxyMessage.CreateChunkPosition(b, m.Center.X, m.Center.Z))
		body = GameProxyMessage.BroadcastLocalEnd(b)
		bodyType = GameProxyMessage.ServerToProxyMessageBroadcastLocal
	case ServerToProxyMessageType_Unicast:
		m := msg.Unicast
		if m == nil {
			return nil, missingBody("Unicast")
		}
		pData := createData(b, m.Data)
		GameProxyMessage.UnicastStart(b)
		GameProxyMessage.UnicastAddStream(b, m.Stream)
		GameProxyMessage.UnicastAddOrder(b, m.Order)
		if pData != 0 {
			GameProxyMessage.UnicastAddData(b, pData)
		}
		body = GameProxyMessage.UnicastEnd(b)
		bodyType = GameProxyMessage.ServerToProxyMessageUnicast
	case ServerToProxyMessageType_Flush:
		GameProxyMessage.FlushStart(b)
		body = GameProxyMessage.FlushEnd(b)
		bodyType = GameProxyMessage.ServerToProxyMessageFlush
	case ServerToProxyMessageType_Shutdown:
		if msg.Shutdown == nil {
			return nil, missingBody("Shutdown")
		}
		GameProxyMessage.ShutdownStart(b)
		GameProxyMessage.ShutdownAddStream(b, msg.Shutdown.Stream)
		body = GameProxyMessage.ShutdownEnd(b)
		bodyType = GameProxyMessage.ServerToProxyMessageShutdown
	default:
		return nil, &errors.InvalidEnumValue{
			EnumName: "ServerToProxyMessageType",
			IntValue: uint8(msg.MessageType),
		}
	}

	GameProxyMessage.ServerToProxyStart(b)
	GameProxyMessage.ServerToProxyAddVersion(b, s.Version)
	GameProxyMessage.ServerToProxyAddMessageType(b, bodyType)
	GameProxyMessage.ServerToProxyAddMessage(b, body)
	root := GameProxyMessage.ServerToProxyEnd(b)
	GameProxyMessage.FinishServerToProxyBuffer(b, root)

	return b.FinishedBytes(), nil
}

func nilIfEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

// Parse decodes an envelope without copying payload bytes: every Data field
// of the result is a view into raw.
func (s ServerToProxyMessageSerializer) Parse(raw []byte) (msg *ServerToProxyMessage, err error) {
	if len(raw) < minEnvelopeSize {
		return nil, &errors.Underflow{
			MessageName: "ServerToProxy",
			MsgSize:     len(raw),
			MinimumSize: minEnvelopeSize,
		}
	}

	if !GameProxyMessage.ServerToProxyBufferHasIdentifier(raw) {
		return nil, &errors.InvalidHeaderVersion{
			ExpectedIdentifier: GameProxyMessage.ServerToProxyIdentifier,
			ActualIdentifier:   string(raw[4:8]),
			ExpectedVersion:    s.Version,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			msg = nil
			err = &errors.MalformedMessage{
				MessageName: "ServerToProxy",
				Cause:       fmt.Sprintf("%v", r),
			}
		}
	}()

	root := GameProxyMessage.GetRootAsServerToProxy(raw, 0)
	if root.Version() != s.Version {
		return nil, &errors.InvalidHeaderVersion{
			ExpectedIdentifier: GameProxyMessage.ServerToProxyIdentifier,
			ActualIdentifier:   GameProxyMessage.ServerToProxyIdentifier,
			ExpectedVersion:    s.Version,
			ActualVersion:      root.Version(),
		}
	}

	wireType := root.MessageType()
	body := flatbuffers.Table{}
	if wireType == GameProxyMessage.ServerToProxyMessageNONE || !root.Message(&body) {
		return nil, missingBody("message")
	}

	parsed := &ServerToProxyMessage{
		Version:     root.Version(),
		MessageType: messageTypeFromWire(wireType),
	}

	switch parsed.MessageType {
	case ServerToProxyMessageType_UpdatePlayerChunkPositions:
		m := GameProxyMessage.UpdatePlayerChunkPositions{}
		m.Init(body.Bytes, body.Pos)
		if m.StreamsLength() != m.PositionsLength() {
			return nil, &errors.MismatchedLengths{
				MessageName: "UpdatePlayerChunkPositions",
				LeftName:    "streams",
				LeftLen:     m.StreamsLength(),
				RightName:   "positions",
				RightLen:    m.PositionsLength(),
			}
		}
		out := &UpdatePlayerChunkPositions{
			Streams:   make([]uint64, m.StreamsLength()),
			Positions: make([]ChunkPosition, m.PositionsLength()),
		}
		pos := GameProxyMessage.ChunkPosition{}
		for i := range out.Streams {
			out.Streams[i] = m.Streams(i)
			m.Positions(&pos, i)
			out.Positions[i] = ChunkPosition{X: pos.X(), Z: pos.Z()}
		}
		parsed.UpdatePlayerChunkPositions = out
	case ServerToProxyMessageType_SetReceiveBroadcasts:
		m := GameProxyMessage.SetReceiveBroadcasts{}
		m.Init(body.Bytes, body.Pos)
		parsed.SetReceiveBroadcasts = &SetReceiveBroadcasts{Stream: m.Stream()}
	case ServerToProxyMessageType_BroadcastGlobal:
		m := GameProxyMessage.BroadcastGlobal{}
		m.Init(body.Bytes, body.Pos)
		parsed.BroadcastGlobal = &BroadcastGlobal{
			Exclude: m.Exclude(),
			Order:   m.Order(),
			Data:    nilIfEmpty(m.DataBytes()),
		}
	case ServerToProxyMessageType_BroadcastLocal:
		m := GameProxyMessage.BroadcastLocal{}
		m.Init(body.Bytes, body.Pos)
		center := m.Center(nil)
		if center == nil {
			return nil, &errors.MissingFieldError{
				MessageName: "BroadcastLocal",
				FieldName:   "center",
			}
		}
		parsed.BroadcastLocal = &BroadcastLocal{
			Center:  ChunkPosition{X: center.X(), Z: center.Z()},
			Exclude: m.Exclude(),
			Order:   m.Order(),
			Data:    nilIfEmpty(m.DataBytes()),
		}
	case ServerToProxyMessageType_Unicast:
		m := GameProxyMessage.Unicast{}
		m.Init(body.Bytes, body.Pos)
		parsed.Unicast = &Unicast{
			Stream: m.Stream(),
			Order:  m.Order(),
			Data:   nilIfEmpty(m.DataBytes()),
		}
	case ServerToProxyMessageType_Flush:
		parsed.Flush = &Flush{}
	case ServerToProxyMessageType_Shutdown:
		m := GameProxyMessage.Shutdown{}
		m.Init(body.Bytes, body.Pos)
		parsed.Shutdown = &Shutdown{Stream: m.Stream()}
	default:
		return nil, &errors.InvalidEnumValue{
			EnumName: "ServerToProxyMessage",
			IntValue: uint8(wireType),
		}
	}

	return parsed, nil
}

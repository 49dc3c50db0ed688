package errors

import "fmt"

type Underflow struct {
	MessageName string
	MsgSize     int
	MinimumSize int
}

func (e *Underflow) Error() string {
	return fmt.Sprintf("Message parsing underflowed (type=%s), provided %d bytes, needed at least %d", e.MessageName, e.MsgSize, e.MinimumSize)
}

type InvalidEnumValue struct {
	EnumName string
	IntValue uint8
}

func (e *InvalidEnumValue) Error() string {
	return fmt.Sprintf("Invalid enum value=%d (enum: %s)", e.IntValue, e.EnumName)
}

type InvalidHeaderVersion struct {
	ExpectedIdentifier string
	ActualIdentifier   string
	ExpectedVersion    uint8
	ActualVersion      uint8
}

func (e *InvalidHeaderVersion) Error() string {
	return fmt.Sprintf("Invalid header: expected identifier=%q, got identifier=%q. Expected version %d, got %d", e.ExpectedIdentifier, e.ActualIdentifier, e.ExpectedVersion, e.ActualVersion)
}

type MissingFieldError struct {
	MessageName string
	FieldName   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing field %s in message type %s", e.FieldName, e.MessageName)
}

type MismatchedLengths struct {
	MessageName string
	LeftName    string
	LeftLen     int
	RightName   string
	RightLen    int
}

func (e *MismatchedLengths) Error() string {
	return fmt.Sprintf("Mismatched lengths in %s: len(%s)=%d, len(%s)=%d", e.MessageName, e.LeftName, e.LeftLen, e.RightName, e.RightLen)
}

// MalformedMessage wraps a panic raised while reading an untrusted buffer.
type MalformedMessage struct {
	MessageName string
	Cause       string
}

func (e *MalformedMessage) Error() string {
	return fmt.Sprintf("Malformed message (type=%s): %s", e.MessageName, e.Cause)
}

type NameCollision struct {
	CollisionContext string
	Name             string
}

func (e *NameCollision) Error() string {
	return fmt.Sprintf("Name collision for name '%s' in context '%s'", e.Name, e.CollisionContext)
}

//
// Packet channel errors

type TooLargePacket struct {
	Size    int
	MaxSize int
}

func (e *TooLargePacket) Error() string {
	return fmt.Sprintf("Packet of %d bytes exceeds maximum packet size %d", e.Size, e.MaxSize)
}

type ZeroLengthPacket struct{}

func (e *ZeroLengthPacket) Error() string {
	return "Zero length packet"
}

type MalformedLength struct {
	PrefixBytes int
}

func (e *MalformedLength) Error() string {
	return fmt.Sprintf("Length prefix did not terminate within %d bytes", e.PrefixBytes)
}

type AlreadyClosed struct{}

func (e *AlreadyClosed) Error() string {
	return "Packet channel already closed"
}

type ReceiverClosed struct{}

func (e *ReceiverClosed) Error() string {
	return "Packet channel receiver closed"
}

type ChannelSaturated struct {
	QueuedFrames int
}

func (e *ChannelSaturated) Error() string {
	return fmt.Sprintf("Packet channel saturated with %d queued frames", e.QueuedFrames)
}

//
// Backend link errors

type BackendLinkLost struct {
	Address string
	Cause   error
}

func (e *BackendLinkLost) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("Lost connection to backend at %s", e.Address)
	}
	return fmt.Sprintf("Lost connection to backend at %s: %s", e.Address, e.Cause.Error())
}

func (e *BackendLinkLost) Unwrap() error {
	return e.Cause
}

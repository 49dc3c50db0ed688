// Package packetchannel moves length-prefixed byte frames from a stream
// producer to a frame consumer. Each frame on the wire is a VarInt length
// followed by that many payload bytes. Decoded frames share large backing
// fragments instead of being allocated one by one.
package packetchannel

import (
	"context"
	"encoding/binary"
	"io"
	"sync"

	"github.com/sessamekesh/spanreed-game-proxy/pkg/errors"
)

const (
	DefaultFragmentSize    = 16 * 1024
	DefaultMaxQueuedFrames = 256
	DefaultMaxPacketSize   = 2 * 1024 * 1024

	maxVarIntBytes = 5
)

type PacketChannelParams struct {
	// FragmentSize is the size of each shared backing buffer. Frames larger
	// than this get a fragment of their own.
	FragmentSize int

	MaxQueuedFrames int

	// MaxPacketSize is exclusive: a frame declaring this many bytes or more
	// is rejected.
	MaxPacketSize int
}

// AppendFrame appends the framed encoding of payload to dst.
func AppendFrame(dst []byte, payload []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(payload)))
	return append(dst, payload...)
}

type Frame struct {
	data       []byte
	fragmentId uint64

	header    [maxVarIntBytes]byte
	headerLen uint8
}

// Bytes is the payload without its length prefix.
func (f Frame) Bytes() []byte {
	return f.data
}

// AppendWire appends the frame to dst exactly as it was received, length
// prefix included, even when the sender used a longer prefix than needed.
func (f Frame) AppendWire(dst []byte) []byte {
	dst = append(dst, f.header[:f.headerLen]...)
	return append(dst, f.data...)
}

func (f Frame) WireLen() int {
	return int(f.headerLen) + len(f.data)
}

func (f Frame) Len() int {
	return len(f.data)
}

func (f Frame) FragmentId() uint64 {
	return f.fragmentId
}

type Sender struct {
	params PacketChannelParams

	mut_decode sync.Mutex
	closed     bool

	lengthAcc   uint64
	lengthShift uint
	prefix      [maxVarIntBytes]byte
	prefixBytes int
	remaining   int
	frameStart  int

	frameHeader    [maxVarIntBytes]byte
	frameHeaderLen uint8

	fragment     []byte
	fragmentUsed int
	fragmentId   uint64

	frames       chan Frame
	receiverDone <-chan struct{}
}

type Receiver struct {
	frames <-chan Frame

	closeOnce    sync.Once
	receiverDone chan struct{}
}

func Create(params PacketChannelParams) (*Sender, *Receiver) {
	if params.FragmentSize <= 0 {
		params.FragmentSize = DefaultFragmentSize
	}
	if params.MaxQueuedFrames <= 0 {
		params.MaxQueuedFrames = DefaultMaxQueuedFrames
	}
	if params.MaxPacketSize <= 0 {
		params.MaxPacketSize = DefaultMaxPacketSize
	}

	frames := make(chan Frame, params.MaxQueuedFrames)
	receiverDone := make(chan struct{})

	sender := &Sender{
		params:       params,
		fragment:     make([]byte, params.FragmentSize),
		frames:       frames,
		receiverDone: receiverDone,
	}
	receiver := &Receiver{
		frames:       frames,
		receiverDone: receiverDone,
	}

	return sender, receiver
}

// Send decodes chunk, which may hold any slice of the framed stream, and
// publishes every frame it completes. It never blocks: a full frame queue
// is reported as ChannelSaturated. Every error closes the sender.
func (s *Sender) Send(chunk []byte) error {
	s.mut_decode.Lock()
	defer s.mut_decode.Unlock()

	return s.decode(chunk, func(f Frame) error {
		select {
		case <-s.receiverDone:
			return &errors.ReceiverClosed{}
		default:
		}

		select {
		case s.frames <- f:
			return nil
		default:
			return &errors.ChannelSaturated{QueuedFrames: len(s.frames)}
		}
	})
}

// SendWait behaves like Send but waits for queue space instead of failing.
func (s *Sender) SendWait(ctx context.Context, chunk []byte) error {
	s.mut_decode.Lock()
	defer s.mut_decode.Unlock()

	return s.decode(chunk, func(f Frame) error {
		select {
		case <-s.receiverDone:
			return &errors.ReceiverClosed{}
		case <-ctx.Done():
			return ctx.Err()
		case s.frames <- f:
			return nil
		}
	})
}

// Close stops the sender. Frames already queued stay readable.
func (s *Sender) Close() {
	s.mut_decode.Lock()
	defer s.mut_decode.Unlock()
	s.closeLocked()
}

func (s *Sender) IsClosed() bool {
	s.mut_decode.Lock()
	defer s.mut_decode.Unlock()
	return s.closed
}

func (s *Sender) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	s.fragment = nil
	close(s.frames)
}

func (s *Sender) decode(chunk []byte, publish func(Frame) error) error {
	if s.closed {
		return &errors.AlreadyClosed{}
	}

	err := s.decodeLocked(chunk, publish)
	if err != nil {
		s.closeLocked()
	}
	return err
}

func (s *Sender) decodeLocked(chunk []byte, publish func(Frame) error) error {
	for len(chunk) > 0 {
		if s.remaining == 0 {
			b := chunk[0]
			chunk = chunk[1:]

			s.lengthAcc |= uint64(b&0x7F) << s.lengthShift
			s.prefix[s.prefixBytes] = b
			s.prefixBytes++
			if b&0x80 != 0 {
				if s.prefixBytes >= maxVarIntBytes {
					return &errors.MalformedLength{PrefixBytes: s.prefixBytes}
				}
				s.lengthShift += 7
				continue
			}

			length := s.lengthAcc
			s.frameHeader = s.prefix
			s.frameHeaderLen = uint8(s.prefixBytes)
			s.lengthAcc = 0
			s.lengthShift = 0
			s.prefixBytes = 0

			if length == 0 {
				return &errors.ZeroLengthPacket{}
			}
			if length >= uint64(s.params.MaxPacketSize) {
				return &errors.TooLargePacket{
					Size:    int(length),
					MaxSize: s.params.MaxPacketSize,
				}
			}

			s.beginFrame(int(length))
			continue
		}

		n := s.remaining
		if n > len(chunk) {
			n = len(chunk)
		}
		copy(s.fragment[s.fragmentUsed:], chunk[:n])
		s.fragmentUsed += n
		s.remaining -= n
		chunk = chunk[n:]

		if s.remaining == 0 {
			frame := Frame{
				data:       s.fragment[s.frameStart:s.fragmentUsed:s.fragmentUsed],
				fragmentId: s.fragmentId,
				header:     s.frameHeader,
				headerLen:  s.frameHeaderLen,
			}
			if err := publish(frame); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Sender) beginFrame(length int) {
	if len(s.fragment)-s.fragmentUsed < length {
		size := s.params.FragmentSize
		if length > size {
			size = length
		}
		s.fragment = make([]byte, size)
		s.fragmentUsed = 0
		s.fragmentId++
	}

	s.frameStart = s.fragmentUsed
	s.remaining = length
}

// TryRecv returns the next complete frame, if one is queued.
func (r *Receiver) TryRecv() (Frame, bool) {
	select {
	case f, ok := <-r.frames:
		return f, ok
	default:
		return Frame{}, false
	}
}

// Recv waits for the next frame. It returns io.EOF once the sender has
// closed and every queued frame has been read.
func (r *Receiver) Recv(ctx context.Context) (Frame, error) {
	select {
	case f, ok := <-r.frames:
		if !ok {
			return Frame{}, io.EOF
		}
		return f, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// Frames exposes the queue for use in select statements. It is closed
// when the sender closes.
func (r *Receiver) Frames() <-chan Frame {
	return r.frames
}

func (r *Receiver) Len() int {
	return len(r.frames)
}

func (r *Receiver) Close() {
	r.closeOnce.Do(func() {
		close(r.receiverDone)
	})
}

package multiwii

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a method expecting a response
	// times out
	ErrTimeout = errors.New("timeout")
	// ErrClosed is returned when waiting for a response on a
	// connection that has been closed
	ErrClosed = errors.New("connection closed")

	// ErrOutOfBounds is returned by ByteReader when a read would go
	// past the end of the payload.
	ErrOutOfBounds = errors.New("read out of bounds")
	// ErrDecodeTruncated indicates a payload shorter than the
	// layout of its message type.
	ErrDecodeTruncated = errors.New("payload truncated")
	// ErrDecodeOverflow indicates a count prefixed array whose count
	// exceeds the capacity of its message type.
	ErrDecodeOverflow = errors.New("array count exceeds capacity")
	// ErrInvalidPayloadSize is returned when an outbound request has
	// too many elements to be framed.
	ErrInvalidPayloadSize = errors.New("invalid payload size")
)

// ChecksumError is returned when a frame was fully received
// but its checksum doesn't match. The frame is discarded.
type ChecksumError struct {
	Cmd      Command
	Size     uint8
	Expected uint8
	Got      uint8
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("invalid checksum for command %d (%d bytes): 0x%02x expected, got 0x%02x",
		uint8(e.Cmd), e.Size, e.Expected, e.Got)
}

// DeviceRejectedError is returned when the flight controller answers
// a request with an error frame ('!' direction).
type DeviceRejectedError struct {
	Cmd Command
}

func (e *DeviceRejectedError) Error() string {
	return fmt.Sprintf("flight controller rejected command %s", e.Cmd)
}

// DecodeError wraps ErrDecodeTruncated or ErrDecodeOverflow
// with the command whose payload failed to decode.
type DecodeError struct {
	Cmd Command
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding %s: %v", e.Cmd, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type unexpectedMessageError struct {
	Expected Command
	Message  Message
}

func (e *unexpectedMessageError) Error() string {
	return fmt.Sprintf("expecting reply with command %s, got %s instead (%+v)", e.Expected, e.Message.Command(), e.Message)
}

package multiwii

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// MaxRequestElements is the largest number of payload elements
	// a request can carry. The size byte is twice the element count.
	MaxRequestElements = 127
)

// Request is an outbound MSP request. Payload elements are sent
// as little endian 16 bit values, or as single bytes when
// ByteWidth is set. Either way the size byte reserves two bytes
// per element, which is what flight controllers expect.
type Request struct {
	Cmd       Command
	Payload   []int16
	ByteWidth bool
}

// Encode returns the request framed as "$M<", size, command,
// payload and checksum.
func (r *Request) Encode() ([]byte, error) {
	if len(r.Payload) > MaxRequestElements {
		return nil, fmt.Errorf("%w: %d elements, max %d", ErrInvalidPayloadSize, len(r.Payload), MaxRequestElements)
	}
	var data bytes.Buffer
	for _, v := range r.Payload {
		if r.ByteWidth {
			data.WriteByte(byte(v))
		} else {
			binary.Write(&data, binary.LittleEndian, v)
		}
	}

	header := []byte{byte(2 * len(r.Payload)), byte(r.Cmd)}
	cs := newXorChecksum()
	checkSumWrite(cs, header)
	checkSumWrite(cs, data.Bytes())

	var buf bytes.Buffer
	buf.WriteByte('$')
	buf.WriteByte('M')
	buf.WriteByte(byte(DirectionRequest))
	buf.Write(header)
	buf.Write(data.Bytes())
	buf.WriteByte(cs.Sum8())
	return buf.Bytes(), nil
}

// EncodeRequest is a shorthand for building a Request and
// calling its Encode method.
func EncodeRequest(cmd Command, payload []int16, byteWidth bool) ([]byte, error) {
	r := &Request{
		Cmd:       cmd,
		Payload:   payload,
		ByteWidth: byteWidth,
	}
	return r.Encode()
}

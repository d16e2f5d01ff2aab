package multiwii

import (
	"encoding/hex"

	log "github.com/sirupsen/logrus"
)

type parserState int

const (
	parserStateIdle parserState = iota
	parserStateSawStart
	parserStateSawDirectionMarker
	parserStateAwaitingSize
	parserStateAwaitingCommand
	parserStateAccumulatingPayload
	parserStateAwaitingChecksum
)

const (
	maxPayloadSize = 255
)

// Parser reassembles MSPv1 replies from a byte stream. Bytes may
// arrive one at a time or in bursts; the parser keeps its state
// between calls and resynchronizes on the next "$M>" or "$M!"
// after any unexpected byte.
//
// A Parser must be used from a single goroutine. Use one Parser
// per byte stream.
type Parser struct {
	state   parserState
	errRcvd bool
	size    uint8
	cmd     Command
	cs      xorChecksum
	buf     [maxPayloadSize]byte
	offset  int
}

// NewParser returns a Parser waiting for the start of a frame
func NewParser() *Parser {
	return &Parser{}
}

// Reset discards any partially received frame
func (p *Parser) Reset() {
	p.state = parserStateIdle
	p.errRcvd = false
	p.size = 0
	p.cmd = 0
	p.cs.Reset()
	p.offset = 0
}

func (p *Parser) desync(c byte) {
	log.Tracef("MSP: unexpected byte 0x%02x in state %d, resyncing", c, p.state)
	p.Reset()
	if c == '$' {
		p.state = parserStateSawStart
	}
}

// FeedFrame consumes one byte. It returns a non nil Frame once a
// complete reply with a valid checksum has been received,
// a *ChecksumError if the checksum didn't match or a
// *DeviceRejectedError for a valid error frame. Otherwise it
// returns nil, nil and waits for more bytes.
func (p *Parser) FeedFrame(c byte) (*Frame, error) {
	switch p.state {
	case parserStateIdle:
		if c == '$' {
			p.state = parserStateSawStart
		}
	case parserStateSawStart:
		if c != 'M' {
			p.desync(c)
			break
		}
		p.state = parserStateSawDirectionMarker
	case parserStateSawDirectionMarker:
		switch Direction(c) {
		case DirectionReply:
			p.errRcvd = false
		case DirectionError:
			p.errRcvd = true
		default:
			p.desync(c)
			return nil, nil
		}
		p.state = parserStateAwaitingSize
	case parserStateAwaitingSize:
		p.size = c
		p.offset = 0
		p.cs.Reset()
		p.cs.WriteByte(c)
		p.state = parserStateAwaitingCommand
	case parserStateAwaitingCommand:
		p.cmd = Command(c)
		p.cs.WriteByte(c)
		if p.size > 0 {
			p.state = parserStateAccumulatingPayload
		} else {
			p.state = parserStateAwaitingChecksum
		}
	case parserStateAccumulatingPayload:
		p.buf[p.offset] = c
		p.cs.WriteByte(c)
		p.offset++
		if p.offset == int(p.size) {
			p.state = parserStateAwaitingChecksum
		}
	case parserStateAwaitingChecksum:
		return p.finish(c)
	}
	return nil, nil
}

func (p *Parser) finish(c byte) (*Frame, error) {
	defer p.Reset()
	if sum := p.cs.Sum8(); sum != c {
		return nil, &ChecksumError{
			Cmd:      p.cmd,
			Size:     p.size,
			Expected: sum,
			Got:      c,
		}
	}
	if p.errRcvd {
		return nil, &DeviceRejectedError{Cmd: p.cmd}
	}
	payload := make([]byte, p.size)
	copy(payload, p.buf[:p.size])
	log.Tracef("MSP:%d<= %s", p.cmd, hex.EncodeToString(payload))
	return &Frame{
		Direction: DirectionReply,
		Cmd:       p.cmd,
		Payload:   payload,
	}, nil
}

// Feed consumes one byte and decodes the reply once a frame is
// complete. It returns nil, nil while the frame is pending. Errors
// are per frame: the parser is always ready for the next frame.
func (p *Parser) Feed(c byte) (Message, error) {
	f, err := p.FeedFrame(c)
	if f == nil || err != nil {
		return nil, err
	}
	return DecodeMessage(f.Cmd, f.Payload)
}

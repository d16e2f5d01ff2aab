package multiwii

import "fmt"

// Direction is the third byte of an MSP frame
type Direction byte

const (
	// DirectionRequest marks frames sent to the flight controller
	DirectionRequest Direction = '<'
	// DirectionReply marks successful replies from the flight controller
	DirectionReply Direction = '>'
	// DirectionError marks replies to requests the flight
	// controller didn't accept
	DirectionError Direction = '!'
)

func (d Direction) String() string {
	switch d {
	case DirectionRequest, DirectionReply, DirectionError:
		return string([]byte{byte(d)})
	}
	return fmt.Sprintf("unknown direction 0x%02x", byte(d))
}

// Frame is a complete, checksum verified MSP frame
type Frame struct {
	Direction Direction
	Cmd       Command
	Payload   []byte
}

package multiwii

import "fmt"

// Message is a decoded MSP reply. The concrete type depends
// on the command, commands without a decoder produce a *RawMessage.
// Messages are never modified after being decoded.
type Message interface {
	Command() Command
	decode(r *ByteReader) error
}

// RawMessage is an undecoded message with its command
// and payload.
type RawMessage struct {
	Cmd     Command
	Payload []byte
}

func (m *RawMessage) Command() Command { return m.Cmd }
func (m *RawMessage) decode(r *ByteReader) error {
	b, err := r.next(r.Len())
	m.Payload = make([]byte, len(b))
	copy(m.Payload, b)
	return err
}

func getMessage(cmd Command) Message {
	switch cmd {
	case CmdName:
		return &NameMessage{}
	case CmdIdent:
		return &IdentMessage{}
	case CmdStatus:
		return &StatusMessage{}
	case CmdRawIMU:
		return &RawIMUMessage{}
	case CmdServo:
		return &ServoMessage{}
	case CmdMotor:
		return &MotorMessage{}
	case CmdRC:
		return &RCMessage{}
	case CmdRawGPS:
		return &RawGPSMessage{}
	case CmdCompGPS:
		return &CompGPSMessage{}
	case CmdAttitude:
		return &AttitudeMessage{}
	case CmdAltitude:
		return &AltitudeMessage{}
	case CmdRCTuning:
		return &RCTuningMessage{}
	case CmdPID:
		return &PIDMessage{}
	case CmdMisc:
		return &MiscMessage{}
	case CmdMotorPins:
		return &MotorPinsMessage{}
	case CmdOSDConfig:
		return &OSDConfigMessage{}
	case CmdBatteryState:
		return &BatteryStateMessage{}
	}
	// analog, box, box/pid names, servo conf, calibrations,
	// debug and anything unknown
	return &RawMessage{Cmd: cmd}
}

// DecodeMessage decodes the payload of a reply with the given command.
// Payloads longer than the layout of their message type are accepted,
// the extra bytes are ignored. Shorter payloads fail with a *DecodeError
// wrapping ErrDecodeTruncated.
func DecodeMessage(cmd Command, payload []byte) (Message, error) {
	msg := getMessage(cmd)
	if err := msg.decode(NewByteReader(payload)); err != nil {
		if err == ErrOutOfBounds {
			err = ErrDecodeTruncated
		}
		return nil, &DecodeError{Cmd: cmd, Err: err}
	}
	return msg, nil
}

// readFields reads each of the given *uint8, *uint16 or *uint32
// in order.
func (r *ByteReader) readFields(fields ...interface{}) error {
	for _, f := range fields {
		var err error
		switch v := f.(type) {
		case *uint8:
			*v, err = r.ReadU8()
		case *uint16:
			*v, err = r.ReadU16()
		case *uint32:
			*v, err = r.ReadU32()
		default:
			panic(fmt.Errorf("unsupported field type %T", f))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// readU16Array reads count values into dst, failing with
// ErrDecodeOverflow before reading anything if they don't fit.
func (r *ByteReader) readU16Array(dst []uint16, count uint8) error {
	if int(count) > len(dst) {
		return fmt.Errorf("%w: %d items, capacity %d", ErrDecodeOverflow, count, len(dst))
	}
	for ii := 0; ii < int(count); ii++ {
		v, err := r.ReadU16()
		if err != nil {
			return err
		}
		dst[ii] = v
	}
	return nil
}

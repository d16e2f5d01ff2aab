package multiwii

import (
	"math"
)

const (
	// PIDItems is the number of PID controllers reported by MSP_PID
	PIDItems = 10
)

// PIDTerm holds the scaled gains of one PID controller
type PIDTerm struct {
	P, I, D float64
}

// The wire carries one byte per gain. Each controller has its
// own divisors: 4 is POS, 5 is POSR and 6 is NAVR.
var pidDivisors = [PIDItems]PIDTerm{
	{10, 1000, 1},
	{10, 1000, 1},
	{10, 1000, 1},
	{10, 1000, 1},
	{100, 100, 1000},
	{10, 100, 1000},
	{10, 100, 1000},
	{10, 1000, 1},
	{10, 1000, 1},
	{10, 1000, 1},
}

// PIDMessage contains the raw and scaled gains of every
// PID controller.
type PIDMessage struct {
	Raw   [PIDItems][3]uint8
	Terms [PIDItems]PIDTerm
}

func (m *PIDMessage) Command() Command { return CmdPID }
func (m *PIDMessage) decode(r *ByteReader) error {
	if err := r.readStruct(&m.Raw); err != nil {
		return err
	}
	for ii, raw := range m.Raw {
		div := pidDivisors[ii]
		m.Terms[ii] = PIDTerm{
			P: float64(raw[0]) / div.P,
			I: float64(raw[1]) / div.I,
			D: float64(raw[2]) / div.D,
		}
	}
	return nil
}

// EncodePIDTerms returns the MSP_SET_PID payload for the given
// gains, using the same scaling as MSP_PID. Values are rounded
// to the nearest step and clamped to a byte.
func EncodePIDTerms(terms [PIDItems]PIDTerm) []int16 {
	clamp := func(v float64) int16 {
		return int16(math.Max(0, math.Min(math.MaxUint8, math.Round(v))))
	}
	payload := make([]int16, 0, PIDItems*3)
	for ii, t := range terms {
		div := pidDivisors[ii]
		payload = append(payload, clamp(t.P*div.P), clamp(t.I*div.I), clamp(t.D*div.D))
	}
	return payload
}

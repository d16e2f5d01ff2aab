package multiwii

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/icza/bitio"
)

const (
	// OSDColumns is the number of columns in the OSD character grid
	OSDColumns = 32
	// OSDRows is the number of rows in the OSD character grid
	OSDRows = 16

	// Codes below osdPositionVisible mean the item is not placed
	osdPositionVisible = 2048
)

// OsdItemPosition is the position of an item in the OSD grid
type OsdItemPosition struct {
	Visible bool
	X       int
	Y       int
}

func (p OsdItemPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// DecodeOsdPosition unpacks a raw OSD item code. It returns false
// when the item is not placed on the grid.
func DecodeOsdPosition(raw uint16) (OsdItemPosition, bool) {
	if raw < osdPositionVisible {
		return OsdItemPosition{}, false
	}
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, raw-osdPositionVisible)
	// row in the upper 11 bits, column in the lower 5:
	// y = offset / 32, x = offset % 32
	r := bitio.NewReader(bytes.NewReader(buf))
	y, err := r.ReadBits(11)
	if err != nil {
		panic(err)
	}
	x, err := r.ReadBits(5)
	if err != nil {
		panic(err)
	}
	return OsdItemPosition{Visible: true, X: int(x), Y: int(y)}, true
}

// EncodeOsdPosition packs a position into its raw code. A nil or
// hidden position encodes as 0. X and Y are truncated to the grid
// size (5 and 4 bits).
func EncodeOsdPosition(p *OsdItemPosition) uint16 {
	if p == nil || !p.Visible {
		return 0
	}
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	// same as 2048 + y*32 + x
	fields := []struct {
		v uint64
		n uint8
	}{
		{0, 4},
		{1, 1}, // visible
		{0, 2},
		{uint64(p.Y) & (OSDRows - 1), 4},
		{uint64(p.X) & (OSDColumns - 1), 5},
	}
	for _, f := range fields {
		if err := w.WriteBits(f.v, f.n); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return binary.BigEndian.Uint16(buf.Bytes())
}

package multiwii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOsdPositionRoundTrip(t *testing.T) {
	for y := 0; y < OSDRows; y++ {
		for x := 0; x < OSDColumns; x++ {
			p := &OsdItemPosition{Visible: true, X: x, Y: y}
			raw := EncodeOsdPosition(p)
			if raw != uint16(osdPositionVisible+y*OSDColumns+x) {
				t.Fatalf("encoding %s = %d", p, raw)
			}
			decoded, ok := DecodeOsdPosition(raw)
			if !ok {
				t.Fatalf("%s decoded as hidden", p)
			}
			if decoded != *p {
				t.Fatalf("%+v decoded as %+v", *p, decoded)
			}
		}
	}
}

func TestDecodeOsdPosition(t *testing.T) {
	for _, raw := range []uint16{0, 1, 1000, 2047} {
		_, ok := DecodeOsdPosition(raw)
		assert.False(t, ok, "raw %d", raw)
	}

	p, ok := DecodeOsdPosition(2048)
	assert.True(t, ok)
	assert.Equal(t, OsdItemPosition{Visible: true}, p)

	p, ok = DecodeOsdPosition(2048 + 10*32 + 31)
	assert.True(t, ok)
	assert.Equal(t, 31, p.X)
	assert.Equal(t, 10, p.Y)

	// rows past the grid are reported as they are
	p, ok = DecodeOsdPosition(0xffff)
	assert.True(t, ok)
	assert.Equal(t, 31, p.X)
	assert.Equal(t, (0xffff-2048)/32, p.Y)
}

func TestEncodeOsdPositionHidden(t *testing.T) {
	assert.Equal(t, uint16(0), EncodeOsdPosition(nil))
	assert.Equal(t, uint16(0), EncodeOsdPosition(&OsdItemPosition{X: 3, Y: 4}))
	assert.Equal(t, uint16(2048+3*32+7), EncodeOsdPosition(&OsdItemPosition{Visible: true, X: 7, Y: 3}))
}

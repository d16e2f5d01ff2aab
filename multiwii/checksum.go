package multiwii

var (
	_ checkSum = (*xorChecksum)(nil)
)

type checkSum interface {
	WriteByte(b byte) error
	Sum8() uint8
	Reset()
}

// xorChecksum is the MSPv1 checksum: XOR of the size,
// command and payload bytes.
type xorChecksum struct {
	sum uint8
}

func (c *xorChecksum) WriteByte(b byte) error {
	c.sum ^= b
	return nil
}

func (c *xorChecksum) Sum8() uint8 {
	return c.sum
}

func (c *xorChecksum) Reset() {
	c.sum = 0
}

func newXorChecksum() checkSum {
	return &xorChecksum{}
}

func checkSumWrite(cs checkSum, data []byte) error {
	for _, b := range data {
		if err := cs.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

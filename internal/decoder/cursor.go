package decoder

import "github.com/netradar/mmdbreader/internal/mmdberrors"

// Cursor is a positioned, bounds-checked view over a byte slice. It never
// panics: every read that would walk off the end of the slice returns
// mmdberrors.KindOutOfBounds instead.
type Cursor struct {
	buf []byte
	off uint
}

// NewCursor returns a Cursor over buf starting at off.
func NewCursor(buf []byte, off uint) Cursor {
	return Cursor{buf: buf, off: off}
}

// Offset returns the cursor's current position.
func (c Cursor) Offset() uint {
	return c.off
}

// SeekTo repositions the cursor without changing its backing bytes.
func (c *Cursor) SeekTo(off uint) {
	c.off = off
}

// ForkAt returns a new Cursor sharing the same backing bytes, positioned at
// off. Advancing the fork never affects the original cursor.
func (c Cursor) ForkAt(off uint) Cursor {
	return Cursor{buf: c.buf, off: off}
}

// ReadByte reads and consumes one byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.off >= uint(len(c.buf)) {
		return 0, mmdberrors.NewOutOfBounds()
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// ReadBytes reads and consumes n bytes, returning a slice of the backing
// array (not a copy).
func (c *Cursor) ReadBytes(n uint) ([]byte, error) {
	end := c.off + n
	if end > uint(len(c.buf)) {
		return nil, mmdberrors.NewOutOfBounds()
	}
	b := c.buf[c.off:end]
	c.off = end
	return b, nil
}

// ReadUint reads n big-endian bytes (0 <= n <= 8) zero-extended into the
// low-order bytes of a uint64.
func (c *Cursor) ReadUint(n uint) (uint64, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	var val uint64
	for _, x := range b {
		val = (val << 8) | uint64(x)
	}
	return val, nil
}

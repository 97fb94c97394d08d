package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorReadByte(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02}, 0)
	b, err := c.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x01), b)
	require.Equal(t, uint(1), c.Offset())
}

func TestCursorReadByteOutOfBounds(t *testing.T) {
	c := NewCursor([]byte{}, 0)
	_, err := c.ReadByte()
	require.Error(t, err)
}

func TestCursorReadBytes(t *testing.T) {
	c := NewCursor([]byte{0xAA, 0xBB, 0xCC}, 1)
	b, err := c.ReadBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0xBB, 0xCC}, b)
	require.Equal(t, uint(3), c.Offset())
}

func TestCursorReadBytesOutOfBounds(t *testing.T) {
	c := NewCursor([]byte{0xAA}, 0)
	_, err := c.ReadBytes(5)
	require.Error(t, err)
}

func TestCursorReadUint(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x00}, 0)
	v, err := c.ReadUint(2)
	require.NoError(t, err)
	require.Equal(t, uint64(256), v)
}

func TestCursorForkDoesNotAdvanceOriginal(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03}, 0)
	fork := c.ForkAt(2)
	b, err := fork.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x03), b)
	require.Equal(t, uint(0), c.Offset())
}

func TestCursorSeekTo(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03}, 0)
	c.SeekTo(2)
	b, err := c.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x03), b)
}

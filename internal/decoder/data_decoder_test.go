package decoder

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/netradar/mmdbreader/internal/mmdberrors"
	"github.com/stretchr/testify/require"
)

func newDataDecoderFromHex(t *testing.T, hexStr string) DataDecoder {
	t.Helper()
	buf, err := hex.DecodeString(hexStr)
	require.NoError(t, err, "failed to decode hex string: %s", hexStr)
	return New(buf, 0, 0)
}

func TestDecodeBool(t *testing.T) {
	tests := map[string]bool{
		"0007": false,
		"0107": true,
	}
	for hexStr, expected := range tests {
		t.Run(hexStr, func(t *testing.T) {
			d := newDataDecoderFromHex(t, hexStr)
			kind, size, offset, err := d.DecodeCtrlData(0)
			require.NoError(t, err)
			require.Equal(t, KindBool, kind)
			got, _ := d.DecodeBool(size, offset)
			require.Equal(t, expected, got)
		})
	}
}

func TestDecodeFloat64(t *testing.T) {
	tests := map[string]float64{
		"680000000000000000": 0.0,
		"683FE0000000000000": 0.5,
		"68405EC00000000000": 123.0,
		"68BFE0000000000000": -0.5,
	}
	for hexStr, expected := range tests {
		t.Run(hexStr, func(t *testing.T) {
			d := newDataDecoderFromHex(t, hexStr)
			kind, size, offset, err := d.DecodeCtrlData(0)
			require.NoError(t, err)
			require.Equal(t, KindFloat64, kind)
			got, _, err := d.DecodeFloat64(size, offset)
			require.NoError(t, err)
			require.InDelta(t, expected, got, 1e-9)
		})
	}
}

func TestDecodeFloat32(t *testing.T) {
	tests := map[string]float32{
		"040800000000": 0.0,
		"04083F800000": 1.0,
		"0408BF800000": -1.0,
	}
	for hexStr, expected := range tests {
		t.Run(hexStr, func(t *testing.T) {
			d := newDataDecoderFromHex(t, hexStr)
			kind, size, offset, err := d.DecodeCtrlData(0)
			require.NoError(t, err)
			require.Equal(t, KindFloat32, kind)
			got, _, err := d.DecodeFloat32(size, offset)
			require.NoError(t, err)
			require.InDelta(t, expected, got, 1e-6)
		})
	}
}

func TestDecodeFloat64RejectsWrongPayloadSize(t *testing.T) {
	// size-selector 4 (not 8), float64 kind: ctrl byte 0x64.
	d := newDataDecoderFromHex(t, "6400000000")
	kind, size, offset, err := d.DecodeCtrlData(0)
	require.NoError(t, err)
	require.Equal(t, KindFloat64, kind)
	_, _, err = d.DecodeFloat64(size, offset)
	require.Error(t, err)
	var mmdbErr *mmdberrors.Error
	require.True(t, errors.As(err, &mmdbErr))
	require.Equal(t, mmdberrors.KindInvalidPayloadSize, mmdbErr.Kind)
}

func TestDecodeFloat32RejectsWrongPayloadSize(t *testing.T) {
	// extended ctrl byte (size 8, not 4) + extension byte 0x08 selecting float32.
	d := newDataDecoderFromHex(t, "08080000000000000000")
	kind, size, offset, err := d.DecodeCtrlData(0)
	require.NoError(t, err)
	require.Equal(t, KindFloat32, kind)
	_, _, err = d.DecodeFloat32(size, offset)
	require.Error(t, err)
	var mmdbErr *mmdberrors.Error
	require.True(t, errors.As(err, &mmdbErr))
	require.Equal(t, mmdberrors.KindInvalidPayloadSize, mmdbErr.Kind)
}

func TestDecodeInt32(t *testing.T) {
	tests := map[string]int32{
		"0001":       0,
		"0401ffffffff": -1,
		"0101ff":     255,
		"020101f4":   500,
	}
	for hexStr, expected := range tests {
		t.Run(hexStr, func(t *testing.T) {
			d := newDataDecoderFromHex(t, hexStr)
			kind, size, offset, err := d.DecodeCtrlData(0)
			require.NoError(t, err)
			require.Equal(t, KindInt32, kind)
			got, _, err := d.DecodeInt32(size, offset)
			require.NoError(t, err)
			require.Equal(t, expected, got)
		})
	}
}

func TestDecodeUint16(t *testing.T) {
	tests := map[string]uint16{
		"a0":     0,
		"a1ff":   255,
		"a201f4": 500,
		"a2ffff": 65535,
	}
	for hexStr, expected := range tests {
		t.Run(hexStr, func(t *testing.T) {
			d := newDataDecoderFromHex(t, hexStr)
			kind, size, offset, err := d.DecodeCtrlData(0)
			require.NoError(t, err)
			require.Equal(t, KindUint16, kind)
			got, _, err := d.DecodeUint16(size, offset)
			require.NoError(t, err)
			require.Equal(t, expected, got)
		})
	}
}

func TestDecodeUint32(t *testing.T) {
	tests := map[string]uint32{
		"c0":         0,
		"c1ff":       255,
		"c3ffffff":   16777215,
		"c4ffffffff": 4294967295,
	}
	for hexStr, expected := range tests {
		t.Run(hexStr, func(t *testing.T) {
			d := newDataDecoderFromHex(t, hexStr)
			kind, size, offset, err := d.DecodeCtrlData(0)
			require.NoError(t, err)
			require.Equal(t, KindUint32, kind)
			got, _, err := d.DecodeUint32(size, offset)
			require.NoError(t, err)
			require.Equal(t, expected, got)
		})
	}
}

func TestDecodeUint64(t *testing.T) {
	tests := map[string]uint64{
		"0002":                               0,
		"020201f4":                           500,
		"0802" + "ffffffffffffffff": 18446744073709551615,
	}
	for hexStr, expected := range tests {
		t.Run(hexStr, func(t *testing.T) {
			d := newDataDecoderFromHex(t, hexStr)
			kind, size, offset, err := d.DecodeCtrlData(0)
			require.NoError(t, err)
			require.Equal(t, KindUint64, kind)
			got, _, err := d.DecodeUint64(size, offset)
			require.NoError(t, err)
			require.Equal(t, expected, got)
		})
	}
}

func TestDecodeUint128(t *testing.T) {
	allFF := strings.Repeat("ff", 16)
	d := newDataDecoderFromHex(t, "1003"+allFF)
	kind, size, offset, err := d.DecodeCtrlData(0)
	require.NoError(t, err)
	require.Equal(t, KindUint128, kind)
	got, _, err := d.DecodeUint128(size, offset)
	require.NoError(t, err)

	expected := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	require.Equal(t, 0, expected.Cmp(got))
}

func TestDecodeStringAndBytes(t *testing.T) {
	d := newDataDecoderFromHex(t, "43466f6f")
	kind, size, offset, err := d.DecodeCtrlData(0)
	require.NoError(t, err)
	require.Equal(t, KindString, kind)
	s, _, err := d.DecodeString(size, offset)
	require.NoError(t, err)
	require.Equal(t, "Foo", s)

	d2 := newDataDecoderFromHex(t, "83466f6f")
	kind2, size2, offset2, err := d2.DecodeCtrlData(0)
	require.NoError(t, err)
	require.Equal(t, KindBytes, kind2)
	b, _, err := d2.DecodeBytes(size2, offset2)
	require.NoError(t, err)
	require.Equal(t, []byte("Foo"), b)
}

func TestDecodePointer(t *testing.T) {
	// size-selector 0, extra 0: one payload byte, target 5, pointerBase 0.
	// The buffer extends past offset 5 so the target lies inside it.
	buf, err := hex.DecodeString("200500000043466f6f")
	require.NoError(t, err)
	d := New(buf, 0, 0)
	kind, size, offset, err := d.DecodeCtrlData(0)
	require.NoError(t, err)
	require.Equal(t, KindPointer, kind)
	target, next, err := d.DecodePointer(size, offset)
	require.NoError(t, err)
	require.Equal(t, uint(5), target)
	require.Equal(t, uint(2), next)
}

func TestDecodeCtrlDataSizeEscapes(t *testing.T) {
	// size field 29: one extra size byte, string kind (010), total size 29+0=29.
	buf := append([]byte{0x5d, 0x00}, make([]byte, 29)...)
	d := New(buf, 0, 0)
	kind, size, offset, err := d.DecodeCtrlData(0)
	require.NoError(t, err)
	require.Equal(t, KindString, kind)
	require.Equal(t, uint(29), size)
	require.Equal(t, uint(2), offset)
}

func TestDecodeOutOfBoundsReturnsError(t *testing.T) {
	d := New([]byte{0x43}, 0, 0)
	_, _, _, err := d.DecodeCtrlData(0)
	require.NoError(t, err)

	_, _, err = d.DecodeString(3, 1)
	require.Error(t, err)
}

// Package decoder implements the low-level MMDB data section decoding
// primitives: control-byte parsing, per-type payload decoding, and pointer
// resolution. It knows nothing about the higher-level Value tree; callers
// assemble that from the (Kind, size, offset) triples this package returns.
package decoder

import (
	"math"
	"math/big"

	"github.com/netradar/mmdbreader/internal/mmdberrors"
)

// Kind identifies the on-wire type tag of a decoded value.
type Kind int

const (
	KindExtended Kind = iota
	KindPointer
	KindString
	KindFloat64
	KindBytes
	KindUint16
	KindUint32
	KindMap
	KindInt32
	KindUint64
	KindUint128
	KindSlice
	KindContainer
	KindEndMarker
	KindBool
	KindFloat32
)

func (k Kind) String() string {
	names := [...]string{
		"Extended", "Pointer", "String", "Float64", "Bytes", "Uint16",
		"Uint32", "Map", "Int32", "Uint64", "Uint128", "Slice", "Container",
		"EndMarker", "Bool", "Float32",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// maximumDataStructureDepth is the recursion depth libmaxminddb itself
// enforces; we default to the same value.
const maximumDataStructureDepth = 512

// DataDecoder decodes values from the data section of an MMDB file. offset
// arguments and return values are always absolute offsets into the
// underlying buffer. pointerBase is the absolute offset of
// data_section_start, added to a decoded pointer's relative target to turn
// it into an absolute offset.
type DataDecoder struct {
	buffer      []byte
	pointerBase uint
	maxDepth    int
}

// New creates a DataDecoder over buffer. pointerBase is the absolute offset
// of the start of the data section (pointer targets are relative to it).
// A maxDepth of 0 selects the default of 512.
func New(buffer []byte, pointerBase uint, maxDepth int) DataDecoder {
	if maxDepth <= 0 {
		maxDepth = maximumDataStructureDepth
	}
	return DataDecoder{buffer: buffer, pointerBase: pointerBase, maxDepth: maxDepth}
}

// Buffer returns the full underlying byte slice.
func (d *DataDecoder) Buffer() []byte {
	return d.buffer
}

// MaxDepth returns the configured recursion depth limit.
func (d *DataDecoder) MaxDepth() int {
	return d.maxDepth
}

// DecodeCtrlData decodes the control byte at offset, following the
// Extended-tag continuation byte when present, and returns the resolved
// Kind, the raw size field (payload size for most kinds; the pointer's own
// size-selector bits for KindPointer), and the offset of the first payload
// byte.
func (d *DataDecoder) DecodeCtrlData(offset uint) (Kind, uint, uint, error) {
	c := NewCursor(d.buffer, offset)
	ctrlByte, err := c.ReadByte()
	if err != nil {
		return 0, 0, 0, mmdberrors.WrapWithContext(err, offset)
	}

	kind := Kind(ctrlByte >> 5)
	if kind == KindExtended {
		next, err := c.ReadByte()
		if err != nil {
			return 0, 0, 0, mmdberrors.WrapWithContext(err, offset)
		}
		kind = Kind(next) + 7
	}

	size, newOffset, err := d.sizeFromCtrlByte(ctrlByte, c.Offset(), kind)
	if err != nil {
		return 0, 0, 0, err
	}
	return kind, size, newOffset, nil
}

func (d *DataDecoder) sizeFromCtrlByte(ctrlByte byte, offset uint, kind Kind) (uint, uint, error) {
	size := uint(ctrlByte & 0x1f)
	if kind == KindPointer {
		return size, offset, nil
	}
	if size < 29 {
		return size, offset, nil
	}

	c := NewCursor(d.buffer, offset)
	switch size {
	case 29:
		b, err := c.ReadByte()
		if err != nil {
			return 0, 0, mmdberrors.WrapWithContext(err, offset)
		}
		return 29 + uint(b), c.Offset(), nil
	case 30:
		v, err := c.ReadUint(2)
		if err != nil {
			return 0, 0, mmdberrors.WrapWithContext(err, offset)
		}
		return 285 + uint(v), c.Offset(), nil
	default: // 31
		v, err := c.ReadUint(3)
		if err != nil {
			return 0, 0, mmdberrors.WrapWithContext(err, offset)
		}
		return 65821 + uint(v), c.Offset(), nil
	}
}

// DecodePointer decodes a pointer value given the control byte's low 5 bits
// (size, as returned by DecodeCtrlData for KindPointer) and the offset of
// the pointer's own bytes. It returns the absolute target offset (with
// pointerBase applied) and the offset just past the pointer's bytes.
func (d *DataDecoder) DecodePointer(size, offset uint) (target, next uint, err error) {
	sizeSel := (size >> 3) & 0x3
	extra := size & 0x7

	c := NewCursor(d.buffer, offset)
	var rel uint
	switch sizeSel {
	case 0:
		b0, err := c.ReadByte()
		if err != nil {
			return 0, 0, mmdberrors.WrapWithContext(err, offset)
		}
		rel = (extra << 8) | uint(b0)
	case 1:
		v, err := c.ReadUint(2)
		if err != nil {
			return 0, 0, mmdberrors.WrapWithContext(err, offset)
		}
		rel = ((extra << 16) | uint(v)) + 2048
	case 2:
		v, err := c.ReadUint(3)
		if err != nil {
			return 0, 0, mmdberrors.WrapWithContext(err, offset)
		}
		rel = ((extra << 24) | uint(v)) + 526336
	default: // 3
		v, err := c.ReadUint(4)
		if err != nil {
			return 0, 0, mmdberrors.WrapWithContext(err, offset)
		}
		rel = uint(v)
	}

	abs := rel + d.pointerBase
	if abs >= uint(len(d.buffer)) {
		return 0, 0, mmdberrors.New(
			mmdberrors.KindPointerOutOfRange,
			"pointer target %d is outside the file (length %d)",
			abs, len(d.buffer),
		)
	}
	return abs, c.Offset(), nil
}

// DecodeBytes decodes a size-byte slice (a fresh copy) at offset.
func (d *DataDecoder) DecodeBytes(size, offset uint) ([]byte, uint, error) {
	c := NewCursor(d.buffer, offset)
	raw, err := c.ReadBytes(size)
	if err != nil {
		return nil, 0, mmdberrors.WrapWithContext(err, offset)
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, c.Offset(), nil
}

// DecodeString decodes a size-byte UTF-8 string at offset.
func (d *DataDecoder) DecodeString(size, offset uint) (string, uint, error) {
	c := NewCursor(d.buffer, offset)
	raw, err := c.ReadBytes(size)
	if err != nil {
		return "", 0, mmdberrors.WrapWithContext(err, offset)
	}
	return string(raw), c.Offset(), nil
}

// DecodeBool interprets the payload size as a boolean; it consumes no bytes.
func (d *DataDecoder) DecodeBool(size, offset uint) (bool, uint) {
	return size != 0, offset
}

// DecodeUint16 decodes a big-endian, zero-extended uint16.
func (d *DataDecoder) DecodeUint16(size, offset uint) (uint16, uint, error) {
	c := NewCursor(d.buffer, offset)
	v, err := c.ReadUint(size)
	if err != nil {
		return 0, 0, mmdberrors.WrapWithContext(err, offset)
	}
	return uint16(v), c.Offset(), nil
}

// DecodeUint32 decodes a big-endian, zero-extended uint32.
func (d *DataDecoder) DecodeUint32(size, offset uint) (uint32, uint, error) {
	c := NewCursor(d.buffer, offset)
	v, err := c.ReadUint(size)
	if err != nil {
		return 0, 0, mmdberrors.WrapWithContext(err, offset)
	}
	return uint32(v), c.Offset(), nil
}

// DecodeUint64 decodes a big-endian, zero-extended uint64.
func (d *DataDecoder) DecodeUint64(size, offset uint) (uint64, uint, error) {
	c := NewCursor(d.buffer, offset)
	v, err := c.ReadUint(size)
	if err != nil {
		return 0, 0, mmdberrors.WrapWithContext(err, offset)
	}
	return v, c.Offset(), nil
}

// DecodeUint128 decodes a big-endian unsigned integer of up to 16 bytes.
func (d *DataDecoder) DecodeUint128(size, offset uint) (*big.Int, uint, error) {
	c := NewCursor(d.buffer, offset)
	raw, err := c.ReadBytes(size)
	if err != nil {
		return nil, 0, mmdberrors.WrapWithContext(err, offset)
	}
	val := new(big.Int).SetBytes(raw)
	return val, c.Offset(), nil
}

// DecodeInt32 decodes a big-endian, zero-extended int32. The format stores
// only magnitude bytes; negative values are not produced by real MaxMind
// data but a full 4-byte payload is still accepted and its top bit honored
// by the int32 conversion.
func (d *DataDecoder) DecodeInt32(size, offset uint) (int32, uint, error) {
	c := NewCursor(d.buffer, offset)
	raw, err := c.ReadBytes(size)
	if err != nil {
		return 0, 0, mmdberrors.WrapWithContext(err, offset)
	}
	var val int32
	for _, b := range raw {
		val = (val << 8) | int32(b)
	}
	return val, c.Offset(), nil
}

// DecodeFloat32 decodes an IEEE 754 big-endian 4-byte float. The format
// requires a payload of exactly 4 bytes; any other size is rejected rather
// than silently zero-extended or truncated.
func (d *DataDecoder) DecodeFloat32(size, offset uint) (float32, uint, error) {
	if size != 4 {
		return 0, 0, mmdberrors.New(mmdberrors.KindInvalidPayloadSize, "float32 payload must be 4 bytes, got %d", size)
	}
	c := NewCursor(d.buffer, offset)
	v, err := c.ReadUint(size)
	if err != nil {
		return 0, 0, mmdberrors.WrapWithContext(err, offset)
	}
	return math.Float32frombits(uint32(v)), c.Offset(), nil
}

// DecodeFloat64 decodes an IEEE 754 big-endian 8-byte double. The format
// requires a payload of exactly 8 bytes; any other size is rejected rather
// than silently zero-extended or truncated.
func (d *DataDecoder) DecodeFloat64(size, offset uint) (float64, uint, error) {
	if size != 8 {
		return 0, 0, mmdberrors.New(mmdberrors.KindInvalidPayloadSize, "float64 payload must be 8 bytes, got %d", size)
	}
	c := NewCursor(d.buffer, offset)
	v, err := c.ReadUint(size)
	if err != nil {
		return 0, 0, mmdberrors.WrapWithContext(err, offset)
	}
	return math.Float64frombits(v), c.Offset(), nil
}

package mmdbreader

import (
	"github.com/netradar/mmdbreader/internal/decoder"
	"github.com/netradar/mmdbreader/internal/mmdberrors"
)

// valueDecoder recursively assembles a Value tree from the data section,
// following pointers transparently. It is the component spec.md calls the
// ValueDecoder; the control-byte and payload mechanics it drives live in
// internal/decoder.
type valueDecoder struct {
	d decoder.DataDecoder
}

func newValueDecoder(buffer []byte, dataSectionStart uint, maxDepth int) valueDecoder {
	return valueDecoder{d: decoder.New(buffer, dataSectionStart, maxDepth)}
}

// decode decodes one value at offset (an absolute file offset) and returns
// it along with the offset just past it. Following a pointer does not
// advance the returned "next" offset past the pointer's own bytes, so
// callers iterating a Map or Array see contiguous sibling offsets.
func (vd *valueDecoder) decode(offset uint) (Value, uint, error) {
	return vd.decodeDepth(offset, 0)
}

func (vd *valueDecoder) decodeDepth(offset uint, depth int) (Value, uint, error) {
	if depth > vd.d.MaxDepth() {
		return Value{}, 0, mmdberrors.New(
			mmdberrors.KindDepthExceeded,
			"exceeded maximum data structure depth of %d; database is likely corrupt",
			vd.d.MaxDepth(),
		)
	}

	kind, size, dataOffset, err := vd.d.DecodeCtrlData(offset)
	if err != nil {
		return Value{}, 0, err
	}

	if kind == decoder.KindPointer {
		target, next, err := vd.d.DecodePointer(size, dataOffset)
		if err != nil {
			return Value{}, 0, err
		}
		val, _, err := vd.decodeDepth(target, depth+1)
		return val, next, err
	}

	return vd.decodeFromKind(kind, size, dataOffset, depth)
}

func (vd *valueDecoder) decodeFromKind(kind decoder.Kind, size, offset uint, depth int) (Value, uint, error) {
	switch kind {
	case decoder.KindString:
		s, next, err := vd.d.DecodeString(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return stringValue(s), next, nil
	case decoder.KindBytes:
		b, next, err := vd.d.DecodeBytes(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return binaryValue(b), next, nil
	case decoder.KindUint16:
		v, next, err := vd.d.DecodeUint16(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return uint16Value(v), next, nil
	case decoder.KindUint32:
		v, next, err := vd.d.DecodeUint32(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return uint32Value(v), next, nil
	case decoder.KindUint64:
		v, next, err := vd.d.DecodeUint64(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return uint64Value(v), next, nil
	case decoder.KindUint128:
		v, next, err := vd.d.DecodeUint128(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return uint128Value(v), next, nil
	case decoder.KindInt32:
		v, next, err := vd.d.DecodeInt32(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return int32Value(v), next, nil
	case decoder.KindFloat64:
		v, next, err := vd.d.DecodeFloat64(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return doubleValue(v), next, nil
	case decoder.KindFloat32:
		v, next, err := vd.d.DecodeFloat32(size, offset)
		if err != nil {
			return Value{}, 0, err
		}
		return floatValue(v), next, nil
	case decoder.KindBool:
		v, next := vd.d.DecodeBool(size, offset)
		return boolValue(v), next, nil
	case decoder.KindMap:
		return vd.decodeMap(size, offset, depth)
	case decoder.KindSlice:
		return vd.decodeArray(size, offset, depth)
	default:
		return Value{}, 0, mmdberrors.New(
			mmdberrors.KindUnsupportedTag,
			"unsupported data section tag %v", kind,
		)
	}
}

func (vd *valueDecoder) decodeMap(pairCount, offset uint, depth int) (Value, uint, error) {
	m := newMap(pairCount)
	for range pairCount {
		key, keyNext, err := vd.decodeMapKey(offset)
		if err != nil {
			return Value{}, 0, err
		}

		val, valNext, err := vd.decodeDepth(keyNext, depth+1)
		if err != nil {
			return Value{}, 0, err
		}

		m.set(key, val)
		offset = valNext
	}
	return mapValue(m), offset, nil
}

// decodeMapKey decodes the value at offset and requires it to be (or, via
// pointer following, resolve to) a String, as spec.md mandates for map
// keys.
func (vd *valueDecoder) decodeMapKey(offset uint) (string, uint, error) {
	kind, size, dataOffset, err := vd.d.DecodeCtrlData(offset)
	if err != nil {
		return "", 0, err
	}

	if kind == decoder.KindPointer {
		target, next, err := vd.d.DecodePointer(size, dataOffset)
		if err != nil {
			return "", 0, err
		}
		key, _, err := vd.decodeMapKey(target)
		return key, next, err
	}

	if kind != decoder.KindString {
		return "", 0, mmdberrors.New(
			mmdberrors.KindMalformedMapKey,
			"map key decoded to %v, not a string", kind,
		)
	}

	return vd.d.DecodeString(size, dataOffset)
}

func (vd *valueDecoder) decodeArray(elementCount, offset uint, depth int) (Value, uint, error) {
	a := make(Array, 0, elementCount)
	for range elementCount {
		val, next, err := vd.decodeDepth(offset, depth+1)
		if err != nil {
			return Value{}, 0, err
		}
		a = append(a, val)
		offset = next
	}
	return arrayValue(a), offset, nil
}

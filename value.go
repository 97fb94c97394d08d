package mmdbreader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"math/big"
)

// Kind identifies which variant a Value holds.
type Kind int

// The Kind values a Value can report. They mirror the on-wire MMDB type
// tags except that Pointer, Extended, CacheContainer, and EndMarker never
// escape the decoder: pointers are followed transparently and the other
// three are decoding artifacts or unsupported in data position.
const (
	KindString Kind = iota
	KindBinary
	KindUint16
	KindUint32
	KindUint64
	KindInt32
	KindDouble
	KindFloat
	KindBoolean
	KindMap
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindBinary:
		return "Binary"
	case KindUint16:
		return "Uint16"
	case KindUint32:
		return "Uint32"
	case KindUint64:
		return "Uint64"
	case KindInt32:
		return "Int32"
	case KindDouble:
		return "Double"
	case KindFloat:
		return "Float"
	case KindBoolean:
		return "Boolean"
	case KindMap:
		return "Map"
	case KindArray:
		return "Array"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the decoded tagged union produced by a lookup. The zero Value
// has Kind KindString and an empty string; use the accessors to discover
// what a Value actually holds rather than reading its fields directly.
type Value struct {
	kind Kind

	str string
	bin []byte
	u64 uint64 // holds Uint16/Uint32/Uint64
	i32 int32
	f64 float64
	f32 float32
	b   bool
	m   *Map
	a   Array
}

func stringValue(s string) Value    { return Value{kind: KindString, str: s} }
func binaryValue(b []byte) Value    { return Value{kind: KindBinary, bin: b} }
func uint16Value(v uint16) Value    { return Value{kind: KindUint16, u64: uint64(v)} }
func uint32Value(v uint32) Value    { return Value{kind: KindUint32, u64: uint64(v)} }
func uint64Value(v uint64) Value    { return Value{kind: KindUint64, u64: v} }
func int32Value(v int32) Value      { return Value{kind: KindInt32, i32: v} }
func doubleValue(v float64) Value   { return Value{kind: KindDouble, f64: v} }
func floatValue(v float32) Value    { return Value{kind: KindFloat, f32: v} }
func boolValue(v bool) Value        { return Value{kind: KindBoolean, b: v} }
func mapValue(m *Map) Value         { return Value{kind: KindMap, m: m} }
func arrayValue(a Array) Value      { return Value{kind: KindArray, a: a} }

// uint128Value surfaces the 128-bit unsigned integer as raw bytes, per the
// reader's stated policy of not numerically decoding it.
func uint128Value(bi *big.Int) Value {
	raw := bi.Bytes()
	padded := make([]byte, 16)
	copy(padded[16-len(raw):], raw)
	return Value{kind: KindBinary, bin: padded}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// AsString returns v's string and true if v is a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsBytes returns v's raw bytes and true if v is Binary.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBinary {
		return nil, false
	}
	return v.bin, true
}

// AsUint16 returns v's value and true if v is a Uint16.
func (v Value) AsUint16() (uint16, bool) {
	if v.kind != KindUint16 {
		return 0, false
	}
	return uint16(v.u64), true
}

// AsUint32 returns v's value and true if v is a Uint32.
func (v Value) AsUint32() (uint32, bool) {
	if v.kind != KindUint32 {
		return 0, false
	}
	return uint32(v.u64), true
}

// AsUint64 returns v's value and true if v is a Uint64.
func (v Value) AsUint64() (uint64, bool) {
	if v.kind != KindUint64 {
		return 0, false
	}
	return v.u64, true
}

// AsInt32 returns v's value and true if v is an Int32.
func (v Value) AsInt32() (int32, bool) {
	if v.kind != KindInt32 {
		return 0, false
	}
	return v.i32, true
}

// AsFloat64 returns v's value and true if v is a Double.
func (v Value) AsFloat64() (float64, bool) {
	if v.kind != KindDouble {
		return 0, false
	}
	return v.f64, true
}

// AsFloat32 returns v's value and true if v is a Float.
func (v Value) AsFloat32() (float32, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f32, true
}

// AsBool returns v's value and true if v is a Boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// AsMap returns v's Map and true if v is a Map.
func (v Value) AsMap() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// AsArray returns v's Array and true if v is an Array.
func (v Value) AsArray() (Array, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.a, true
}

// MarshalJSON renders v as JSON. Binary values have no JSON representation
// and render as null, matching the reader's documented CLI behavior.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindBinary:
		return []byte("null"), nil
	case KindUint16, KindUint32, KindUint64:
		return json.Marshal(v.u64)
	case KindInt32:
		return json.Marshal(v.i32)
	case KindDouble:
		return json.Marshal(v.f64)
	case KindFloat:
		return json.Marshal(v.f32)
	case KindBoolean:
		return json.Marshal(v.b)
	case KindMap:
		return v.m.MarshalJSON()
	case KindArray:
		return v.a.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// Map is an insertion-ordered String-keyed mapping to Value. Keys are
// unique; decoding a duplicate key overwrites the earlier entry's value
// but keeps its original position, matching how a Go map literal with a
// repeated key behaves.
type Map struct {
	keys []string
	vals []Value
	idx  map[string]int
}

// newMap returns an empty Map pre-sized for n entries.
func newMap(n uint) *Map {
	return &Map{
		keys: make([]string, 0, n),
		vals: make([]Value, 0, n),
		idx:  make(map[string]int, n),
	}
}

func (m *Map) set(key string, val Value) {
	if i, ok := m.idx[key]; ok {
		m.vals[i] = val
		return
	}
	m.idx[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
}

// Len returns the number of entries in m.
func (m *Map) Len() int { return len(m.keys) }

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	i, ok := m.idx[key]
	if !ok {
		return Value{}, false
	}
	return m.vals[i], true
}

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []string {
	return m.keys
}

// All returns an iterator over m's (key, value) pairs in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, key := range m.keys {
			if !yield(key, m.vals[i]) {
				return
			}
		}
	}
}

// MarshalJSON renders m as a JSON object, preserving key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := m.vals[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Array is an ordered sequence of Value.
type Array []Value

// Len returns the number of elements in a.
func (a Array) Len() int { return len(a) }

// At returns the element at index i.
func (a Array) At(i int) Value { return a[i] }

// All returns an iterator over a's (index, value) pairs.
func (a Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range a {
			if !yield(i, v) {
				return
			}
		}
	}
}

// MarshalJSON renders a as a JSON array.
func (a Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		vJSON, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vJSON)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

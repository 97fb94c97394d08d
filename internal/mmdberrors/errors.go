// Package mmdberrors defines the typed errors produced while locating,
// decoding, or walking an MMDB file.
package mmdberrors

import "fmt"

// Kind identifies which error condition from the MMDB format occurred.
type Kind int

const (
	KindMetadataMarkerMissing Kind = iota
	KindMetadataFieldMissing
	KindMetadataFieldType
	KindUnsupportedTag
	KindMalformedMapKey
	KindInvalidPayloadSize
	KindDepthExceeded
	KindOutOfBounds
	KindInvalidNodeSize
	KindPointerOutOfRange
	KindAddressSyntax
	KindTooManyColons
	KindUnsupportedAddressFamily
)

func (k Kind) String() string {
	switch k {
	case KindMetadataMarkerMissing:
		return "MetadataMarkerMissing"
	case KindMetadataFieldMissing:
		return "MetadataFieldMissing"
	case KindMetadataFieldType:
		return "MetadataFieldType"
	case KindUnsupportedTag:
		return "UnsupportedTag"
	case KindMalformedMapKey:
		return "MalformedMapKey"
	case KindInvalidPayloadSize:
		return "InvalidPayloadSize"
	case KindDepthExceeded:
		return "DepthExceeded"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindInvalidNodeSize:
		return "InvalidNodeSize"
	case KindPointerOutOfRange:
		return "PointerOutOfRange"
	case KindAddressSyntax:
		return "AddressSyntax"
	case KindTooManyColons:
		return "TooManyColons"
	case KindUnsupportedAddressFamily:
		return "UnsupportedAddressFamily"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Error is a typed error carrying the Kind of MMDB condition that occurred.
// It is the concrete type behind every sentinel-comparable error this
// module returns, so callers can use errors.As to recover the Kind.
type Error struct {
	Kind    Kind
	message string
}

func (e *Error) Error() string {
	if e.message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.message)
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, mmdberrors.New(KindOutOfBounds, "")) works regardless of
// message text or wrapping.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// New builds an *Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, message: fmt.Sprintf(format, args...)}
}

// NewOutOfBounds is a convenience constructor for the extremely common
// "read past the end of the buffer" condition.
func NewOutOfBounds() *Error {
	return New(KindOutOfBounds, "unexpected end of database")
}

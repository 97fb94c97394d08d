package mmdbreader

import "github.com/netradar/mmdbreader/internal/mmdberrors"

// Error is returned for every failure this package produces: a malformed
// file, an address that doesn't parse, or an address family mismatch.
// Callers distinguish error cases with errors.Is against the exported
// sentinels below rather than string matching.
type Error = mmdberrors.Error

var (
	// ErrMetadataMarkerMissing is returned by Open/OpenBytes when a file
	// does not contain the MaxMind DB metadata marker anywhere in its
	// final 128 KiB.
	ErrMetadataMarkerMissing = mmdberrors.New(mmdberrors.KindMetadataMarkerMissing, "")
	// ErrMetadataFieldMissing is returned when the metadata map is missing
	// a field this reader requires.
	ErrMetadataFieldMissing = mmdberrors.New(mmdberrors.KindMetadataFieldMissing, "")
	// ErrMetadataFieldType is returned when a metadata field exists but
	// decoded to the wrong type.
	ErrMetadataFieldType = mmdberrors.New(mmdberrors.KindMetadataFieldType, "")
	// ErrUnsupportedTag is returned when the data section contains a
	// control byte this reader does not know how to decode.
	ErrUnsupportedTag = mmdberrors.New(mmdberrors.KindUnsupportedTag, "")
	// ErrMalformedMapKey is returned when a map key does not decode to a
	// string.
	ErrMalformedMapKey = mmdberrors.New(mmdberrors.KindMalformedMapKey, "")
	// ErrInvalidPayloadSize is returned when a fixed-width value (a float32
	// or float64) has a payload size other than the format requires.
	ErrInvalidPayloadSize = mmdberrors.New(mmdberrors.KindInvalidPayloadSize, "")
	// ErrDepthExceeded is returned when decoding a value recurses past the
	// configured maximum depth, which usually indicates a corrupt or
	// adversarial file rather than a legitimately deep structure.
	ErrDepthExceeded = mmdberrors.New(mmdberrors.KindDepthExceeded, "")
	// ErrOutOfBounds is returned when decoding would read past the end of
	// the file.
	ErrOutOfBounds = mmdberrors.New(mmdberrors.KindOutOfBounds, "")
	// ErrInvalidNodeSize is returned when the metadata declares a search
	// tree record size this reader does not support.
	ErrInvalidNodeSize = mmdberrors.New(mmdberrors.KindInvalidNodeSize, "")
	// ErrPointerOutOfRange is returned when a pointer's resolved target
	// falls outside the file.
	ErrPointerOutOfRange = mmdberrors.New(mmdberrors.KindPointerOutOfRange, "")
	// ErrAddressSyntax is returned by ParseIPv4/ParseIPv6 when the input
	// does not parse as an address of that family.
	ErrAddressSyntax = mmdberrors.New(mmdberrors.KindAddressSyntax, "")
	// ErrTooManyColons is returned by ParseIPv6 when an address contains
	// more than one "::" compression run.
	ErrTooManyColons = mmdberrors.New(mmdberrors.KindTooManyColons, "")
	// ErrUnsupportedAddressFamily is returned by Lookup when an IPv6
	// address is looked up against an IPv4-only database.
	ErrUnsupportedAddressFamily = mmdberrors.New(mmdberrors.KindUnsupportedAddressFamily, "")
)

package mmdbreader

import (
	"bytes"

	"github.com/netradar/mmdbreader/internal/mmdberrors"
)

// metadataStartMarker precedes the metadata section at the end of every
// MMDB file.
var metadataStartMarker = []byte("\xAB\xCD\xEFMaxMind.com")

// maxMetadataScan bounds how far from the end of the file the marker scan
// looks, so a corrupt file without the marker fails fast instead of
// scanning gigabytes of data section.
const maxMetadataScan = 128 * 1024

// Metadata describes the database: its format version, the shape of its
// search tree, and descriptive fields about the data it holds.
type Metadata struct {
	BinaryFormatMajorVersion uint
	BinaryFormatMinorVersion uint
	BuildEpoch               uint
	DatabaseType             string
	Description              map[string]string
	IPVersion                uint
	Languages                []string
	NodeCount                uint
	RecordSize               uint
}

// locateMetadata finds the metadata marker and decodes the metadata map
// that follows it into a Metadata value. It searches backward from the end
// of buf, since the marker is only guaranteed to be the last occurrence
// (the data section may legitimately contain the marker's bytes as part of
// unrelated string data).
func locateMetadata(buf []byte) (Metadata, uint, error) {
	minPosition := 0
	if len(buf) > maxMetadataScan {
		minPosition = len(buf) - maxMetadataScan
	}

	searchSpace := buf[minPosition:]
	idx := bytes.LastIndex(searchSpace, metadataStartMarker)
	if idx == -1 {
		return Metadata{}, 0, mmdberrors.New(
			mmdberrors.KindMetadataMarkerMissing,
			"could not find a MaxMind DB metadata marker in this file",
		)
	}

	metadataStart := uint(minPosition + idx + len(metadataStartMarker))

	vd := newValueDecoder(buf, metadataStart, 0)
	val, _, err := vd.decode(metadataStart)
	if err != nil {
		return Metadata{}, 0, err
	}

	m, ok := val.AsMap()
	if !ok {
		return Metadata{}, 0, mmdberrors.New(
			mmdberrors.KindMetadataFieldType,
			"metadata section did not decode to a map",
		)
	}

	meta, err := metadataFromMap(m)
	if err != nil {
		return Metadata{}, 0, err
	}
	return meta, metadataStart, nil
}

func metadataFromMap(m *Map) (Metadata, error) {
	var meta Metadata

	major, err := requiredUint(m, "binary_format_major_version")
	if err != nil {
		return Metadata{}, err
	}
	meta.BinaryFormatMajorVersion = major

	minor, err := requiredUint(m, "binary_format_minor_version")
	if err != nil {
		return Metadata{}, err
	}
	meta.BinaryFormatMinorVersion = minor

	if epoch, ok, err := optionalUint(m, "build_epoch"); err != nil {
		return Metadata{}, err
	} else if ok {
		meta.BuildEpoch = epoch
	}

	dbType, err := requiredString(m, "database_type")
	if err != nil {
		return Metadata{}, err
	}
	meta.DatabaseType = dbType

	if descVal, ok := m.Get("description"); ok {
		descMap, ok := descVal.AsMap()
		if !ok {
			return Metadata{}, mmdberrors.New(mmdberrors.KindMetadataFieldType, "metadata field %q is not a map", "description")
		}
		meta.Description = make(map[string]string, descMap.Len())
		for k, v := range descMap.All() {
			s, ok := v.AsString()
			if !ok {
				return Metadata{}, mmdberrors.New(mmdberrors.KindMetadataFieldType, "metadata field %q entry %q is not a string", "description", k)
			}
			meta.Description[k] = s
		}
	}

	ipVersion, err := requiredUint(m, "ip_version")
	if err != nil {
		return Metadata{}, err
	}
	meta.IPVersion = ipVersion

	if langsVal, ok := m.Get("languages"); ok {
		langsArr, ok := langsVal.AsArray()
		if !ok {
			return Metadata{}, mmdberrors.New(mmdberrors.KindMetadataFieldType, "metadata field %q is not an array", "languages")
		}
		meta.Languages = make([]string, langsArr.Len())
		for i, v := range langsArr.All() {
			s, ok := v.AsString()
			if !ok {
				return Metadata{}, mmdberrors.New(mmdberrors.KindMetadataFieldType, "metadata field %q element %d is not a string", "languages", i)
			}
			meta.Languages[i] = s
		}
	}

	nodeCount, err := requiredUint(m, "node_count")
	if err != nil {
		return Metadata{}, err
	}
	meta.NodeCount = nodeCount

	recordSize, err := requiredUint(m, "record_size")
	if err != nil {
		return Metadata{}, err
	}
	meta.RecordSize = recordSize

	return meta, nil
}

// validateMetadata checks the invariants the rest of this package assumes
// a Metadata satisfies before it ever walks the search tree: a record size
// of 24, 28, or 32 bits, and an IP version of 4 or 6. A file that violates
// either fails to open instead of mis-walking or failing later at lookup
// time.
func validateMetadata(meta Metadata) error {
	switch meta.RecordSize {
	case 24, 28, 32:
	default:
		return mmdberrors.New(mmdberrors.KindInvalidNodeSize, "unsupported record_size %d, must be 24, 28, or 32", meta.RecordSize)
	}
	switch meta.IPVersion {
	case 4, 6:
	default:
		return mmdberrors.New(mmdberrors.KindMetadataFieldType, "unsupported ip_version %d, must be 4 or 6", meta.IPVersion)
	}
	return nil
}

func requiredUint(m *Map, field string) (uint, error) {
	v, ok, err := optionalUint(m, field)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, mmdberrors.New(mmdberrors.KindMetadataFieldMissing, "metadata is missing required field %q", field)
	}
	return v, nil
}

func optionalUint(m *Map, field string) (uint, bool, error) {
	val, ok := m.Get(field)
	if !ok {
		return 0, false, nil
	}
	switch val.Kind() {
	case KindUint16:
		v, _ := val.AsUint16()
		return uint(v), true, nil
	case KindUint32:
		v, _ := val.AsUint32()
		return uint(v), true, nil
	case KindUint64:
		v, _ := val.AsUint64()
		return uint(v), true, nil
	default:
		return 0, false, mmdberrors.New(mmdberrors.KindMetadataFieldType, "metadata field %q is not an unsigned integer", field)
	}
}

func requiredString(m *Map, field string) (string, error) {
	val, ok := m.Get(field)
	if !ok {
		return "", mmdberrors.New(mmdberrors.KindMetadataFieldMissing, "metadata is missing required field %q", field)
	}
	s, ok := val.AsString()
	if !ok {
		return "", mmdberrors.New(mmdberrors.KindMetadataFieldType, "metadata field %q is not a string", field)
	}
	return s, nil
}

package mmdbreader

import (
	"strconv"
	"strings"

	"github.com/netradar/mmdbreader/internal/mmdberrors"
)

// ParseIPv4 parses a dotted-quad address (exactly four decimal components,
// each 1-3 digits in [0,255], separated by '.') into 4 bytes in network
// order.
func ParseIPv4(s string) ([]byte, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q is not a dotted-quad IPv4 address", s)
	}

	out := make([]byte, 4)
	for i, part := range parts {
		if len(part) == 0 || len(part) > 3 {
			return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q is not a dotted-quad IPv4 address", s)
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q is not a dotted-quad IPv4 address", s)
			}
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q is not a dotted-quad IPv4 address", s)
		}
		out[i] = byte(n)
	}
	return out, nil
}

// ParseIPv6 parses a colon-separated hexadecimal IPv6 address, including at
// most one "::" compression run, into 16 bytes in network order. It
// implements the canonical split-on-"::", parse-both-halves-left-to-right,
// zero-pad-the-middle algorithm rather than the reverse-scan approach some
// implementations use.
func ParseIPv6(s string) ([]byte, error) {
	if strings.Count(s, ":::") > 0 || strings.Contains(s, "::::") {
		return nil, mmdberrors.New(mmdberrors.KindTooManyColons, "%q has more than two consecutive colons", s)
	}

	var headPart, tailPart string
	var hasEllipsis bool
	if idx := strings.Index(s, "::"); idx != -1 {
		if strings.Index(s[idx+2:], "::") != -1 {
			return nil, mmdberrors.New(mmdberrors.KindTooManyColons, "%q has more than one \"::\"", s)
		}
		hasEllipsis = true
		headPart = s[:idx]
		tailPart = s[idx+2:]
	} else {
		headPart = s
	}

	head, err := splitGroups(headPart)
	if err != nil {
		return nil, err
	}
	var tail []string
	if hasEllipsis && tailPart != "" {
		tail, err = splitGroups(tailPart)
		if err != nil {
			return nil, err
		}
	}

	total := len(head) + len(tail)
	if !hasEllipsis {
		if total != 8 {
			return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q does not have exactly 8 groups", s)
		}
	} else {
		if total >= 8 {
			return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q has too many groups for \"::\" to expand", s)
		}
	}

	groups := make([]string, 0, 8)
	groups = append(groups, head...)
	for i := 0; i < 8-total; i++ {
		groups = append(groups, "0")
	}
	groups = append(groups, tail...)

	out := make([]byte, 16)
	for i, g := range groups {
		v, err := strconv.ParseUint(g, 16, 16)
		if err != nil {
			return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q contains an invalid hex group %q", s, g)
		}
		out[i*2] = byte(v >> 8)
		out[i*2+1] = byte(v)
	}
	return out, nil
}

// splitGroups splits a run of colon-separated hex groups (no "::" inside
// it) and validates each group is 1-4 hex digits.
func splitGroups(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	groups := strings.Split(s, ":")
	for _, g := range groups {
		if len(g) == 0 || len(g) > 4 {
			return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q contains an empty or overlong group", s)
		}
		for _, c := range g {
			if !isHexDigit(c) {
				return nil, mmdberrors.New(mmdberrors.KindAddressSyntax, "%q contains a non-hex character", s)
			}
		}
	}
	return groups, nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// FormatIPv6 renders 16 bytes in network order as a colon-hex address
// without "::" compression, suitable for error messages and for the
// parse(format(b)) == b round-trip property.
func FormatIPv6(b []byte) string {
	groups := make([]string, 8)
	for i := range 8 {
		v := uint16(b[i*2])<<8 | uint16(b[i*2+1])
		groups[i] = strconv.FormatUint(uint64(v), 16)
	}
	return strings.Join(groups, ":")
}

// mapToIPv4In6 embeds a 4-byte IPv4 address into the last 4 bytes of a
// 16-byte buffer with the leading 12 bytes zeroed, as required when walking
// an ip_version=6 tree with an IPv4 address.
func mapToIPv4In6(v4 []byte) []byte {
	out := make([]byte, 16)
	copy(out[12:], v4)
	return out
}

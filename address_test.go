package mmdbreader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIPv4(t *testing.T) {
	tests := map[string][]byte{
		"0.0.0.0":         {0, 0, 0, 0},
		"255.255.255.255": {255, 255, 255, 255},
		"192.168.1.1":     {192, 168, 1, 1},
		"1.2.3.4":         {1, 2, 3, 4},
	}
	for addr, expected := range tests {
		t.Run(addr, func(t *testing.T) {
			got, err := ParseIPv4(addr)
			require.NoError(t, err)
			require.Equal(t, expected, got)
		})
	}
}

func TestParseIPv4RejectsInvalidInput(t *testing.T) {
	tests := []string{"1.2.3", "1.2.3.4.5", "256.0.0.1", "1.2.3.-1", "a.b.c.d", "1.2.3.4444"}
	for _, addr := range tests {
		t.Run(addr, func(t *testing.T) {
			_, err := ParseIPv4(addr)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrAddressSyntax)
		})
	}
}

func TestParseIPv6FullForm(t *testing.T) {
	got, err := ParseIPv6("2001:0db8:0000:0000:0000:ff00:0042:8329")
	require.NoError(t, err)
	require.Equal(t, FormatIPv6(got), "2001:db8:0:0:0:ff00:42:8329")
}

func TestParseIPv6Compressed(t *testing.T) {
	tests := map[string]string{
		"::1":     "0:0:0:0:0:0:0:1",
		"::":      "0:0:0:0:0:0:0:0",
		"2001:db8::8a2e:370:7334": "2001:db8:0:0:0:8a2e:370:7334",
		"fe80::1": "fe80:0:0:0:0:0:0:1",
	}
	for addr, formatted := range tests {
		t.Run(addr, func(t *testing.T) {
			got, err := ParseIPv6(addr)
			require.NoError(t, err)
			require.Equal(t, formatted, FormatIPv6(got))
		})
	}
}

func TestParseIPv6RejectsTooManyColons(t *testing.T) {
	_, err := ParseIPv6("2001::db8::1")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTooManyColons)
}

func TestParseIPv6RejectsBadSyntax(t *testing.T) {
	tests := []string{"2001:db8:0:0:0:ff00:0042", "2001:db8:zzzz::1", "2001:12345::1"}
	for _, addr := range tests {
		t.Run(addr, func(t *testing.T) {
			_, err := ParseIPv6(addr)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrAddressSyntax)
		})
	}
}

func TestFormatIPv6RoundTrip(t *testing.T) {
	addrs := []string{"::1", "2001:db8::1", "ff02::1:ff00:ef"}
	for _, addr := range addrs {
		t.Run(addr, func(t *testing.T) {
			raw, err := ParseIPv6(addr)
			require.NoError(t, err)
			formatted := FormatIPv6(raw)
			raw2, err := ParseIPv6(formatted)
			require.NoError(t, err)
			require.Equal(t, raw, raw2)
		})
	}
}

package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressRoundTrip(t *testing.T) {
	raw := make([]byte, AddressLength)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	addr, err := NewAddress(IboPrefix, raw)
	require.NoError(t, err)

	decoded, err := DecodeAddress(addr.String())
	require.NoError(t, err)
	require.Equal(t, IboPrefix, decoded.Prefix())
	require.Equal(t, raw, decoded.Bytes())
}

func TestNewAddressRejectsBadLength(t *testing.T) {
	_, err := NewAddress(IboPrefix, make([]byte, 19))
	require.Error(t, err)
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	_, err := DecodeAddress("not-a-bech32-address")
	require.Error(t, err)
}

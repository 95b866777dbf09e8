package codepage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkeyitem/keyitem/codepage"
)

func TestDecodeASCII_PureASCIIBypassesCharmap(t *testing.T) {
	s, err := codepage.CP1252.DecodeASCII([]byte("ControlSet001"))
	require.NoError(t, err)
	require.Equal(t, "ControlSet001", s)
}

func TestDecodeASCII_EmptyInput(t *testing.T) {
	s, err := codepage.CP1252.DecodeASCII(nil)
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestDecodeASCII_Windows1252Extension(t *testing.T) {
	// 0x80 in Windows-1252 is the Euro sign, not a valid UTF-8 continuation
	// byte, so a Windows-1252-aware decode must differ from a raw cast.
	s, err := codepage.CP1252.DecodeASCII([]byte{0x80})
	require.NoError(t, err)
	require.Equal(t, "€", s)
}

func TestEncodeDecodeASCII_RoundTrip(t *testing.T) {
	encoded, err := codepage.CP1252.EncodeASCII("€")
	require.NoError(t, err)
	decoded, err := codepage.CP1252.DecodeASCII(encoded)
	require.NoError(t, err)
	require.Equal(t, "€", decoded)
}

func TestDecodeUTF16LE_ASCIIFastPath(t *testing.T) {
	data := []byte{'F', 0, 'o', 0, 'o', 0}
	require.Equal(t, "Foo", codepage.DecodeUTF16LE(data))
}

func TestDecodeUTF16LE_SurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, encoded as the surrogate pair D83D DE00.
	data := []byte{0x3D, 0xD8, 0x00, 0xDE}
	require.Equal(t, "\U0001F600", codepage.DecodeUTF16LE(data))
}

func TestEncodeUTF16LE_RoundTrip(t *testing.T) {
	for _, s := range []string{"Foo", "café", "\U0001F600"} {
		encoded := codepage.EncodeUTF16LE(s)
		require.True(t, codepage.ValidUTF16LE(encoded))
		require.Equal(t, s, codepage.DecodeUTF16LE(encoded))
	}
}

func TestValidUTF16LE_OddLength(t *testing.T) {
	require.False(t, codepage.ValidUTF16LE([]byte{0x01, 0x02, 0x03}))
}

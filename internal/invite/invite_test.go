package invite

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	code := NewCode()

	assert.Len(t, code, codeLength)
	assert.Equal(t, strings.ToUpper(code), code)

	// Two codes in a row should not collide.
	assert.NotEqual(t, code, NewCode())
}

func TestQrCodeBase64(t *testing.T) {
	encoded, err := QrCodeBase64("ABCD1234")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	// PNG magic bytes.
	require.True(t, len(raw) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw[:4])
}

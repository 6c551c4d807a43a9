package invite

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const codeLength = 8

// NewCode generates a short invite code for sharing a challenge. Upper
// case so it survives being read out loud or typed from a screenshot.
func NewCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:codeLength])
}

// QrCodeBase64 renders the join deep link for an invite code as a base64
// encoded PNG.
func QrCodeBase64(code string) (string, error) {
	content := fmt.Sprintf("slimsquad://challenge/join/%s", code)

	pngBytes, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR png: %w", err)
	}

	return base64.StdEncoding.EncodeToString(pngBytes), nil
}

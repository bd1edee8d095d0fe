// Package ticket renders scannable booking codes for confirmation emails.
package ticket

import (
	"encoding/base64"
	"fmt"

	"eventhub/internal/domain"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type qrEncoder struct {
	size int
}

// NewQREncoder returns a TicketCodeEncoder producing PNG QR codes of size x size pixels.
func NewQREncoder(size int) domain.TicketCodeEncoder {
	if size <= 0 {
		size = defaultSize
	}
	return &qrEncoder{size: size}
}

func (e *qrEncoder) Encode(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr: empty content")
	}
	png, err := qrcode.Encode(content, qrcode.Medium, e.size)
	if err != nil {
		return "", fmt.Errorf("qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

package service

import (
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the order's receipt page as a PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	link := strings.TrimRight(g.BaseURL, "/") + "/receipt?order_id=" + orderID
	return qrcode.Encode(link, qrcode.Medium, 256)
}

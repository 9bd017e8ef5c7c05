// Package qrcode renders guest portal links as PNG QR codes.
package qrcode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type RecoveryLevel int

const (
	Low RecoveryLevel = iota
	Medium
	High
	Highest
)

type Generator struct {
	size          int
	recoveryLevel RecoveryLevel
}

type Option func(*Generator)

// WithSize sets the image edge in pixels.
func WithSize(size int) Option {
	return func(g *Generator) {
		g.size = size
	}
}

func WithRecoveryLevel(level RecoveryLevel) Option {
	return func(g *Generator) {
		g.recoveryLevel = level
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		size:          256,
		recoveryLevel: Medium,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) level() qrcode.RecoveryLevel {
	switch g.recoveryLevel {
	case Low:
		return qrcode.Low
	case High:
		return qrcode.High
	case Highest:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

func (g *Generator) PNG(content string) ([]byte, error) {
	data, err := qrcode.Encode(content, g.level(), g.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return data, nil
}

// PortalLink builds the guest portal URL for a stay.
func PortalLink(portalURL, hotelID, stayID string) string {
	q := url.Values{}
	q.Set("hotel", hotelID)
	q.Set("stay", stayID)
	sep := "?"
	if strings.Contains(portalURL, "?") {
		sep = "&"
	}
	return portalURL + sep + q.Encode()
}

// StayPNG renders the portal link for a stay.
func (g *Generator) StayPNG(portalURL, hotelID, stayID string) ([]byte, error) {
	return g.PNG(PortalLink(portalURL, hotelID, stayID))
}

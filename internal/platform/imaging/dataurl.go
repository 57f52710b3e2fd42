// Package imaging decodes base64 data-URL image payloads and prepares them
// for the object store.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// MaxPayloadBytes caps the decoded size of an uploaded image.
const MaxPayloadBytes = 10 << 20

var (
	ErrEmptyPayload  = errors.New("image payload is empty")
	ErrNotDataURL    = errors.New("image must be a data URL like data:image/png;base64,...")
	ErrNotImage      = errors.New("uploaded file is not a valid image")
	ErrPayloadTooBig = errors.New("image exceeds 10MB")
)

type Payload struct {
	Data        []byte
	Format      string
	ContentType string
	Width       int
	Height      int
}

// Ext returns the object key extension for the decoded format.
func (p Payload) Ext() string {
	if p.Format == "jpeg" {
		return "jpg"
	}
	return p.Format
}

// DecodeDataURL parses "data:image/<ext>;base64,<data>" and verifies that
// the bytes decode as a supported image.
func DecodeDataURL(raw string) (Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Payload{}, ErrEmptyPayload
	}
	header, body, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return Payload{}, ErrNotDataURL
	}
	if base64.StdEncoding.DecodedLen(len(body)) > MaxPayloadBytes+3 {
		return Payload{}, ErrPayloadTooBig
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if len(data) == 0 {
		return Payload{}, ErrEmptyPayload
	}
	if len(data) > MaxPayloadBytes {
		return Payload{}, ErrPayloadTooBig
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return Payload{
		Data:        data,
		Format:      format,
		ContentType: "image/" + format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

package imgutil

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/gen2brain/webp"
)

// webpQuality keeps inline panel payloads small without visible banding.
const webpQuality = 90

// ToWebP re-encodes an image payload (PNG or anything image.Decode handles)
// as lossy WebP. Model output is usually PNG, which is far too heavy for an
// inline data URI per panel.
func ToWebP(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		// Fallback: try generic decode if not PNG
		var err2 error
		img, _, err2 = image.Decode(bytes.NewReader(data))
		if err2 != nil {
			return nil, fmt.Errorf("failed to decode image (png: %v, generic: %v)", err, err2)
		}
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, webp.Options{Lossless: false, Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps an image payload as an inline data URI.
func DataURI(mime string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

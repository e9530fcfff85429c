package llm

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// DecodeBase64Image accepts raw base64 or a data URL and returns the image
// with its sniffed MIME type.
func DecodeBase64Image(encoded string) (Image, error) {
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return Image{}, fmt.Errorf("decode image: %w", err)
		}
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("decode image: empty payload")
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		// Clients send JPEG by contract; keep that when sniffing is inconclusive.
		mime = "image/jpeg"
	}
	return Image{MimeType: mime, Data: data}, nil
}

// DataURL renders the image as a data URL.
func (i Image) DataURL() string {
	return "data:" + i.MimeType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// maxImageSide bounds the longest edge of photos sent to the model.
const maxImageSide = 1024

// DecodeDataURL accepts either bare base64 or a data URL
// ("data:image/jpeg;base64,...") and returns the raw bytes.
func DecodeDataURL(value string) ([]byte, error) {
	payload := strings.TrimSpace(value)
	if i := strings.Index(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, newStylistError(ErrDecode, fmt.Sprintf("Failed to decode base64 image: %v", err), err)
	}
	return data, nil
}

// PrepareImage checks that data is a supported image and shrinks it when
// either side exceeds maxImageSide. It returns the bytes to upload and their
// MIME type.
func PrepareImage(data []byte) ([]byte, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", newStylistError(ErrDecode, fmt.Sprintf("Failed to open image: %v. Image format may not be supported.", err), err)
	}
	if cfg.Width <= maxImageSide && cfg.Height <= maxImageSide {
		return data, mimeTypeFor(format, data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", newStylistError(ErrDecode, fmt.Sprintf("Failed to open image: %v", err), err)
	}
	resized := imaging.Fit(img, maxImageSide, maxImageSide, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", newStylistError(ErrDecode, fmt.Sprintf("Failed to re-encode image: %v", err), err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

func mimeTypeFor(format string, data []byte) string {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return "image/" + format
	default:
		return http.DetectContentType(data)
	}
}

package llm

import (
	"encoding/base64"
	"mime"
	"path/filepath"
	"strings"
)

// EncodeImageDataURL wraps raw image bytes as a base64 data URI with its MIME
// type, the transport encoding the vision model accepts. The filename's
// extension declares the type; unknown extensions fall back to image/jpeg
// since that is what camera uploads overwhelmingly are.
func EncodeImageDataURL(data []byte, filename string) (string, string) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	mt := mime.TypeByExtension("." + ext)
	if mt == "" || !strings.HasPrefix(mt, "image/") {
		switch ext {
		case "jpg", "jpeg":
			mt = "image/jpeg"
		case "png":
			mt = "image/png"
		case "webp":
			mt = "image/webp"
		default:
			mt = "image/jpeg"
		}
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return "data:" + mt + ";base64," + encoded, mt
}

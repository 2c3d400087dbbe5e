package constants

import "strings"

// MediaKinds holds the allowed media kinds for an extraction request.
var MediaKinds = []string{"IMAGE", "AUDIO"}

// AllowedImageExtensions holds the image extensions the vision model accepts.
var AllowedImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// AllowedAudioExtensions holds the audio extensions the transcription
// endpoints accept.
var AllowedAudioExtensions = map[string]struct{}{
	"wav": {},
	"mp3": {},
	"m4a": {},
	"ogg": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImageExt reports whether ext names a supported image format.
func IsImageExt(ext string) bool {
	_, ok := AllowedImageExtensions[NormalizeExt(ext)]
	return ok
}

// IsAudioExt reports whether ext names a supported audio format.
func IsAudioExt(ext string) bool {
	_, ok := AllowedAudioExtensions[NormalizeExt(ext)]
	return ok
}

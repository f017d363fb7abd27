package service

import (
	"bytes"
	"net/url"
	"path"
	"strings"
)

// normalized extensions accepted straight from the URL path
var imageExtensions = map[string]string{
	"jpg":  "jpg",
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
	"bmp":  "bmp",
	"svg":  "svg",
}

// detectFormat determines the file extension for an embedded image.
// The URL hint is cheap and usually correct, so it wins; magic-byte
// sniffing is the fallback for extension-less URLs.
func detectFormat(rawURL string, data []byte) string {
	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
		if normalized, ok := imageExtensions[ext]; ok {
			return normalized
		}
	}

	return sniffFormat(data)
}

// sniffFormat inspects the first 12 bytes of the content for known magic
// sequences, defaulting to jpg
func sniffFormat(data []byte) string {
	magic := data
	if len(magic) > 12 {
		magic = magic[:12]
	}

	switch {
	case bytes.HasPrefix(magic, []byte{0xFF, 0xD8, 0xFF}):
		return "jpg"
	case bytes.HasPrefix(magic, []byte{0x89, 'P', 'N', 'G'}):
		return "png"
	case bytes.HasPrefix(magic, []byte("GIF")):
		return "gif"
	case bytes.HasPrefix(magic, []byte("RIFF")) && bytes.Contains(magic, []byte("WEBP")):
		return "webp"
	default:
		return "jpg"
	}
}

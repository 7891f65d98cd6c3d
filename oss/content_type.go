package oss

import (
	"mime"
	"strings"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
}

// getContentType returns the content type of an extension, empty if unknown.
func getContentType(ext string) string {
	ext = strings.ToLower(ext)
	if ct, ok := imageTypes[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

// IsImage reports whether ext is one of the accepted image extensions.
func IsImage(ext string) bool {
	_, ok := imageTypes[strings.ToLower(ext)]
	return ok
}

func contentTypeOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		if ct := getContentType(path[i:]); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}

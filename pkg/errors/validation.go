package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// imageExtensions lists the raster extensions the decoder understands.
var imageExtensions = map[string]bool{
	".png":  true,
	".gif":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".txt":  true,
}

// IsImageExtension reports whether path has an extension that can be decoded
// into a maze raster. The comparison is case-insensitive.
func IsImageExtension(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ValidateOutputName validates a rendered artifact filename for safety.
// It ensures the filename is a simple basename without path components,
// since output names are joined onto a caller-chosen directory.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "output name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "output name cannot be %q", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output name contains invalid control characters")
		}
	}

	if !strings.EqualFold(filepath.Ext(name), ".png") {
		return New(ErrCodeInvalidFormat, "output name must end in .png: %q", name)
	}

	return nil
}

// ValidateMazePath validates a maze file path supplied on the command line
// or by the directory watcher.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Extension must be a supported raster format
func ValidateMazePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !IsImageExtension(path) {
		return New(ErrCodeInvalidFormat, "unsupported maze format %q (want png, gif, jpeg, bmp, tiff or txt)", filepath.Ext(path))
	}

	return nil
}

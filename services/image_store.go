package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// ImageStore hosts uploaded product images and returns a reference (URL or
// path) the storefront can display.
type ImageStore interface {
	Save(ctx context.Context, r io.Reader, filename string) (string, error)
	// Delete removes an image this store produced. References it does not
	// own (external URLs typed in by an admin) are ignored.
	Delete(ctx context.Context, ref string) error
}

// sanitizeFilename strips directories and path separators so a client name
// like "../../etc/passwd" cannot escape the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '\x00' {
			return -1
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." {
		name = "unnamed"
	}

	return name
}

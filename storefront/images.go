package storefront

import "strings"

// PlaceholderImage is shown for products without a picture.
const PlaceholderImage = "images/logo.png"

// ResolveImageURL turns a stored image reference into something a page can
// load. Absolute URLs pass through; paths served by the API's upload mount
// (and Windows-style paths) are joined onto baseURL with forward slashes.
func ResolveImageURL(baseURL, ref string) string {
	if ref == "" {
		return PlaceholderImage
	}
	if strings.HasPrefix(ref, "http") {
		return ref
	}

	if strings.HasPrefix(ref, "uploads/") || strings.HasPrefix(ref, "/uploads/") || strings.Contains(ref, `\`) {
		path := strings.TrimLeft(strings.ReplaceAll(ref, `\`, "/"), "/")
		return strings.TrimRight(baseURL, "/") + "/" + path
	}
	return ref
}

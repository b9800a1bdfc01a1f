package storage

import (
	"context"
	"strings"

	catalogapp "github.com/merrysway/storefront/internal/application/catalog"
)

var _ catalogapp.ImageSigner = PublicImageSigner{}

// PublicImageSigner serves images from a public location without signing.
// With an empty BaseURL image references are returned unchanged.
type PublicImageSigner struct {
	BaseURL string
}

// SignImage joins a relative image reference onto BaseURL
func (s PublicImageSigner) SignImage(_ context.Context, ref string) (string, error) {
	if ref == "" || s.BaseURL == "" || IsAbsoluteURL(ref) {
		return ref, nil
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + ObjectKey(ref), nil
}

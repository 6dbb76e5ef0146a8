package folio

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// MediaResolver builds display URLs for image assets. With a base URL it
// points at a CDN; otherwise it serves local uploads.
type MediaResolver struct {
	BaseURL string
}

// ImageURL implements viewstate.Resolver.
func (r MediaResolver) ImageURL(ref content.ImageRef) (string, bool) {
	asset := strings.TrimSpace(ref.Asset)
	if asset == "" || strings.Contains(asset, "..") {
		return "", false
	}
	// Absolute asset references are already displayable.
	if u, err := url.Parse(asset); err == nil && u.Scheme != "" {
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", false
		}
		return asset, true
	}
	if r.BaseURL != "" {
		u, err := url.Parse(r.BaseURL)
		if err != nil {
			return "", false
		}
		u.Path = path.Join(u.Path, asset)
		return u.String(), true
	}
	return "/" + path.Join("public", uploadsSubdir, asset), true
}

// ThumbURL is the card-sized variant of a local upload. CDN assets have no
// generated thumbnail and resolve to their full URL.
func (r MediaResolver) ThumbURL(ref content.ImageRef) (string, bool) {
	full, ok := r.ImageURL(ref)
	if !ok || r.BaseURL != "" || !strings.HasPrefix(full, "/public/") {
		return full, ok
	}
	return strings.TrimSuffix(full, ".jpg") + thumbSuffix + ".jpg", true
}

// Package content holds the portfolio document types and the sources that
// serve them: a writable SQLite store and a read-only directory of YAML
// documents. Both satisfy Source; both can push live snapshots.
package content

import (
	"net/url"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for Post.Date.
const DateLayout = "2006-01-02"

// Post is a single portfolio project.
type Post struct {
	ID        string     `yaml:"id" json:"id"`
	Slug      string     `yaml:"slug" json:"slug"`
	Title     string     `yaml:"title" json:"title"`
	Subtitle  string     `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Date      string     `yaml:"date" json:"date"` // YYYY-MM-DD, may be empty
	MainImage *ImageRef  `yaml:"mainImage,omitempty" json:"mainImage,omitempty"`
	Gallery   []ImageRef `yaml:"gallery,omitempty" json:"gallery,omitempty"`
	Videos    []Video    `yaml:"videos,omitempty" json:"videos,omitempty"`
	Tags      []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	Body      string     `yaml:"body,omitempty" json:"body,omitempty"`
	VideoLoop string     `yaml:"videoLoop,omitempty" json:"videoLoop,omitempty"`
	Published bool       `yaml:"published" json:"published"`
	CreatedAt time.Time  `yaml:"-" json:"createdAt"`
}

// Day parses Date. ok is false when the date is missing or malformed.
func (p Post) Day() (t time.Time, ok bool) {
	if p.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Year returns the publication year, or 0 if the date is unknown.
func (p Post) Year() int {
	t, ok := p.Day()
	if !ok {
		return 0
	}
	return t.Year()
}

// Link is the standalone page path for the post.
func (p Post) Link() string {
	return "/work/" + p.Slug + "/"
}

// ImageRef points at an uploaded or hosted image asset.
type ImageRef struct {
	Asset string `yaml:"asset" json:"asset"`
	Alt   string `yaml:"alt,omitempty" json:"alt,omitempty"`
	Key   string `yaml:"key,omitempty" json:"key,omitempty"`
}

// Valid reports whether the reference names an asset at all.
func (r ImageRef) Valid() bool {
	return strings.TrimSpace(r.Asset) != ""
}

// Video is an external video reference, typically Vimeo.
type Video struct {
	URL   string `yaml:"url" json:"url"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}

// EmbedURL converts a vimeo.com link into its player URL.
func (v Video) EmbedURL() (string, bool) {
	u, err := url.Parse(strings.TrimSpace(v.URL))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(u.Host, "www.")
	switch host {
	case "player.vimeo.com":
		return u.String(), true
	case "vimeo.com":
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		id := parts[len(parts)-1]
		if id == "" || strings.Trim(id, "0123456789") != "" {
			return "", false
		}
		return "https://player.vimeo.com/video/" + id, true
	}
	return "", false
}

// Bio is the singleton biography and contact document.
type Bio struct {
	Text    string       `yaml:"text" json:"text"`
	Photo   *ImageRef    `yaml:"photo,omitempty" json:"photo,omitempty"`
	Email   string       `yaml:"email" json:"email"`
	Phone   string       `yaml:"phone,omitempty" json:"phone,omitempty"`
	Socials []SocialLink `yaml:"socials,omitempty" json:"socials,omitempty"`
	Clients []Client     `yaml:"clients,omitempty" json:"clients,omitempty"`
}

// SocialLink is one entry in the bio's social list.
type SocialLink struct {
	Platform string `yaml:"platform" json:"platform"`
	URL      string `yaml:"url" json:"url"`
	Handle   string `yaml:"handle,omitempty" json:"handle,omitempty"`
}

// Client is a selected client reference.
type Client struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Image is metadata for an uploaded asset.
type Image struct {
	Asset        string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

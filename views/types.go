package views

import (
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/viewstate"
)

// Site holds site-wide settings every page needs.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	// Layout picks the desktop detail variant: "panel" or "inline".
	Layout string
	// Admin is set when the visitor is logged in; drafts are visible then.
	Admin bool
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image
	JSONLD      string
}

// HomePage is the portfolio index: post list, filters and detail.
type HomePage struct {
	Site Site
	Meta PageMeta
	View viewstate.View
	Bio  *content.Bio
}

// PostPage is the standalone page for one post.
type PostPage struct {
	Site   Site
	Meta   PageMeta
	Post   content.Post
	Images []viewstate.Media
}

// BioPage is the standalone bio and contact page.
type BioPage struct {
	Site  Site
	Meta  PageMeta
	Bio   content.Bio
	Photo string
}

// AdminPage carries the dashboard state.
type AdminPage struct {
	Site      Site
	Posts     []content.Post
	Bio       *content.Bio
	Message   string
	CSRFToken string
}

// ImageRow is one uploaded asset in the admin image list.
type ImageRow struct {
	Image content.Image
	URL   string
}

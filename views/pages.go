package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/viewstate"
)

// Post renders the standalone page for one post: every image in order,
// no carousel state.
func Post(page PostPage) templ.Component {
	return Layout(page.Site, page.Meta, component(func(h *writer) {
		p := page.Post
		h.open("main", "class", "post")
		h.open("article", "class", "detail detail--page")
		h.el("h1", p.Title)
		if p.Subtitle != "" {
			h.el("p", p.Subtitle, "class", "detail__subtitle")
		}
		badges(h, p, nil)
		if p.Body != "" {
			h.open("div", "class", "detail__body prose")
			h.child(markdown.Markdown(p.Body))
			h.close("div")
		}
		if len(page.Images) > 0 {
			h.open("div", "class", "masonry")
			for i, m := range page.Images {
				loading := "lazy"
				if i == 0 {
					loading = "eager"
				}
				h.open("img", "src", m.URL, "alt", imageAlt(p, m, i), "width", "800", "height", "600", "loading", loading)
			}
			h.close("div")
		}
		videos(h, p)
		h.close("article")
		h.el("a", "All work", "href", viewstate.Href("/", nil), "class", "post__back")
		h.close("main")
	}))
}

// Bio renders the standalone bio page.
func Bio(page BioPage) templ.Component {
	return Layout(page.Site, page.Meta, component(func(h *writer) {
		h.open("main", "class", "bio")
		if page.Photo != "" {
			h.open("img", "src", page.Photo, "alt", page.Site.Author, "class", "bio__photo", "width", "320", "height", "400")
		}
		h.child(BioPanel(page.Bio))
		h.close("main")
	}))
}

// BioPanel renders bio text, contact details, socials and clients.
func BioPanel(b content.Bio) templ.Component {
	return component(func(h *writer) {
		h.open("section", "class", "bio-panel")
		h.open("div", "class", "bio-panel__text")
		h.child(markdown.Markdown(b.Text))
		h.close("div")

		h.open("ul", "class", "bio-panel__contact")
		if b.Email != "" {
			h.open("li")
			h.el("a", b.Email, "href", markdown.SafeURL("mailto:"+b.Email))
			h.close("li")
		}
		if b.Phone != "" {
			h.open("li")
			h.el("a", b.Phone, "href", markdown.SafeURL("tel:"+b.Phone))
			h.close("li")
		}
		h.close("ul")

		if len(b.Socials) > 0 {
			h.open("ul", "class", "bio-panel__socials")
			for _, s := range b.Socials {
				label := s.Handle
				if label == "" {
					label = s.Platform
				}
				h.open("li", "class", "social social--"+s.Platform)
				h.el("a", label, "href", markdown.SafeURL(s.URL), "rel", "me noopener", "target", "_blank")
				h.close("li")
			}
			h.close("ul")
		}

		if len(b.Clients) > 0 {
			h.el("h2", "Selected clients")
			h.open("ul", "class", "bio-panel__clients")
			for _, c := range b.Clients {
				h.open("li")
				if href := markdown.SafeURL(c.URL); href != "" {
					h.el("a", c.Name, "href", href, "rel", "noopener", "target", "_blank")
				} else {
					h.text(c.Name)
				}
				h.close("li")
			}
			h.close("ul")
		}
		h.close("section")
	})
}

package views

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/viewstate"
)

// Detail variants. Mobile always gets the drawer.
const (
	LayoutPanel  = "panel"
	LayoutInline = "inline"
	LayoutDrawer = "drawer"
)

// DetailVariant picks the detail renderer for a view.
func DetailVariant(site Site, v viewstate.View) string {
	if v.Mobile {
		return LayoutDrawer
	}
	if site.Layout == LayoutInline {
		return LayoutInline
	}
	return LayoutPanel
}

// Home renders the portfolio index.
func Home(page HomePage) templ.Component {
	return Layout(page.Site, page.Meta, HomeBody(page))
}

// HomeBody renders the index without the document shell.
func HomeBody(page HomePage) templ.Component {
	return component(func(h *writer) {
		v := page.View
		variant := DetailVariant(page.Site, v)
		hasSelection := v.Detail != nil

		h.open("main", "class", "portfolio portfolio--"+variant)
		h.open("section", "class", "posts")
		if v.Empty {
			h.el("p", "No posts match the selected tags.", "class", "posts__empty")
		}
		for _, card := range v.Cards {
			h.child(Card(card, v.State.Tags, hasSelection))
			if variant == LayoutInline && card.Selected {
				h.child(PostDetail(*v.Detail, variant))
			}
		}
		h.close("section")

		switch {
		case hasSelection && variant == LayoutPanel:
			h.open("aside", "class", "detail-panel")
			h.child(PostDetail(*v.Detail, variant))
			h.close("aside")
		case hasSelection && variant == LayoutDrawer:
			h.open("div", "class", "drawer", "role", "dialog", "aria-modal", "true")
			h.child(PostDetail(*v.Detail, variant))
			h.close("div")
		}
		// The filter column gives way to the detail panel on desktop.
		if !hasSelection || variant != LayoutPanel {
			h.child(FilterTags(v.Tags))
		}
		if page.Bio != nil && !hasSelection {
			h.child(BioPanel(*page.Bio))
		}
		h.close("main")
	})
}

// FilterTags renders the tag toggles.
func FilterTags(tags []viewstate.TagOption) templ.Component {
	return component(func(h *writer) {
		if len(tags) == 0 {
			return
		}
		h.open("nav", "class", "filters", "aria-label", "Filter by tag")
		for _, t := range tags {
			pressed := "false"
			if t.Active {
				pressed = "true"
			}
			h.el("a", t.Label, "href", t.Href, "class", TagClass(t.Active),
				"aria-pressed", pressed, "aria-label", "Toggle "+t.Label, "data-history", string(viewstate.Replace))
		}
		h.close("nav")
	})
}

// Card renders one entry of the post list. The title block is hidden while
// any post is selected.
func Card(card viewstate.Card, active []string, hasSelection bool) templ.Component {
	return component(func(h *writer) {
		class := "card"
		if card.Selected {
			class += " card--selected"
		}
		h.open("a", "href", card.Href, "class", class, "id", "post-"+card.Post.ID,
			"style", fmt.Sprintf("opacity:%.1f", card.Opacity), "data-history", string(viewstate.Push))
		if card.Thumb != "" {
			h.open("img", "src", card.Thumb, "alt", card.Post.Title, "width", "150", "height", "150",
				"loading", "lazy", "class", "card__image")
		}
		if !hasSelection {
			h.open("div", "class", "card__header")
			h.el("h2", card.Post.Title)
			if card.Post.Subtitle != "" {
				h.el("p", card.Post.Subtitle, "class", "card__subtitle")
			}
			badges(h, card.Post, active)
			h.close("div")
		}
		h.close("a")
	})
}

func badges(h *writer, p content.Post, active []string) {
	if len(p.Tags) == 0 {
		return
	}
	h.open("div", "class", "badges")
	if year := YearLabel(p); year != "" {
		h.el("span", year, "class", "badge")
	}
	for _, t := range p.Tags {
		h.el("span", t, "class", "badge "+TagClass(contains(active, t)))
	}
	h.close("div")
}

// PostDetail renders the selected post with its image carousel.
func PostDetail(d viewstate.Detail, variant string) templ.Component {
	return component(func(h *writer) {
		p := d.Post
		h.open("article", "class", "detail detail--"+variant)
		h.open("div", "class", "detail__header")
		h.el("h1", p.Title)
		if p.Subtitle != "" {
			h.el("p", p.Subtitle, "class", "detail__subtitle")
		}
		h.el("a", "Close", "href", d.CloseHref, "class", "detail__close", "aria-label", "Close", "data-history", string(viewstate.Push))
		badges(h, p, nil)
		h.close("div")

		if p.Body != "" {
			h.open("div", "class", "detail__body prose")
			h.child(markdown.Markdown(p.Body))
			h.close("div")
		}
		carousel(h, d)
		videos(h, p)
		h.el("a", "Permalink", "href", p.Link(), "class", "detail__permalink")
		h.close("article")
	})
}

func carousel(h *writer, d viewstate.Detail) {
	if len(d.Images) == 0 {
		return
	}
	cur := d.Images[d.Index]
	h.open("figure", "class", "carousel")
	h.open("img", "src", cur.URL, "alt", imageAlt(d.Post, cur, d.Index), "width", "800", "height", "600", "fetchpriority", "high")
	h.open("figcaption")
	h.text(fmt.Sprintf("%d / %d", d.Index+1, len(d.Images)))
	h.close("figcaption")
	if d.PrevHref != "" {
		h.el("a", "Previous", "href", d.PrevHref, "class", "carousel__prev", "data-history", string(viewstate.Replace))
	}
	if d.NextHref != "" {
		h.el("a", "Next", "href", d.NextHref, "class", "carousel__next", "data-history", string(viewstate.Replace))
	}
	h.close("figure")

	if len(d.Images) > 1 {
		h.open("ol", "class", "carousel__thumbs")
		for i, m := range d.Images {
			class := "thumb"
			if i == d.Index {
				class += " thumb--current"
			}
			h.open("li", "class", class)
			h.open("a", "href", d.ImageHrefs[i], "data-history", string(viewstate.Replace))
			h.open("img", "src", m.URL, "alt", imageAlt(d.Post, m, i), "width", "96", "height", "72", "loading", "lazy")
			h.close("a")
			h.close("li")
		}
		h.close("ol")
	}
}

func videos(h *writer, p content.Post) {
	for _, v := range p.Videos {
		src, ok := v.EmbedURL()
		if !ok {
			continue
		}
		title := v.Title
		if title == "" {
			title = p.Title
		}
		h.open("div", "class", "video")
		h.open("iframe", "src", src, "title", title, "allow", "autoplay; fullscreen; picture-in-picture",
			"allowfullscreen", "true", "loading", "lazy")
		h.close("iframe")
		h.close("div")
	}
}

func imageAlt(p content.Post, m viewstate.Media, i int) string {
	if m.Image.Alt != "" {
		return m.Image.Alt
	}
	return fmt.Sprintf("%s - image %d", p.Title, i+1)
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

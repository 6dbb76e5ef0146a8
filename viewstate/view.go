package viewstate

import "github.com/eringen/folio/content"

// TagOption is one entry of the filter list.
type TagOption struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
	Href   string `json:"href"`
}

// Card is one entry of the visible post list.
type Card struct {
	Post     content.Post `json:"post"`
	Href     string       `json:"href"`
	Selected bool         `json:"selected"`
	Opacity  float64      `json:"opacity"`
	Thumb    string       `json:"thumb,omitempty"`
}

// Detail describes the selected post.
type Detail struct {
	Post      content.Post `json:"post"`
	Images    []Media      `json:"images"`
	Index     int          `json:"index"`
	PrevHref  string       `json:"prevHref,omitempty"`
	NextHref  string       `json:"nextHref,omitempty"`
	CloseHref string       `json:"closeHref"`
	// ImageHrefs[i] selects image i.
	ImageHrefs []string `json:"imageHrefs"`
}

// View is everything a renderer needs for one page. Every href is the URL
// the corresponding operation would produce from the current state.
type View struct {
	State  State       `json:"state"`
	URL    string      `json:"url"`
	Tags   []TagOption `json:"tags"`
	Cards  []Card      `json:"cards"`
	Detail *Detail     `json:"detail,omitempty"`
	Mobile bool        `json:"mobile"`
	Empty  bool        `json:"empty"`
}

// View derives the page model, building links against path.
func (c *Controller) View(path string) View {
	state := c.State()
	v := View{
		State:  state,
		URL:    c.URL(path),
		Mobile: c.mobile,
	}

	for _, t := range TagUniverse(c.posts) {
		next := c.Clone()
		next.ToggleTag(t)
		v.Tags = append(v.Tags, TagOption{
			Label:  t,
			Active: c.IsActive(t),
			Href:   next.URL(path),
		})
	}

	for _, p := range Visible(c.posts, c.tags) {
		next := c.Clone()
		next.SelectPost(p)
		card := Card{
			Post:     p,
			Href:     next.URL(path),
			Selected: state.PostID == p.ID,
			Opacity:  CardOpacity(state, p.ID),
		}
		if imgs := CombinedImages(p, c.resolver); len(imgs) > 0 && imgs[0].Main {
			card.Thumb = imgs[0].URL
			if tr, ok := c.resolver.(ThumbResolver); ok {
				if u, ok := tr.ThumbURL(imgs[0].Image); ok {
					card.Thumb = u
				}
			}
		}
		v.Cards = append(v.Cards, card)
	}
	v.Empty = len(v.Cards) == 0

	if sel, ok := c.Selected(); ok {
		images := c.Images()
		d := &Detail{
			Post:   sel,
			Images: images,
			Index:  c.image,
		}
		closed := c.Clone()
		closed.CloseSelection()
		d.CloseHref = closed.URL(path)
		for i := range images {
			next := c.Clone()
			next.SelectImage(i)
			d.ImageHrefs = append(d.ImageHrefs, next.URL(path))
		}
		if c.image > 0 {
			d.PrevHref = d.ImageHrefs[c.image-1]
		}
		if c.image+1 < len(images) {
			d.NextHref = d.ImageHrefs[c.image+1]
		}
		v.Detail = d
	}
	return v
}

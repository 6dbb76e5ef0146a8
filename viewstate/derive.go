package viewstate

import (
	"sort"

	"github.com/eringen/folio/content"
)

// Resolver turns an image reference into a displayable URL. ok is false when
// the reference cannot be displayed.
type Resolver interface {
	ImageURL(ref content.ImageRef) (url string, ok bool)
}

// ThumbResolver is implemented by resolvers that serve a smaller variant
// of an image for post cards.
type ThumbResolver interface {
	ThumbURL(ref content.ImageRef) (url string, ok bool)
}

// Media is one entry of a post's combined image list.
type Media struct {
	Image content.ImageRef
	URL   string
	Main  bool
}

// TagUniverse returns every distinct tag across posts in first-seen order.
func TagUniverse(posts []content.Post) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}

// Filter keeps posts carrying at least one active tag. With no active tags
// the input is returned unchanged.
func Filter(posts []content.Post, active []string) []content.Post {
	if len(active) == 0 {
		return posts
	}
	set := toSet(active)
	var out []content.Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if _, ok := set[t]; ok {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// FilterAll keeps posts carrying every active tag. It is the AND alternative
// to Filter and is not used by the controller.
func FilterAll(posts []content.Post, active []string) []content.Post {
	if len(active) == 0 {
		return posts
	}
	var out []content.Post
	for _, p := range posts {
		have := toSet(p.Tags)
		all := true
		for _, t := range active {
			if _, ok := have[t]; !ok {
				all = false
				break
			}
		}
		if all {
			out = append(out, p)
		}
	}
	return out
}

// SortByDateDesc returns a copy of posts ordered most recent first. Posts
// without a usable date go last; ties keep their input order.
func SortByDateDesc(posts []content.Post) []content.Post {
	out := make([]content.Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		ti, iok := out[i].Day()
		tj, jok := out[j].Day()
		if iok != jok {
			return iok
		}
		return ti.After(tj)
	})
	return out
}

// Visible is the display list: filtered, then sorted by date.
func Visible(posts []content.Post, active []string) []content.Post {
	return SortByDateDesc(Filter(posts, active))
}

// CombinedImages returns the post's main image followed by its gallery,
// skipping entries without an asset or that r cannot resolve. A nil r
// accepts every valid reference and leaves URL empty.
func CombinedImages(p content.Post, r Resolver) []Media {
	var out []Media
	add := func(ref content.ImageRef, main bool) {
		if !ref.Valid() {
			return
		}
		m := Media{Image: ref, Main: main}
		if r != nil {
			u, ok := r.ImageURL(ref)
			if !ok || u == "" {
				return
			}
			m.URL = u
		}
		out = append(out, m)
	}
	if p.MainImage != nil {
		add(*p.MainImage, true)
	}
	for _, ref := range p.Gallery {
		add(ref, false)
	}
	return out
}

// CardOpacity is the list-card opacity for post id under s. A selected
// post stays solid and dims the rest; on desktop, hovering dims the rest
// even without a selection.
func CardOpacity(s State, id string) float64 {
	if s.PostID != "" {
		switch {
		case s.PostID == id:
			return 1
		case s.Hover == id:
			return 0.7
		default:
			return 0.5
		}
	}
	if s.Hover != "" && !s.Mobile {
		if s.Hover == id {
			return 1
		}
		return 0.5
	}
	return 1
}

func toSet(vals []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

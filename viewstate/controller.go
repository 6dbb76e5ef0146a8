// Package viewstate keeps portfolio view state (active tag filters, the
// selected post and image, hover and responsive mode) consistent with the
// page URL, and derives the lists the page renders from it.
//
// A Controller is owned by one caller at a time: the server builds one per
// request from the current post snapshot and the request query.
package viewstate

import (
	"net/url"

	"github.com/eringen/folio/content"
)

// Breakpoint is the widest viewport, in CSS pixels, that gets the mobile layout.
const Breakpoint = 750

// History says how an outbound URL change should be recorded by the client.
type History string

const (
	// Replace rewrites the current history entry.
	Replace History = "replace"
	// Push adds a history entry.
	Push History = "push"
)

// Update is the outcome of a state-changing operation.
type Update struct {
	Query   url.Values
	History History
}

// State is a snapshot of the controller's view state.
type State struct {
	Tags   []string `json:"tags"`
	PostID string   `json:"post,omitempty"`
	Image  int      `json:"image"`
	Hover  string   `json:"hover,omitempty"`
	Mobile bool     `json:"mobile"`
}

// Controller is the single source of truth for view state.
type Controller struct {
	posts    []content.Post
	byID     map[string]int
	resolver Resolver

	tags     []string
	selected *content.Post
	image    int
	hover    string
	mobile   bool

	base url.Values
}

// NewController returns an unselected, unfiltered controller over posts.
// r resolves image URLs for the combined image list; it may be nil.
func NewController(posts []content.Post, r Resolver) *Controller {
	c := &Controller{resolver: r, base: url.Values{}}
	c.setPosts(posts)
	return c
}

func (c *Controller) setPosts(posts []content.Post) {
	c.posts = posts
	c.byID = make(map[string]int, len(posts))
	for i, p := range posts {
		c.byID[p.ID] = i
	}
}

// Posts returns the controller's current post collection.
func (c *Controller) Posts() []content.Post {
	return c.posts
}

// Lookup finds a post by id in the current collection.
func (c *Controller) Lookup(id string) (content.Post, bool) {
	i, ok := c.byID[id]
	if !ok {
		return content.Post{}, false
	}
	return c.posts[i], true
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	s := State{
		Tags:   append([]string{}, c.tags...),
		Hover:  c.hover,
		Mobile: c.mobile,
	}
	if c.selected != nil {
		s.PostID = c.selected.ID
		s.Image = c.image
	}
	return s
}

// Selected returns the selected post, if any.
func (c *Controller) Selected() (content.Post, bool) {
	if c.selected == nil {
		return content.Post{}, false
	}
	return *c.selected, true
}

// ActiveTags returns the active filter set in insertion order.
func (c *Controller) ActiveTags() []string {
	return append([]string(nil), c.tags...)
}

// IsActive reports whether tag is in the active filter set.
func (c *Controller) IsActive(tag string) bool {
	for _, t := range c.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Sync applies an inbound URL. A present tags parameter replaces the filter
// set; an absent one leaves it alone. A post parameter that resolves selects
// that post, anything else closes the selection.
func (c *Controller) Sync(v url.Values) {
	q := DecodeQuery(v)
	c.base = EncodeQuery(v, Query{})
	if q.HasTags {
		c.tags = q.Tags
	}
	p, ok := c.Lookup(q.Post)
	if !q.HasPost || !ok {
		c.close()
		return
	}
	if c.selected == nil || c.selected.ID != p.ID {
		c.selected = &p
		c.image = 0
	}
	if q.Image > 0 {
		c.SelectImage(q.Image)
	}
}

// ToggleTag adds tag to the filter set, or removes it if already active.
func (c *Controller) ToggleTag(tag string) Update {
	next := make([]string, 0, len(c.tags)+1)
	found := false
	for _, t := range c.tags {
		if t == tag {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		next = append(next, tag)
	}
	c.tags = next
	return Update{Query: c.Query(), History: Replace}
}

// SelectPost selects p, resetting the image index. Selecting the post that
// is already selected closes the selection instead.
func (c *Controller) SelectPost(p content.Post) Update {
	if c.selected != nil && c.selected.ID == p.ID {
		return c.CloseSelection()
	}
	c.selected = &p
	c.image = 0
	return Update{Query: c.Query(), History: Push}
}

// SelectPostID selects the post with the given id from the current
// collection. An unknown id closes the selection.
func (c *Controller) SelectPostID(id string) Update {
	p, ok := c.Lookup(id)
	if !ok {
		return c.CloseSelection()
	}
	return c.SelectPost(p)
}

// CloseSelection clears the selection and resets the image index.
func (c *Controller) CloseSelection() Update {
	c.close()
	return Update{Query: c.Query(), History: Push}
}

func (c *Controller) close() {
	c.selected = nil
	c.image = 0
}

// SelectImage moves to image i of the selected post, clamped to the
// combined image list. It does nothing when no post is selected.
func (c *Controller) SelectImage(i int) Update {
	if c.selected != nil {
		c.image = clamp(i, len(c.Images()))
	}
	return Update{Query: c.Query(), History: Replace}
}

// Hover sets the hover target; an empty id clears it. Hover is ignored in
// mobile mode.
func (c *Controller) Hover(id string) {
	if c.mobile {
		c.hover = ""
		return
	}
	c.hover = id
}

// Resize recomputes responsive mode for a viewport width. A width of zero
// or less means the width is unknown and selects the desktop layout.
func (c *Controller) Resize(width int) {
	c.mobile = width > 0 && width <= Breakpoint
	if c.mobile {
		c.hover = ""
	}
}

// Mobile reports whether the narrow layout is active.
func (c *Controller) Mobile() bool {
	return c.mobile
}

// ReplacePosts swaps in a new post collection. The selection survives when
// its id is still present; otherwise it is closed.
func (c *Controller) ReplacePosts(posts []content.Post) {
	c.setPosts(posts)
	if c.selected == nil {
		return
	}
	p, ok := c.Lookup(c.selected.ID)
	if !ok {
		c.close()
		return
	}
	c.selected = &p
	c.image = clamp(c.image, len(c.Images()))
}

// Images is the combined image list of the selected post.
func (c *Controller) Images() []Media {
	if c.selected == nil {
		return nil
	}
	return CombinedImages(*c.selected, c.resolver)
}

// Query is the URL query for the current state.
func (c *Controller) Query() url.Values {
	q := Query{Tags: c.tags}
	if c.selected != nil {
		q.Post = c.selected.ID
		q.Image = c.image
	}
	return EncodeQuery(c.base, q)
}

// URL renders path with the current query.
func (c *Controller) URL(path string) string {
	return Href(path, c.Query())
}

// Clone returns an independent copy sharing the post collection.
func (c *Controller) Clone() *Controller {
	cp := *c
	cp.tags = append([]string(nil), c.tags...)
	if c.selected != nil {
		p := *c.selected
		cp.selected = &p
	}
	cp.base = EncodeQuery(c.base, Query{})
	return &cp
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

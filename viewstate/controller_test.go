package viewstate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/content"
)

func scenarioPosts() []content.Post {
	return []content.Post{
		{ID: "1", Date: "2024-01-01", Tags: []string{"film"}},
		{ID: "2", Date: "2024-06-01", Tags: []string{"photo"}},
	}
}

func galleryPost(id string, n int) content.Post {
	p := content.Post{ID: id, MainImage: &content.ImageRef{Asset: id + "-main"}}
	for i := 0; i < n; i++ {
		p.Gallery = append(p.Gallery, content.ImageRef{Asset: id + "-g"})
	}
	return p
}

func TestToggleTagScenario(t *testing.T) {
	c := NewController(scenarioPosts(), nil)

	up := c.ToggleTag("film")
	assert.Equal(t, Replace, up.History)
	assert.Equal(t, "film", up.Query.Get(ParamTags))
	assert.Equal(t, []string{"1"}, ids(Visible(c.Posts(), c.ActiveTags())))

	up = c.SelectPostID("2")
	assert.Equal(t, Push, up.History)
	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "2", sel.ID, "selection is independent of filtering")
	assert.Equal(t, []string{"film"}, c.ActiveTags())
}

func TestToggleTagTwiceRestoresSet(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.ToggleTag("photo")
	before := c.ActiveTags()

	c.ToggleTag("film")
	up := c.ToggleTag("film")

	assert.Equal(t, before, c.ActiveTags())
	assert.Equal(t, "photo", up.Query.Get(ParamTags))
}

func TestToggleLastTagDropsParam(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.ToggleTag("film")
	up := c.ToggleTag("film")
	_, present := up.Query[ParamTags]
	assert.False(t, present)
}

func TestSelectSamePostTwiceUnselects(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.SelectPostID("1")
	up := c.SelectPostID("1")

	_, ok := c.Selected()
	assert.False(t, ok)
	assert.Empty(t, up.Query.Get(ParamPost))
}

func TestSelectOtherPostResetsImage(t *testing.T) {
	a, b := galleryPost("a", 3), galleryPost("b", 3)
	c := NewController([]content.Post{a, b}, nil)

	c.SelectPost(a)
	c.SelectImage(2)
	assert.Equal(t, 2, c.State().Image)

	c.SelectPost(b)
	st := c.State()
	assert.Equal(t, "b", st.PostID)
	assert.Equal(t, 0, st.Image)
}

func TestCloseSelection(t *testing.T) {
	c := NewController([]content.Post{galleryPost("a", 2)}, nil)
	c.SelectPostID("a")
	c.SelectImage(1)

	up := c.CloseSelection()
	assert.Equal(t, State{Tags: []string{}}, c.State())
	_, present := up.Query[ParamPost]
	assert.False(t, present)
	_, present = up.Query[ParamImage]
	assert.False(t, present)
}

func TestSelectImageClamps(t *testing.T) {
	c := NewController([]content.Post{galleryPost("a", 2)}, nil)
	c.SelectPostID("a")

	c.SelectImage(10)
	assert.Equal(t, 2, c.State().Image)
	c.SelectImage(-4)
	assert.Equal(t, 0, c.State().Image)
}

func TestSelectImageWithoutSelectionIsNoop(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.SelectImage(3)
	assert.Equal(t, 0, c.State().Image)
}

func TestSyncFromURL(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.Sync(url.Values{"tags": {"photo,film"}, "post": {"2"}})

	assert.Equal(t, []string{"photo", "film"}, c.ActiveTags())
	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "2", sel.ID)
}

func TestSyncUnknownPostIsUnselected(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.SelectPostID("1")
	c.Sync(url.Values{"tags": {"photo,film"}, "post": {"99"}})

	_, ok := c.Selected()
	assert.False(t, ok)
	assert.Equal(t, []string{"photo", "film"}, c.ActiveTags())
}

func TestSyncReplacesTagsAndDropsEmptyTokens(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.ToggleTag("video")
	c.Sync(url.Values{"tags": {",film,,photo,film,"}})
	assert.Equal(t, []string{"film", "photo"}, c.ActiveTags())
}

func TestSyncWithoutTagsKeepsFilters(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.ToggleTag("film")
	c.Sync(url.Values{})
	assert.Equal(t, []string{"film"}, c.ActiveTags())
}

func TestSyncWithoutPostCloses(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.SelectPostID("1")
	c.Sync(url.Values{"tags": {"film"}})
	_, ok := c.Selected()
	assert.False(t, ok)
}

func TestSyncSamePostKeepsImage(t *testing.T) {
	c := NewController([]content.Post{galleryPost("a", 3)}, nil)
	c.SelectPostID("a")
	c.SelectImage(2)
	c.Sync(url.Values{"post": {"a"}})
	assert.Equal(t, 2, c.State().Image)
}

func TestSyncAppliesImageParam(t *testing.T) {
	c := NewController([]content.Post{galleryPost("a", 3)}, nil)
	c.Sync(url.Values{"post": {"a"}, "image": {"2"}})
	assert.Equal(t, 2, c.State().Image)
	assert.Equal(t, "2", c.Query().Get(ParamImage))
}

func TestQueryPreservesUnrelatedParams(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.Sync(url.Values{"utm_source": {"mail"}})
	up := c.ToggleTag("film")
	assert.Equal(t, "mail", up.Query.Get("utm_source"))
	assert.Equal(t, "/?tags=film&utm_source=mail", c.URL("/"))
}

func TestResize(t *testing.T) {
	c := NewController(nil, nil)
	c.Resize(750)
	assert.True(t, c.Mobile())
	c.Resize(751)
	assert.False(t, c.Mobile())
	c.Resize(0)
	assert.False(t, c.Mobile())
}

func TestHoverIgnoredOnMobile(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.Hover("1")
	assert.Equal(t, "1", c.State().Hover)
	c.Resize(400)
	assert.Empty(t, c.State().Hover)
	c.Hover("2")
	assert.Empty(t, c.State().Hover)
}

func TestReplacePostsKeepsSelectionByID(t *testing.T) {
	c := NewController([]content.Post{galleryPost("a", 3)}, nil)
	c.SelectPostID("a")
	c.SelectImage(3)

	updated := galleryPost("a", 1)
	updated.Title = "Revised"
	c.ReplacePosts([]content.Post{updated, galleryPost("b", 0)})

	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "Revised", sel.Title)
	assert.Equal(t, 1, c.State().Image, "index clamped to the shorter list")
}

func TestReplacePostsDropsVanishedSelection(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.SelectPostID("2")
	c.ReplacePosts(scenarioPosts()[:1])
	_, ok := c.Selected()
	assert.False(t, ok)
}

func TestViewLinks(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.Sync(url.Values{"tags": {"film"}})
	v := c.View("/")

	require.Len(t, v.Tags, 2)
	assert.Equal(t, TagOption{Label: "film", Active: true, Href: "/"}, v.Tags[0])
	assert.Equal(t, TagOption{Label: "photo", Active: false, Href: "/?tags=film,photo"}, v.Tags[1])

	require.Len(t, v.Cards, 1)
	assert.Equal(t, "/?post=1&tags=film", v.Cards[0].Href)
	assert.Nil(t, v.Detail)
	assert.False(t, v.Empty)

	// Building the view must not disturb the controller.
	assert.Equal(t, []string{"film"}, c.ActiveTags())
}

func TestViewDetail(t *testing.T) {
	c := NewController([]content.Post{galleryPost("a", 2)}, nil)
	c.Sync(url.Values{"post": {"a"}, "image": {"1"}})
	v := c.View("/")

	require.NotNil(t, v.Detail)
	assert.Len(t, v.Detail.Images, 3)
	assert.Equal(t, 1, v.Detail.Index)
	assert.Equal(t, "/?post=a", v.Detail.PrevHref)
	assert.Equal(t, "/?image=2&post=a", v.Detail.NextHref)
	assert.Equal(t, "/", v.Detail.CloseHref)
	assert.Equal(t, "/", v.Cards[0].Href, "clicking the selected card closes it")
}

func TestViewEmpty(t *testing.T) {
	c := NewController(scenarioPosts(), nil)
	c.Sync(url.Values{"tags": {"nothing"}})
	assert.True(t, c.View("/").Empty)
}

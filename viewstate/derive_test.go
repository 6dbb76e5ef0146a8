package viewstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/eringen/folio/content"
)

func ids(posts []content.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func samplePosts() []content.Post {
	return []content.Post{
		{ID: "a", Date: "2023-03-01", Tags: []string{"film", "bw"}},
		{ID: "b", Date: "2024-06-01", Tags: []string{"photo"}},
		{ID: "c", Date: "2022-11-15", Tags: []string{"photo", "film"}},
		{ID: "d", Date: "", Tags: nil},
		{ID: "e", Date: "2024-06-01", Tags: []string{"video"}},
	}
}

func TestFilterEmptySetReturnsInputUnchanged(t *testing.T) {
	posts := samplePosts()
	got := Filter(posts, nil)
	if diff := cmp.Diff(ids(posts), ids(got)); diff != "" {
		t.Errorf("Filter(nil) changed order (-want +got):\n%s", diff)
	}
}

func TestFilterAnyMatch(t *testing.T) {
	posts := samplePosts()
	tests := []struct {
		name   string
		active []string
		want   []string
	}{
		{"single tag", []string{"film"}, []string{"a", "c"}},
		{"or across tags", []string{"bw", "video"}, []string{"a", "e"}},
		{"unknown tag", []string{"nope"}, nil},
		{"overlapping", []string{"photo", "film"}, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(posts, tt.active)
			assert.Equal(t, tt.want, nilIfEmpty(ids(got)))
		})
	}
}

func TestFilterNoFalseNegatives(t *testing.T) {
	posts := samplePosts()
	active := []string{"photo", "bw"}
	got := toSet(ids(Filter(posts, active)))
	for _, p := range posts {
		matches := false
		for _, tag := range p.Tags {
			if tag == "photo" || tag == "bw" {
				matches = true
			}
		}
		_, kept := got[p.ID]
		assert.Equal(t, matches, kept, "post %s", p.ID)
	}
}

func TestFilterAllRequiresEveryTag(t *testing.T) {
	got := FilterAll(samplePosts(), []string{"photo", "film"})
	assert.Equal(t, []string{"c"}, ids(got))
}

func TestSortByDateDesc(t *testing.T) {
	got := SortByDateDesc(samplePosts())
	assert.Equal(t, []string{"b", "e", "a", "c", "d"}, ids(got))
}

func TestSortByDateDescIsIdempotent(t *testing.T) {
	once := SortByDateDesc(samplePosts())
	twice := SortByDateDesc(once)
	if diff := cmp.Diff(ids(once), ids(twice)); diff != "" {
		t.Errorf("second sort changed order (-once +twice):\n%s", diff)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	posts := samplePosts()
	SortByDateDesc(posts)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(posts))
}

func TestTagUniverseFirstSeenOrder(t *testing.T) {
	posts := samplePosts()
	want := []string{"film", "bw", "photo", "video"}
	assert.Equal(t, want, TagUniverse(posts))
	assert.Equal(t, TagUniverse(posts), TagUniverse(posts))
}

func TestTagUniverseEmpty(t *testing.T) {
	assert.Empty(t, TagUniverse(nil))
}

type stubResolver map[string]string

func (r stubResolver) ImageURL(ref content.ImageRef) (string, bool) {
	u, ok := r[ref.Asset]
	return u, ok
}

func TestCombinedImagesSkipsInvalid(t *testing.T) {
	p := content.Post{
		MainImage: &content.ImageRef{Asset: "main"},
		Gallery: []content.ImageRef{
			{Asset: "g1"},
			{Asset: ""},
			{Asset: "g2"},
		},
	}
	got := CombinedImages(p, nil)
	if assert.Len(t, got, 3) {
		assert.True(t, got[0].Main)
		assert.Equal(t, "main", got[0].Image.Asset)
		assert.Equal(t, "g1", got[1].Image.Asset)
		assert.Equal(t, "g2", got[2].Image.Asset)
	}
}

func TestCombinedImagesUnresolvableMainIsAbsent(t *testing.T) {
	p := content.Post{
		MainImage: &content.ImageRef{Asset: "broken"},
		Gallery:   []content.ImageRef{{Asset: "g1"}},
	}
	got := CombinedImages(p, stubResolver{"g1": "/u/g1.jpg"})
	if assert.Len(t, got, 1) {
		assert.False(t, got[0].Main)
		assert.Equal(t, "/u/g1.jpg", got[0].URL)
	}
}

func TestCombinedImagesNoMedia(t *testing.T) {
	assert.Empty(t, CombinedImages(content.Post{}, nil))
}

func TestCardOpacity(t *testing.T) {
	tests := []struct {
		name  string
		state State
		id    string
		want  float64
	}{
		{"idle", State{}, "a", 1},
		{"selected", State{PostID: "a"}, "a", 1},
		{"other selected", State{PostID: "a"}, "b", 0.5},
		{"hovered while other selected", State{PostID: "a", Hover: "b"}, "b", 0.7},
		{"hovered", State{Hover: "a"}, "a", 1},
		{"not hovered", State{Hover: "a"}, "b", 0.5},
		{"mobile ignores hover", State{Hover: "a", Mobile: true}, "b", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CardOpacity(tt.state, tt.id))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

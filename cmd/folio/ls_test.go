package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eringen/folio/content"
)

func lsPosts() []content.Post {
	return []content.Post{
		{ID: "1", Slug: "harbour", Title: "Harbour", Date: "2021-05-01", Tags: []string{"photo"}},
		{ID: "2", Slug: "reel", Title: "Reel", Date: "2023-01-10", Tags: []string{"film", "photo"}},
		{ID: "3", Slug: "notes", Title: "Notes", Tags: []string{"film"}},
	}
}

func slugs(posts []content.Post) []string {
	var out []string
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func TestListedAnyTag(t *testing.T) {
	got := listed(lsPosts(), []string{"photo"}, false)
	assert.Equal(t, []string{"reel", "harbour"}, slugs(got))
}

func TestListedAllTags(t *testing.T) {
	got := listed(lsPosts(), []string{"film", "photo"}, true)
	assert.Equal(t, []string{"reel"}, slugs(got))
}

func TestListedNoFilterSortsUndatedLast(t *testing.T) {
	got := listed(lsPosts(), nil, false)
	assert.Equal(t, []string{"reel", "harbour", "notes"}, slugs(got))
}

func TestPrintPosts(t *testing.T) {
	var buf bytes.Buffer
	printPosts(&buf, lsPosts(), []string{"film"}, false)

	out := buf.String()
	assert.Contains(t, out, "Reel")
	assert.Contains(t, out, "Notes")
	assert.NotContains(t, out, "Harbour")
	assert.Contains(t, out, "/work/reel/")
	assert.Contains(t, out, "2 of 3 posts")
}

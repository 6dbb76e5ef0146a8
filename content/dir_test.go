package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeFile(t *testing.T, root, name, body string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func testDir(t *testing.T) (*Dir, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "posts/2024/harbour-lights.yaml", `
title: Harbour Lights
date: 2024-03-02
tags: [photo, night]
mainImage:
  asset: harbour.jpg
gallery:
  - asset: a.jpg
  - asset: ""
`)
	writeFile(t, root, "posts/reel.yml", `
slug: showreel
title: Showreel
tags: [film]
videos:
  - url: https://vimeo.com/1234
`)
	writeFile(t, root, "posts/draft.yaml", `
title: Draft
published: false
`)
	writeFile(t, root, "posts/broken.yaml", `
title: Broken
date: March
`)
	writeFile(t, root, "posts/notes.txt", "not a post")
	d := NewDir(root, log.New(os.Stderr))
	d.Logger.SetLevel(log.FatalLevel)
	return d, root
}

func TestDirLoadAll(t *testing.T) {
	d, _ := testDir(t)

	posts, err := d.LoadAll()
	require.NoError(t, err)

	bySlug := map[string]Post{}
	for _, p := range posts {
		bySlug[p.Slug] = p
	}
	require.Len(t, bySlug, 3, "broken and non-yaml files are skipped")

	harbour := bySlug["harbour-lights"]
	assert.Equal(t, "Harbour Lights", harbour.Title)
	assert.Equal(t, []string{"photo", "night"}, harbour.Tags)
	assert.True(t, harbour.Published)
	assert.NotEmpty(t, harbour.ID)
	assert.False(t, harbour.CreatedAt.IsZero())
	require.NotNil(t, harbour.MainImage)
	assert.Len(t, harbour.Gallery, 2)

	assert.Equal(t, "Showreel", bySlug["showreel"].Title)
	assert.False(t, bySlug["draft"].Published)
}

func TestDirLoadAllSkipsDuplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "posts/2023/reel.yaml", "title: Reel 2023\n")
	writeFile(t, root, "posts/2024/reel.yaml", "title: Reel 2024\n")
	writeFile(t, root, "posts/other.yaml", "id: fixed\nslug: other\ntitle: Other\n")
	writeFile(t, root, "posts/twin.yaml", "id: fixed\nslug: twin\ntitle: Twin\n")
	writeFile(t, root, "posts/comma.yaml", "title: Comma\ntags: [\"stills, motion\"]\n")
	d := NewDir(root, log.New(os.Stderr))
	d.Logger.SetLevel(log.FatalLevel)

	posts, err := d.LoadAll()
	require.NoError(t, err)
	require.Len(t, posts, 2)

	ids := map[string]bool{}
	var titles []string
	for _, p := range posts {
		assert.False(t, ids[p.ID], "id %s repeated", p.ID)
		ids[p.ID] = true
		titles = append(titles, p.Title)
	}
	assert.ElementsMatch(t, []string{"Reel 2023", "Other"}, titles, "the first file in path order wins")
}

func TestDirIDsAreStableAcrossLoads(t *testing.T) {
	d, _ := testDir(t)
	first, err := d.FetchPostBySlug(context.Background(), "showreel")
	require.NoError(t, err)
	second, err := d.FetchPostBySlug(context.Background(), "showreel")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestDirFetchPostsPublishedOnly(t *testing.T) {
	d, _ := testDir(t)
	ctx := context.Background()

	posts, err := d.FetchPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	_, err = d.FetchPostBySlug(ctx, "draft")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDirFetchBio(t *testing.T) {
	d, root := testDir(t)
	ctx := context.Background()

	bio, err := d.FetchBio(ctx)
	require.NoError(t, err)
	assert.Nil(t, bio, "missing bio.yaml means no bio")

	writeFile(t, root, BioFile, `
text: Photographer.
email: me@example.com
socials:
  - platform: vimeo
    url: https://vimeo.com/me
`)
	bio, err = d.FetchBio(ctx)
	require.NoError(t, err)
	require.NotNil(t, bio)
	assert.Equal(t, "me@example.com", bio.Email)
	assert.Len(t, bio.Socials, 1)

	writeFile(t, root, BioFile, "text: Photographer.\n")
	_, err = d.FetchBio(ctx)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDirSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d, root := testDir(t)
	d.Debounce = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := d.Subscribe(ctx)
	require.NoError(t, err)

	// A file in a directory created after Subscribe is still picked up.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts", "2025"), 0o755))
	time.Sleep(50 * time.Millisecond)
	writeFile(t, root, "posts/2025/dunes.yaml", "title: Dunes\ntags: [photo]\n")

	deadline := time.After(5 * time.Second)
	for found := false; !found; {
		select {
		case posts, ok := <-updates:
			require.True(t, ok, "subscription closed early")
			found = hasSlug(posts, "dunes")
		case <-deadline:
			t.Fatal("no snapshot with the new post")
		}
	}

	cancel()
	for range updates {
	}
}

func hasSlug(posts []Post, slug string) bool {
	for _, p := range posts {
		if p.Slug == slug {
			return true
		}
	}
	return false
}

package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "folio.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePost(slug string) Post {
	return Post{
		Slug:      slug,
		Title:     "Harbour Lights",
		Subtitle:  "Night series",
		Date:      "2024-01-15",
		MainImage: &ImageRef{Asset: "harbour.jpg", Alt: "Harbour"},
		Gallery:   []ImageRef{{Asset: "a.jpg"}, {Asset: "b.jpg"}},
		Videos:    []Video{{URL: "https://vimeo.com/1234", Title: "Teaser"}},
		Tags:      []string{"photo", "night"},
		Body:      "Shot over a **week**.",
		VideoLoop: "loop.mp4",
		Published: true,
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndFetchPost(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	saved, err := s.SavePost(ctx, samplePost("harbour-lights"))
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SavePost should assign an id")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("SavePost should set CreatedAt")
	}

	got, err := s.FetchPostBySlug(ctx, "harbour-lights")
	if err != nil {
		t.Fatalf("FetchPostBySlug failed: %v", err)
	}
	want := samplePost("harbour-lights")
	want.ID = saved.ID
	want.CreatedAt = saved.CreatedAt.Truncate(time.Second)
	got.CreatedAt = got.CreatedAt.Truncate(time.Second)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("post mismatch (-want +got):\n%s", diff)
	}
	if got.Link() != "/work/harbour-lights/" {
		t.Errorf("Link = %q, want %q", got.Link(), "/work/harbour-lights/")
	}
}

func TestSavePostUpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	first, err := s.SavePost(ctx, samplePost("update-test"))
	require.NoError(t, err)

	p := samplePost("update-test")
	p.Title = "Updated Title"
	p.Tags = []string{"updated", "updated", " film "}
	second, err := s.SavePost(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	got, err := s.FetchPostBySlug(ctx, "update-test")
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", got.Title)
	assert.Equal(t, []string{"updated", "film"}, got.Tags)
}

func TestSavePostRenameKeepsID(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	first, err := s.SavePost(ctx, samplePost("old-slug"))
	require.NoError(t, err)

	p := samplePost("new-slug")
	p.ID = first.ID
	renamed, err := s.SavePost(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, first.ID, renamed.ID)
	assert.True(t, first.CreatedAt.Equal(renamed.CreatedAt))

	posts, err := s.ListAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, first.ID, posts[0].ID)
	assert.Equal(t, "new-slug", posts[0].Slug)

	_, err = s.GetPostAny(ctx, "old-slug")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePostRejectsTakenSlug(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, err := s.SavePost(ctx, samplePost("first"))
	require.NoError(t, err)
	second, err := s.SavePost(ctx, samplePost("second"))
	require.NoError(t, err)

	p := samplePost("first")
	p.ID = second.ID
	_, err = s.SavePost(ctx, p)
	assert.ErrorIs(t, err, ErrInvalid)

	posts, err := s.ListAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestNewStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.db")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not a sqlite database\n", 400)), 0o644))
	_, err := NewStore(path)
	assert.Error(t, err)
}

func TestSavePostRejectsInvalid(t *testing.T) {
	s := setupTestStore(t)
	p := samplePost("bad-date")
	p.Date = "15/01/2024"
	_, err := s.SavePost(context.Background(), p)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestFetchPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.FetchPostBySlug(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchPostUnpublished(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	p := samplePost("draft")
	p.Published = false
	if _, err := s.SavePost(ctx, p); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	if _, err := s.FetchPostBySlug(ctx, "draft"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchPostBySlug should not find drafts, got %v", err)
	}
	got, err := s.GetPostAny(ctx, "draft")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Published {
		t.Error("Published should be false")
	}

	published, err := s.FetchPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, published)
	all, err := s.ListAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFetchPostsWithoutMedia(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, err := s.SavePost(ctx, Post{Slug: "bare", Title: "Bare", Published: true})
	require.NoError(t, err)

	got, err := s.FetchPostBySlug(ctx, "bare")
	require.NoError(t, err)
	assert.Nil(t, got.MainImage)
	assert.Empty(t, got.Gallery)
	assert.Empty(t, got.Videos)
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.Date)
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, err := s.SavePost(ctx, samplePost("to-delete"))
	require.NoError(t, err)
	require.NoError(t, s.DeletePost(ctx, "to-delete"))

	if _, err := s.GetPostAny(ctx, "to-delete"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeletePost(ctx, "nonexistent"); err != nil {
		t.Errorf("DeletePost on nonexistent should not error, got: %v", err)
	}
}

func TestBioRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	b, err := s.FetchBio(ctx)
	require.NoError(t, err)
	assert.Nil(t, b)

	want := Bio{
		Text:    "Photographer based in Lisbon.",
		Photo:   &ImageRef{Asset: "me.jpg"},
		Email:   "hello@example.com",
		Socials: []SocialLink{{Platform: "instagram", URL: "https://instagram.com/me", Handle: "@me"}},
		Clients: []Client{{Name: "Acme", URL: "https://acme.test"}},
	}
	require.NoError(t, s.SaveBio(ctx, want))

	got, err := s.FetchBio(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("bio mismatch (-want +got):\n%s", diff)
	}

	err = s.SaveBio(ctx, Bio{Text: "x", Email: "not an address"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestImages(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	older := Image{Asset: "a.jpg", OriginalName: "A.png", Width: 800, Height: 600, Size: 1024, UploadedAt: "2024-01-01T00:00:00Z"}
	newer := Image{Asset: "b.jpg", OriginalName: "B.png", Width: 400, Height: 300, Size: 512, UploadedAt: "2024-02-01T00:00:00Z"}
	require.NoError(t, s.SaveImage(ctx, older))
	require.NoError(t, s.SaveImage(ctx, newer))

	got, err := s.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Image{newer, older}, got)

	require.NoError(t, s.DeleteImage(ctx, "a.jpg"))
	got, err = s.ListImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Image{newer}, got)
}

func TestSubscribeReceivesSnapshotAfterWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := setupTestStore(t)

	updates, err := s.Subscribe(ctx)
	require.NoError(t, err)

	_, err = s.SavePost(ctx, samplePost("one"))
	require.NoError(t, err)
	_, err = s.SavePost(ctx, samplePost("two"))
	require.NoError(t, err)

	select {
	case posts := <-updates:
		// Only the latest snapshot is kept for a slow subscriber.
		assert.Len(t, posts, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}

	cancel()
	select {
	case _, open := <-updates:
		assert.False(t, open, "channel should close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",film,", []string{"film"}},
		{",film,photo,", []string{"film", "photo"}},
		{",film, photo ,Night,", []string{"film", "photo", "Night"}},
	}

	for _, tt := range tests {
		got := ParseTags(tt.input)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseTags(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
		if tt.want != nil && ParseTags(JoinTagColumn(got)) == nil {
			t.Errorf("JoinTagColumn(%v) did not round-trip", got)
		}
	}
}

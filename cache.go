package folio

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/folio/content"
)

// PostCache is an in-memory snapshot of published posts and the bio, refreshed on a TTL or replaced wholesale by live updates.
type PostCache struct {
	mu       sync.RWMutex
	posts    []content.Post
	bio      *content.Bio
	fetched  time.Time
	revision uint64
	ttl      time.Duration
	source   content.Source

	// onChange is called after each revision bump, outside the lock.
	onChange func(revision uint64)
}

// NewPostCache creates a PostCache backed by the given Source.
func NewPostCache(src content.Source, ttl time.Duration) *PostCache {
	return &PostCache{source: src, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.bio = nil
	c.fetched = time.Time{}
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.source.FetchPosts(ctx)
	if err != nil {
		return err
	}
	bio, err := c.source.FetchBio(ctx)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []content.Post{}
	}
	c.posts = posts
	c.bio = bio
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and bio after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]content.Post, *content.Bio, error) {
	c.mu.RLock()
	if c.valid() {
		posts, bio := c.posts, c.bio
		c.mu.RUnlock()
		return posts, bio, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.bio, nil
}

// Posts returns the published post snapshot. Callers must not modify it.
func (c *PostCache) Posts(ctx context.Context) ([]content.Post, error) {
	posts, _, err := c.ensureLoaded(ctx)
	return posts, err
}

// Bio returns the cached bio, nil when none exists.
func (c *PostCache) Bio(ctx context.Context) (*content.Bio, error) {
	_, bio, err := c.ensureLoaded(ctx)
	return bio, err
}

// GetPost returns a single published post by slug. Posts missing from the
// snapshot are looked up in the source, so a post published since the last
// load is reachable before the TTL runs out.
func (c *PostCache) GetPost(ctx context.Context, slug string) (content.Post, error) {
	posts, err := c.Posts(ctx)
	if err != nil {
		return content.Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return c.source.FetchPostBySlug(ctx, slug)
}

// Revision counts live replacements since startup.
func (c *PostCache) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// Apply replaces the post snapshot wholesale. The bio and the TTL clock are
// left alone, so an invalidated cache still reloads everything on next read.
func (c *PostCache) Apply(posts []content.Post) {
	if posts == nil {
		posts = []content.Post{}
	}
	c.mu.Lock()
	c.posts = posts
	c.revision++
	rev, notify := c.revision, c.onChange
	c.mu.Unlock()
	if notify != nil {
		notify(rev)
	}
}

// Run applies snapshots from the source's subscription until ctx is done.
// Sources without live updates make Run wait for ctx.
func (c *PostCache) Run(ctx context.Context) error {
	sub, ok := c.source.(content.Subscriber)
	if !ok {
		<-ctx.Done()
		return nil
	}
	updates, err := sub.Subscribe(ctx)
	if err != nil {
		return err
	}
	for posts := range updates {
		c.Apply(posts)
	}
	return nil
}

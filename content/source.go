package content

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("content: not found")

// Source is the read side of the content platform.
type Source interface {
	// FetchPosts returns published posts in store order.
	FetchPosts(ctx context.Context) ([]Post, error)
	// FetchPostBySlug returns a published post or ErrNotFound.
	FetchPostBySlug(ctx context.Context, slug string) (Post, error)
	// FetchBio returns the bio, or nil if none has been written.
	FetchBio(ctx context.Context) (*Bio, error)
}

// Subscriber is implemented by sources that can push revised post
// collections. The channel is closed when ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan []Post, error)
}

// Writer is implemented by sources that accept edits from the admin UI.
type Writer interface {
	Source
	ListAllPosts(ctx context.Context) ([]Post, error)
	GetPostAny(ctx context.Context, slug string) (Post, error)
	SavePost(ctx context.Context, p Post) (Post, error)
	DeletePost(ctx context.Context, slug string) error
	SaveBio(ctx context.Context, b Bio) error
	ListImages(ctx context.Context) ([]Image, error)
	SaveImage(ctx context.Context, img Image) error
	DeleteImage(ctx context.Context, asset string) error
}

package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding posts, the bio and image metadata.
type Store struct {
	db   *sql.DB
	live broadcaster
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the site keep reading while the admin writes; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure %s: %w", path, err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    subtitle TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',',
    main_image TEXT NOT NULL DEFAULT '',
    gallery TEXT NOT NULL DEFAULT '[]',
    videos TEXT NOT NULL DEFAULT '[]',
    body TEXT NOT NULL DEFAULT '',
    video_loop TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS bio (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    doc TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    asset TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, slug, title, subtitle, date, tags, main_image, gallery, videos, body, video_loop, published, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var (
		p                                          Post
		tags, mainImage, gallery, videos, created string
		published                                  int
	)
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Subtitle, &p.Date, &tags, &mainImage,
		&gallery, &videos, &p.Body, &p.VideoLoop, &published, &created)
	if err != nil {
		return Post{}, err
	}
	p.Tags = ParseTags(tags)
	p.Published = published == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	// Media columns are best effort: a damaged column reads as no media.
	if mainImage != "" {
		var ref ImageRef
		if json.Unmarshal([]byte(mainImage), &ref) == nil {
			p.MainImage = &ref
		}
	}
	_ = json.Unmarshal([]byte(gallery), &p.Gallery)
	_ = json.Unmarshal([]byte(videos), &p.Videos)
	return p, nil
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// FetchPosts returns published posts, newest first by creation time.
func (s *Store) FetchPosts(ctx context.Context) ([]Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 ORDER BY created_at DESC`)
}

// ListAllPosts returns every post, drafts included.
func (s *Store) ListAllPosts(ctx context.Context) ([]Post, error) {
	return s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
}

// FetchPostBySlug returns a single published post.
func (s *Store) FetchPostBySlug(ctx context.Context, slug string) (Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// GetPostAny returns a post by slug regardless of published status.
func (s *Store) GetPostAny(ctx context.Context, slug string) (Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// getPostByID returns a post by id regardless of published status.
func (s *Store) getPostByID(ctx context.Context, id string) (Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// SavePost validates and upserts a post. A post with an ID updates that
// post, slug included; without one it is matched by slug, and a new post
// gets a fresh ID. The stored post is returned.
func (s *Store) SavePost(ctx context.Context, p Post) (Post, error) {
	p.Slug = strings.TrimSpace(p.Slug)
	p.ID = strings.TrimSpace(p.ID)
	if err := Validate(p); err != nil {
		return Post{}, err
	}
	if p.ID != "" {
		existing, err := s.getPostByID(ctx, p.ID)
		switch {
		case err == nil:
			p.CreatedAt = existing.CreatedAt
		case !errors.Is(err, ErrNotFound):
			return Post{}, err
		}
	}
	bySlug, err := s.GetPostAny(ctx, p.Slug)
	switch {
	case err == nil && p.ID == "":
		p.ID = bySlug.ID
		p.CreatedAt = bySlug.CreatedAt
	case err == nil && bySlug.ID != p.ID:
		return Post{}, fmt.Errorf("%w: slug %q is used by another post", ErrInvalid, p.Slug)
	case err != nil && !errors.Is(err, ErrNotFound):
		return Post{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Tags = NormalizeTags(p.Tags)

	mainImage := ""
	if p.MainImage != nil {
		b, err := json.Marshal(p.MainImage)
		if err != nil {
			return Post{}, fmt.Errorf("encode main image: %w", err)
		}
		mainImage = string(b)
	}
	gallery, err := json.Marshal(nonNil(p.Gallery))
	if err != nil {
		return Post{}, fmt.Errorf("encode gallery: %w", err)
	}
	videos, err := json.Marshal(nonNil(p.Videos))
	if err != nil {
		return Post{}, fmt.Errorf("encode videos: %w", err)
	}
	published := 0
	if p.Published {
		published = 1
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.Title, p.Subtitle, p.Date, JoinTagColumn(p.Tags), mainImage, string(gallery),
		string(videos), p.Body, p.VideoLoop, published, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Post{}, err
	}
	s.notify(ctx)
	return p, nil
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(ctx context.Context, slug string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// FetchBio returns the stored bio, or nil when none exists.
func (s *Store) FetchBio(ctx context.Context) (*Bio, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM bio WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var b Bio
	if err := json.Unmarshal([]byte(doc), &b); err != nil {
		return nil, fmt.Errorf("decode bio: %w", err)
	}
	return &b, nil
}

// SaveBio validates and replaces the singleton bio.
func (s *Store) SaveBio(ctx context.Context, b Bio) error {
	if err := ValidateBio(b); err != nil {
		return err
	}
	doc, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bio: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO bio (id, doc) VALUES (1, ?)`, string(doc))
	return err
}

// ListImages returns uploaded image metadata, newest first.
func (s *Store) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT asset, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Asset, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// SaveImage records metadata for an uploaded asset.
func (s *Store) SaveImage(ctx context.Context, img Image) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO images (asset, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Asset, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// DeleteImage removes image metadata by asset reference.
func (s *Store) DeleteImage(ctx context.Context, asset string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE asset = ?`, asset)
	return err
}

// Subscribe streams the published post list after every write.
func (s *Store) Subscribe(ctx context.Context) (<-chan []Post, error) {
	return s.live.subscribe(ctx), nil
}

func (s *Store) notify(ctx context.Context) {
	posts, err := s.FetchPosts(context.WithoutCancel(ctx))
	if err != nil {
		return
	}
	s.live.publish(posts)
}

// ParseTags splits a comma-delimited tag column (e.g. ",film,photo,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// JoinTagColumn is the inverse of ParseTags.
func JoinTagColumn(tags []string) string {
	return "," + strings.Join(tags, ",") + ","
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

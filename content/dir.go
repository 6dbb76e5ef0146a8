package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// PostPattern matches post documents relative to a content directory.
const PostPattern = "posts/**/*.{yaml,yml}"

// BioFile is the bio document relative to a content directory.
const BioFile = "bio.yaml"

// idSpace namespaces ids derived from slugs, so a post keeps its id across
// reloads even when the document does not declare one.
var idSpace = uuid.MustParse("3f0c1f4e-8a52-4c1e-9d0b-5b7f2f1d6a10")

// Dir serves posts and the bio from a directory of YAML documents:
//
//	content/
//	  bio.yaml
//	  posts/2024/harbour-lights.yaml
//
// It is read-only. Subscribe watches the directory and pushes a fresh
// snapshot after edits settle.
type Dir struct {
	Root     string
	Debounce time.Duration
	Logger   *log.Logger
}

// NewDir returns a Dir rooted at root.
func NewDir(root string, logger *log.Logger) *Dir {
	if logger == nil {
		logger = log.Default()
	}
	return &Dir{Root: root, Debounce: 200 * time.Millisecond, Logger: logger}
}

// LoadAll reads every post document, drafts included, in path order.
// Documents that fail to parse or validate, or that repeat an earlier
// document's id or slug, are skipped with a warning.
func (d *Dir) LoadAll() ([]Post, error) {
	fsys := os.DirFS(d.Root)
	matches, err := doublestar.Glob(fsys, PostPattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", d.Root, err)
	}
	var posts []Post
	ids := make(map[string]string)
	slugs := make(map[string]string)
	for _, name := range matches {
		p, err := readPost(fsys, name)
		if err != nil {
			d.Logger.Warn("skipping post", "file", name, "err", err)
			continue
		}
		if prev, ok := ids[p.ID]; ok {
			d.Logger.Warn("skipping post", "file", name, "err", "duplicate id", "first", prev)
			continue
		}
		if prev, ok := slugs[p.Slug]; ok {
			d.Logger.Warn("skipping post", "file", name, "err", "duplicate slug", "first", prev)
			continue
		}
		ids[p.ID] = name
		slugs[p.Slug] = name
		posts = append(posts, p)
	}
	return posts, nil
}

func readPost(fsys fs.FS, name string) (Post, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Post{}, err
	}
	p := Post{Published: true}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Post{}, fmt.Errorf("decode: %w", err)
	}
	if p.Slug == "" {
		p.Slug = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if err := Validate(p); err != nil {
		return Post{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewSHA1(idSpace, []byte(p.Slug)).String()
	}
	p.Tags = NormalizeTags(p.Tags)
	if info, err := fs.Stat(fsys, name); err == nil {
		p.CreatedAt = info.ModTime().UTC()
	}
	return p, nil
}

// FetchPosts returns the published posts.
func (d *Dir) FetchPosts(ctx context.Context) ([]Post, error) {
	all, err := d.LoadAll()
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(all))
	for _, p := range all {
		if p.Published {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// FetchPostBySlug returns the published post with the given slug.
func (d *Dir) FetchPostBySlug(ctx context.Context, slug string) (Post, error) {
	posts, err := d.FetchPosts(ctx)
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// FetchBio reads bio.yaml. A missing file means no bio.
func (d *Dir) FetchBio(ctx context.Context) (*Bio, error) {
	data, err := os.ReadFile(filepath.Join(d.Root, BioFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var b Bio
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode %s: %w", BioFile, err)
	}
	if err := ValidateBio(b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Subscribe watches the directory tree and sends the published post list
// each time changes settle for the debounce interval.
func (d *Dir) Subscribe(ctx context.Context) (<-chan []Post, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := d.watchTree(w); err != nil {
		w.Close()
		return nil, err
	}
	out := make(chan []Post, 1)
	go d.run(ctx, w, out)
	return out, nil
}

func (d *Dir) watchTree(w *fsnotify.Watcher) error {
	return filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func (d *Dir) run(ctx context.Context, w *fsnotify.Watcher, out chan []Post) {
	defer close(out)
	defer w.Close()

	timer := time.NewTimer(d.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						d.Logger.Warn("watch directory", "dir", ev.Name, "err", err)
					}
				}
			}
			timer.Reset(d.Debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			d.Logger.Warn("content watcher", "err", err)
		case <-timer.C:
			posts, err := d.FetchPosts(ctx)
			if err != nil {
				d.Logger.Error("reload content", "err", err)
				continue
			}
			d.Logger.Debug("content changed", "posts", len(posts))
			select {
			case <-out:
			default:
			}
			select {
			case out <- posts:
			case <-ctx.Done():
				return
			}
		}
	}
}

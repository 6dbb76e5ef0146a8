package content

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("content: invalid document")

// MaxSlugLen is the longest slug the editor accepts.
const MaxSlugLen = 96

// Platforms lists the social platforms a bio may link to.
var Platforms = []string{"instagram", "linkedin", "twitter", "vimeo", "behance", "website"}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks a post against the post schema.
func Validate(p Post) error {
	slug := strings.TrimSpace(p.Slug)
	if slug == "" {
		return invalid("slug is required")
	}
	if len(slug) > MaxSlugLen {
		return invalid("slug %q exceeds %d characters", slug, MaxSlugLen)
	}
	if p.Date != "" {
		if _, err := time.Parse(DateLayout, p.Date); err != nil {
			return invalid("date %q is not YYYY-MM-DD", p.Date)
		}
	}
	for _, t := range p.Tags {
		if strings.Contains(t, ",") {
			return invalid("tag %q must not contain a comma", t)
		}
	}
	for i, v := range p.Videos {
		if strings.TrimSpace(v.URL) == "" {
			return invalid("video %d: url is required", i)
		}
		if _, err := url.ParseRequestURI(v.URL); err != nil {
			return invalid("video %d: %v", i, err)
		}
	}
	return nil
}

// ValidateBio checks a bio against the bio schema.
func ValidateBio(b Bio) error {
	if strings.TrimSpace(b.Text) == "" {
		return invalid("bio text is required")
	}
	if strings.TrimSpace(b.Email) == "" {
		return invalid("email is required")
	}
	if _, err := mail.ParseAddress(b.Email); err != nil {
		return invalid("email %q: %v", b.Email, err)
	}
	for i, s := range b.Socials {
		if !knownPlatform(s.Platform) {
			return invalid("social %d: unknown platform %q", i, s.Platform)
		}
		if _, err := url.ParseRequestURI(s.URL); err != nil {
			return invalid("social %d: %v", i, err)
		}
	}
	for i, c := range b.Clients {
		if strings.TrimSpace(c.Name) == "" {
			return invalid("client %d: name is required", i)
		}
	}
	return nil
}

func knownPlatform(p string) bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// NormalizeTags trims labels and drops empties and duplicates, keeping the
// first occurrence.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

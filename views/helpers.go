package views

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag tag--active"
	}
	return "tag"
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// YearLabel is the badge text for a post's year, empty when undated.
func YearLabel(p content.Post) string {
	if y := p.Year(); y > 0 {
		return fmt.Sprint(y)
	}
	return ""
}

func jsonLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(site Site) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      buildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{"@type": "Person", "name": site.Author}
	}
	return jsonLD(data)
}

// CreativeWorkJsonLD produces a Schema.org CreativeWork block for a post.
func CreativeWorkJsonLD(site Site, p content.Post, image string) string {
	postURL := buildURL(site.URL, "work", p.Slug)
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "CreativeWork",
		"name":     p.Title,
		"url":      postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if p.Subtitle != "" {
		data["alternativeHeadline"] = p.Subtitle
	}
	if p.Date != "" {
		data["dateCreated"] = p.Date
	}
	if image != "" {
		data["image"] = image
	}
	if site.Author != "" {
		data["creator"] = map[string]string{"@type": "Person", "name": site.Author}
	}
	if len(p.Tags) > 0 {
		data["keywords"] = strings.Join(p.Tags, ", ")
	}
	return jsonLD(data)
}

// PersonJsonLD produces a Schema.org Person block from the bio.
func PersonJsonLD(site Site, b content.Bio) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     site.Author,
		"email":    b.Email,
		"url":      buildURL(site.URL, "bio"),
	}
	var same []string
	for _, s := range b.Socials {
		same = append(same, s.URL)
	}
	if len(same) > 0 {
		data["sameAs"] = same
	}
	return jsonLD(data)
}

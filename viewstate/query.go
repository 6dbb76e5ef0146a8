package viewstate

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names. tags and post carry the shareable state; image is
// only written while a post is selected and is 0 when absent.
const (
	ParamTags  = "tags"
	ParamPost  = "post"
	ParamImage = "image"
)

// Query is the URL-facing projection of the view state.
type Query struct {
	Tags    []string
	HasTags bool
	Post    string
	HasPost bool
	Image   int
}

// DecodeQuery reads the view-state parameters from v. Tag tokens are
// trimmed; empty tokens and repeats are dropped.
func DecodeQuery(v url.Values) Query {
	var q Query
	if raw, ok := v[ParamTags]; ok {
		q.HasTags = true
		seen := make(map[string]struct{})
		for _, tok := range strings.Split(strings.Join(raw, ","), ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			q.Tags = append(q.Tags, tok)
		}
	}
	if _, ok := v[ParamPost]; ok {
		q.HasPost = true
		q.Post = v.Get(ParamPost)
	}
	if n, err := strconv.Atoi(v.Get(ParamImage)); err == nil && n > 0 {
		q.Image = n
	}
	return q
}

// EncodeQuery writes q over a copy of base. Parameters that are not part of
// the view state pass through untouched.
func EncodeQuery(base url.Values, q Query) url.Values {
	out := make(url.Values, len(base)+3)
	for k, vals := range base {
		out[k] = append([]string(nil), vals...)
	}
	if len(q.Tags) > 0 {
		out.Set(ParamTags, strings.Join(q.Tags, ","))
	} else {
		out.Del(ParamTags)
	}
	if q.Post != "" {
		out.Set(ParamPost, q.Post)
	} else {
		out.Del(ParamPost)
	}
	if q.Post != "" && q.Image > 0 {
		out.Set(ParamImage, strconv.Itoa(q.Image))
	} else {
		out.Del(ParamImage)
	}
	return out
}

// Href renders path with v, keeping commas in tag lists readable.
func Href(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + strings.ReplaceAll(v.Encode(), "%2C", ",")
}

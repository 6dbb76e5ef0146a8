// Package views holds the default templ components for a folio site. Each
// page is a thin renderer over the page structs in types.go; swap any of
// them through folio.ViewFuncs.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so components can emit markup
// without checking every call.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *writer) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

// open writes a start tag; attrs are name/value pairs, empty values skipped.
func (h *writer) open(tag string, attrs ...string) {
	h.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" {
			continue
		}
		h.raw(" " + attrs[i] + `="` + templ.EscapeString(attrs[i+1]) + `"`)
	}
	h.raw(">")
}

func (h *writer) close(tag string) {
	h.raw("</" + tag + ">")
}

// el writes a complete element with escaped text content.
func (h *writer) el(tag, body string, attrs ...string) {
	h.open(tag, attrs...)
	h.text(body)
	h.close(tag)
}

func (h *writer) child(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func component(fn func(h *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

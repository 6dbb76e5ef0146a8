package views

import (
	"github.com/a-h/templ"
)

// liveScript reloads the page when the server reports a new content
// revision. The URL carries the view state, so a reload keeps it.
// Links marked data-history="replace" swap the current history entry
// instead of pushing a new one.
const liveScript = `<script>
(function () {
  document.addEventListener("click", function (ev) {
    if (ev.defaultPrevented || ev.button !== 0 || ev.metaKey || ev.ctrlKey || ev.shiftKey || ev.altKey) { return; }
    var a = ev.target.closest && ev.target.closest('a[data-history="replace"]');
    if (!a) { return; }
    ev.preventDefault();
    location.replace(a.href);
  });
  var rev = null;
  function connect() {
    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/live/");
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (rev !== null && msg.revision !== rev) { location.reload(); }
      rev = msg.revision;
    };
    ws.onclose = function () { setTimeout(connect, 5000); };
  }
  connect();
})();
</script>`

// Layout wraps body in the HTML document shell.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return component(func(h *writer) {
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " · " + site.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw("<!doctype html>")
		h.open("html", "lang", "en")
		h.open("head")
		h.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.el("title", title)
		h.open("meta", "name", "description", "content", desc)
		h.open("link", "rel", "canonical", "href", meta.URL)
		h.open("meta", "property", "og:title", "content", title)
		h.open("meta", "property", "og:description", "content", desc)
		h.open("meta", "property", "og:type", "content", ogType)
		h.open("meta", "property", "og:url", "content", meta.URL)
		h.open("meta", "property", "og:image", "content", meta.Image)
		h.open("link", "rel", "icon", "href", "/favicon.svg", "type", "image/svg+xml")
		h.open("link", "rel", "stylesheet", "href", "/public/site.css")
		h.open("link", "rel", "alternate", "type", "application/rss+xml", "href", "/feed.xml", "title", site.Name)
		jsonld := meta.JSONLD
		if jsonld == "" {
			jsonld = WebsiteJsonLD(site)
		}
		h.raw(`<script type="application/ld+json">` + jsonld + `</script>`)
		h.close("head")

		h.open("body")
		header(h, site)
		h.child(body)
		h.raw(liveScript)
		h.close("body")
		h.close("html")
	})
}

func header(h *writer, site Site) {
	h.open("header", "class", "site-header")
	h.el("a", site.Name, "href", "/", "class", "site-header__name")
	h.open("nav")
	h.el("a", "Bio", "href", "/bio/")
	if site.Admin {
		h.el("a", "Admin", "href", "/admin/")
	}
	h.close("nav")
	h.close("header")
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return Layout(site, PageMeta{Title: "Not found"}, component(func(h *writer) {
		h.open("main", "class", "error")
		h.el("h1", "Not found")
		h.el("p", "That page does not exist.")
		h.el("a", "Back to the portfolio", "href", "/")
		h.close("main")
	}))
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return Layout(site, PageMeta{Title: "Error"}, component(func(h *writer) {
		h.open("main", "class", "error")
		h.el("h1", "Something went wrong")
		h.el("p", "Please try again in a moment.")
		h.close("main")
	}))
}

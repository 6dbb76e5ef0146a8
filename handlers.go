package folio

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/viewstate"
	"github.com/eringen/folio/views"
)

// viewportHeaders are the client hints that carry the layout viewport width.
var viewportHeaders = []string{"Sec-CH-Viewport-Width", "Viewport-Width"}

func (a *App) site(c echo.Context) views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Layout:      a.Config.Layout,
		Admin:       a.Writer != nil && IsAdmin(c),
	}
}

// posts returns the snapshot the visitor may see: published posts from the
// cache, or every post for a logged-in admin.
func (a *App) posts(c echo.Context) ([]content.Post, error) {
	ctx := c.Request().Context()
	if a.Writer != nil && IsAdmin(c) {
		return a.Writer.ListAllPosts(ctx)
	}
	return a.Cache.Posts(ctx)
}

// controller builds the view state for this request from the query and the
// viewport hints. A failed fetch yields an empty controller, not an error.
func (a *App) controller(c echo.Context, q map[string][]string) *viewstate.Controller {
	posts, err := a.posts(c)
	if err != nil {
		a.Logger.Error("fetching posts", "err", err)
		posts = nil
	}
	ctrl := viewstate.NewController(posts, a.Resolver)
	ctrl.Resize(viewportWidth(c))
	ctrl.Sync(q)
	return ctrl
}

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	ctrl := a.controller(c, pageQuery(c))
	view := ctrl.View("/")

	bio, err := a.Cache.Bio(ctx)
	if err != nil {
		a.Logger.Error("fetching bio", "err", err)
	}

	site := a.site(c)
	meta := views.PageMeta{
		Title: site.Name,
		URL:   BuildURL(a.Config.URL),
	}
	if d := view.Detail; d != nil {
		meta.Title = d.Post.Title
		meta.Description = d.Post.Subtitle
		meta.URL = BuildURL(a.Config.URL, "work", d.Post.Slug)
		meta.OGType = "article"
		if len(d.Images) > 0 {
			meta.Image = absoluteURL(a.Config.URL, d.Images[d.Index].URL)
		}
		meta.JSONLD = views.CreativeWorkJsonLD(site, d.Post, meta.Image)
	}
	return Render(c, a.Views.Home(views.HomePage{
		Site: site,
		Meta: meta,
		View: view,
		Bio:  bio,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	site := a.site(c)

	post, err := a.Cache.GetPost(ctx, slug)
	if errors.Is(err, content.ErrNotFound) && site.Admin {
		post, err = a.Writer.GetPostAny(ctx, slug)
	}
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(site))
		}
		return err
	}

	images := viewstate.CombinedImages(post, a.Resolver)
	meta := views.PageMeta{
		Title:       post.Title,
		Description: post.Subtitle,
		URL:         BuildURL(a.Config.URL, "work", post.Slug),
		OGType:      "article",
	}
	if len(images) > 0 {
		meta.Image = absoluteURL(a.Config.URL, images[0].URL)
	}
	meta.JSONLD = views.CreativeWorkJsonLD(site, post, meta.Image)
	return Render(c, a.Views.Post(views.PostPage{
		Site:   site,
		Meta:   meta,
		Post:   post,
		Images: images,
	}))
}

func (a *App) handleBio(c echo.Context) error {
	site := a.site(c)
	bio, err := a.Cache.Bio(c.Request().Context())
	if err != nil {
		return err
	}
	if bio == nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(site))
	}
	page := views.BioPage{
		Site: site,
		Meta: views.PageMeta{
			Title:  "Bio",
			URL:    BuildURL(a.Config.URL, "bio"),
			JSONLD: views.PersonJsonLD(site, *bio),
		},
		Bio: *bio,
	}
	if bio.Photo != nil {
		if u, ok := a.Resolver.ImageURL(*bio.Photo); ok {
			page.Photo = u
			page.Meta.Image = absoluteURL(a.Config.URL, u)
		}
	}
	return Render(c, a.Views.Bio(page))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleWorkRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && !isAPI(c) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "err", err)
		if isAPI(c) {
			_ = c.JSON(code, map[string]string{"error": http.StatusText(code)})
			return
		}
		_ = RenderStatus(c, code, a.Views.ServerError(a.site(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

// viewportWidth reads the layout viewport width from client hints, falling
// back to a width query parameter. Zero means unknown.
func viewportWidth(c echo.Context) int {
	for _, h := range viewportHeaders {
		if w := parseWidth(c.Request().Header.Get(h)); w > 0 {
			return w
		}
	}
	return parseWidth(c.QueryParam(paramWidth))
}

func parseWidth(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return 0
	}
	return int(f)
}

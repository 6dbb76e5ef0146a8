package folio

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.site(c), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminPostForm(a.site(c), content.Post{}, CsrfToken(c)))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Writer.GetPostAny(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site(c)))
		}
		return err
	}
	return Render(c, a.Views.AdminPostForm(a.site(c), post, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Logger.Warn("failed admin login", "ip", ip)
	return Render(c, a.Views.AdminLogin(a.site(c), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// postFromForm reads the editor form. Tags are split on commas, gallery
// assets one per line, videos as "url | title" lines.
func postFromForm(c echo.Context) content.Post {
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format(content.DateLayout)
	}
	p := content.Post{
		ID:        strings.TrimSpace(c.FormValue("id")),
		Slug:      slug,
		Title:     title,
		Subtitle:  strings.TrimSpace(c.FormValue("subtitle")),
		Date:      date,
		Tags:      content.NormalizeTags(strings.Split(c.FormValue("tags"), ",")),
		Body:      c.FormValue("body"),
		VideoLoop: strings.TrimSpace(c.FormValue("video_loop")),
		Published: c.FormValue("published") != "",
	}
	if asset := strings.TrimSpace(c.FormValue("main_image")); asset != "" {
		p.MainImage = &content.ImageRef{Asset: asset, Alt: title}
	}
	for _, line := range formLines(c.FormValue("gallery")) {
		p.Gallery = append(p.Gallery, content.ImageRef{Asset: line})
	}
	for _, line := range formLines(c.FormValue("videos")) {
		f := splitFields(line, 2)
		p.Videos = append(p.Videos, content.Video{URL: f[0], Title: f[1]})
	}
	return p
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	p := postFromForm(c)
	if p.Slug == "" {
		return redirectWithMessage(c, "Slug is required. Add a title or slug.")
	}
	saved, err := a.Writer.SavePost(c.Request().Context(), p)
	if err != nil {
		if errors.Is(err, content.ErrInvalid) {
			return redirectWithMessage(c, err.Error())
		}
		return err
	}
	a.Cache.Invalidate()
	a.Logger.Info("post saved", "slug", saved.Slug, "id", saved.ID, "published", saved.Published)
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	slug := c.Param("slug")
	if err := a.Writer.DeletePost(c.Request().Context(), slug); err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Logger.Info("post deleted", "slug", slug)
	return a.renderAdminDashboard(c, "deleted")
}

// bioFromForm reads the bio form. Socials are "platform | url | handle"
// lines, clients "name | url" lines.
func bioFromForm(c echo.Context) content.Bio {
	b := content.Bio{
		Text:  strings.TrimSpace(c.FormValue("text")),
		Email: strings.TrimSpace(c.FormValue("email")),
		Phone: strings.TrimSpace(c.FormValue("phone")),
	}
	if asset := strings.TrimSpace(c.FormValue("photo")); asset != "" {
		b.Photo = &content.ImageRef{Asset: asset}
	}
	for _, line := range formLines(c.FormValue("socials")) {
		f := splitFields(line, 3)
		b.Socials = append(b.Socials, content.SocialLink{Platform: strings.ToLower(f[0]), URL: f[1], Handle: f[2]})
	}
	for _, line := range formLines(c.FormValue("clients")) {
		f := splitFields(line, 2)
		b.Clients = append(b.Clients, content.Client{Name: f[0], URL: f[1]})
	}
	return b
}

func (a *App) handleAdminBio(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	if err := a.Writer.SaveBio(c.Request().Context(), bioFromForm(c)); err != nil {
		if errors.Is(err, content.ErrInvalid) {
			return redirectWithMessage(c, err.Error())
		}
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "bio saved")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	ctx := c.Request().Context()
	posts, err := a.Writer.ListAllPosts(ctx)
	if err != nil {
		return err
	}
	bio, err := a.Writer.FetchBio(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(views.AdminPage{
		Site:      a.site(c),
		Posts:     posts,
		Bio:       bio,
		Message:   msg,
		CSRFToken: CsrfToken(c),
	}))
}

func redirectWithMessage(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

// formLines splits a textarea into trimmed, non-empty lines.
func formLines(s string) []string {
	return FilterEmpty(strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n"))
}

// splitFields splits a "a | b | c" line into exactly n trimmed fields.
func splitFields(line string, n int) []string {
	parts := strings.SplitN(line, "|", n)
	out := make([]string, n)
	for i := range parts {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out
}

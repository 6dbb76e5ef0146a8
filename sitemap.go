package folio

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) sitemapURLs(posts []content.Post, hasBio bool) []sitemapURL {
	base := a.Config.URL
	urls := []sitemapURL{{Loc: BuildURL(base)}}
	if hasBio {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "bio")})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "work", p.Slug),
			LastMod: p.Date,
		})
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context, posts []content.Post) error {
	bio, err := a.Cache.Bio(c.Request().Context())
	if err != nil {
		return err
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  a.sitemapURLs(posts, bio != nil),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}

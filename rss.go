package folio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/viewstate"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description,omitempty"`
	PubDate     string        `xml:"pubDate,omitempty"`
	GUID        string        `xml:"guid"`
	Categories  []string      `xml:"category"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// feedItems builds feed entries newest first; undated posts come last.
func (a *App) feedItems(posts []content.Post) []rssItem {
	base := a.Config.URL
	sorted := viewstate.SortByDateDesc(posts)
	items := make([]rssItem, 0, len(sorted))
	for _, p := range sorted {
		pubDate := ""
		if t, ok := p.Day(); ok {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := BuildURL(base, "work", p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Subtitle,
			PubDate:     pubDate,
			GUID:        postURL,
			Categories:  p.Tags,
		}
		if imgs := viewstate.CombinedImages(p, a.Resolver); len(imgs) > 0 {
			item.Enclosure = &rssEnclosure{URL: absoluteURL(base, imgs[0].URL), Type: "image/jpeg"}
		}
		items = append(items, item)
	}
	return items
}

func (a *App) renderRSS(c echo.Context, posts []content.Post) error {
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(a.Config.URL),
			Description: a.Config.Description,
			Items:       a.feedItems(posts),
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

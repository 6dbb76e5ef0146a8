package folio

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/viewstate"
)

// Query parameters the state API reads that are not part of the page URL.
const (
	paramWidth = "width"
	paramHover = "hover"
)

// actionRequest is the body of POST /api/state/:action, as JSON or a form.
type actionRequest struct {
	Tag   string `json:"tag" form:"tag"`
	ID    string `json:"id" form:"id"`
	Index int    `json:"index" form:"index"`
}

// actionResponse tells a scripted client where the URL goes next.
type actionResponse struct {
	URL     string            `json:"url"`
	History viewstate.History `json:"history,omitempty"`
	State   viewstate.State   `json:"state"`
}

// pageQuery returns the request query without the width and hover
// parameters. Those describe the client and stay out of generated links.
func pageQuery(c echo.Context) url.Values {
	q := url.Values{}
	for k, v := range c.QueryParams() {
		if k == paramWidth || k == paramHover {
			continue
		}
		q[k] = v
	}
	return q
}

// apiController builds the controller for an API call.
func (a *App) apiController(c echo.Context) *viewstate.Controller {
	ctrl := a.controller(c, pageQuery(c))
	ctrl.Hover(c.QueryParam(paramHover))
	return ctrl
}

func (a *App) handleState(c echo.Context) error {
	ctrl := a.apiController(c)
	return c.JSON(http.StatusOK, ctrl.View("/"))
}

func (a *App) handleStateAction(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	ctrl := a.apiController(c)

	var up viewstate.Update
	switch c.Param("action") {
	case "toggle-tag":
		if req.Tag == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "tag is required")
		}
		if strings.Contains(req.Tag, ",") {
			return echo.NewHTTPError(http.StatusBadRequest, "tag must not contain a comma")
		}
		up = ctrl.ToggleTag(req.Tag)
	case "select-post":
		if req.ID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "id is required")
		}
		up = ctrl.SelectPostID(req.ID)
	case "close":
		up = ctrl.CloseSelection()
	case "select-image":
		up = ctrl.SelectImage(req.Index)
	case "hover":
		ctrl.Hover(req.ID)
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown action")
	}

	return c.JSON(http.StatusOK, actionResponse{
		URL:     ctrl.URL("/"),
		History: up.History,
		State:   ctrl.State(),
	})
}

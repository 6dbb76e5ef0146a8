package folio

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const sessionName = "admin_session"

// routeKind groups request paths by how the middleware stack treats them.
type routeKind int

const (
	routePage routeKind = iota
	routeStatic
	routeFeed
	routeAdmin
	routeAPI
	routeLive
)

func kindOf(path string) routeKind {
	switch {
	case strings.HasPrefix(path, "/public/"), path == "/favicon.svg":
		return routeStatic
	case path == "/sitemap.xml", path == "/feed.xml", path == "/robots.txt":
		return routeFeed
	case strings.HasPrefix(path, "/admin"):
		return routeAdmin
	case strings.HasPrefix(path, "/api/"):
		return routeAPI
	case strings.HasPrefix(path, "/live/"):
		return routeLive
	}
	return routePage
}

func skipKinds(kinds ...routeKind) middleware.Skipper {
	return func(c echo.Context) bool {
		k := kindOf(c.Request().URL.Path)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

// contentSecurityPolicy allows inline scripts for the live reload snippet
// and frames for video embeds.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline'",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' https: data:",
	"connect-src 'self'",
	"frame-src https://player.vimeo.com",
	"media-src 'self' https:",
}, "; ")

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				a.Logger.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
				return nil
			}
			a.Logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level:   5,
		Skipper: skipKinds(routeStatic, routeLive),
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	}))

	if a.Writer != nil {
		e.Use(session.Middleware(a.newSessionStore()))
	}

	// The state API and the live feed change no server data.
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		Skipper:        skipKinds(routeAPI, routeLive),
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			switch kindOf(c.Request().URL.Path) {
			case routeStatic, routeFeed, routeAPI:
				return true
			}
			return c.Request().URL.Path == "/live/status"
		},
	}))

	e.Use(cacheControlMiddleware)
	e.Use(clientHintsMiddleware)
}

var cacheControl = map[routeKind]string{
	routeStatic: "public, max-age=31536000, immutable",
	routeFeed:   "public, max-age=86400",
	routeAdmin:  "no-store",
	routeAPI:    "no-store",
	routeLive:   "no-store",
	// Pages depend on the admin session and the viewport hint.
	routePage: "private, max-age=60",
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", cacheControl[kindOf(c.Request().URL.Path)])
		return next(c)
	}
}

// clientHintsMiddleware asks browsers to send their viewport width, which
// picks the mobile or desktop layout on the server.
func clientHintsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		if path == "/" || strings.HasPrefix(path, "/api/state") {
			h := c.Response().Header()
			h.Set("Accept-CH", strings.Join(viewportHeaders, ", "))
			h.Add("Vary", strings.Join(viewportHeaders, ", "))
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin checks if the current session is authenticated.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, ok := sess.Values["authenticated"].(bool)
	return ok && auth
}

func setAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["authenticated"] = true
	return sess.Save(c.Request(), c.Response())
}

func clearAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

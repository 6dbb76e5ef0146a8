// Package folio is a portfolio site engine built with Go, Echo, and templ.
// It serves tag-filtered project posts with a master-detail view, a bio
// panel, RSS, a sitemap and an admin dashboard.
//
// View state lives in the URL query and is interpreted by the viewstate
// package; templates are supplied through ViewFuncs so sites can replace them.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/views"
)

// ViewFuncs holds the components the handlers render. Nil fields fall back
// to the views package.
type ViewFuncs struct {
	Home           func(page views.HomePage) templ.Component
	Post           func(page views.PostPage) templ.Component
	Bio            func(page views.BioPage) templ.Component
	AdminLogin     func(site views.Site, showError bool, csrfToken string) templ.Component
	AdminDashboard func(page views.AdminPage) templ.Component
	AdminPostForm  func(site views.Site, post content.Post, csrfToken string) templ.Component
	AdminImages    func(site views.Site, images []views.ImageRow, csrfToken string) templ.Component
	NotFound       func(site views.Site) templ.Component
	ServerError    func(site views.Site) templ.Component
}

// DefaultViews returns the built-in components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		Post:           views.Post,
		Bio:            views.Bio,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		AdminPostForm:  views.AdminPostForm,
		AdminImages:    views.AdminImages,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

func (v ViewFuncs) withDefaults() ViewFuncs {
	d := DefaultViews()
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.Bio == nil {
		v.Bio = d.Bio
	}
	if v.AdminLogin == nil {
		v.AdminLogin = d.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = d.AdminDashboard
	}
	if v.AdminPostForm == nil {
		v.AdminPostForm = d.AdminPostForm
	}
	if v.AdminImages == nil {
		v.AdminImages = d.AdminImages
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	return v
}

// App is the central folio application. It wires together the content
// source, cache, handlers, middleware, live updates and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Source content.Source
	// Writer is the Source when it accepts edits; nil disables /admin.
	Writer   content.Writer
	Cache    *PostCache
	Views    ViewFuncs
	Logger   *log.Logger
	Resolver MediaResolver

	hub          *liveHub
	loginLimiter *LoginLimiter
	store        *content.Store
	customRoutes []func(*App)
	staticDir    string
	ready        bool
}

// New creates a folio App with the given configuration and views.
func New(cfg SiteConfig, vf ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     vf.withDefaults(),
		Logger:    log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "folio"}),
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	a.Resolver = MediaResolver{BaseURL: a.Config.MediaBaseURL}
	return a
}

// Setup opens the content source and registers middleware and routes.
// Start calls it; tests call it directly and drive a.Echo.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	validate := a.Config.Validate
	if a.Source != nil {
		validate = a.Config.validateOptions
	}
	if err := validate(); err != nil {
		return fmt.Errorf("folio: %w", err)
	}

	if a.Source == nil {
		if a.Config.ContentDir != "" {
			a.Source = content.NewDir(a.Config.ContentDir, a.Logger.WithPrefix("content"))
		} else {
			store, err := content.NewStore(a.Config.DatabasePath)
			if err != nil {
				return fmt.Errorf("folio: init store: %w", err)
			}
			a.store = store
			a.Source = store
		}
	}
	if w, ok := a.Source.(content.Writer); ok {
		a.Writer = w
		if a.Config.AdminPassword == "" || a.Config.SessionSecret == "" {
			return fmt.Errorf("folio: admin_password and session_secret are required with a writable source")
		}
	}

	a.Cache = NewPostCache(a.Source, a.Config.PostCacheTTL)
	a.hub = newLiveHub(a.Cache.Revision, a.Logger.WithPrefix("live"))
	a.Cache.onChange = a.hub.broadcast
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start runs the HTTP server, the live content subscription and the
// websocket hub until ctx is cancelled or one of them fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.Cache.Run(gctx); err != nil {
			return fmt.Errorf("content subscription: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		a.hub.run(gctx)
		return nil
	})
	g.Go(func() error {
		a.Logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/work/", handleWorkRedirect)
	e.GET("/work/:slug/", a.handlePost)
	e.GET("/bio/", a.handleBio)

	e.GET("/api/state", a.handleState)
	e.POST("/api/state/:action", a.handleStateAction)
	e.GET("/live/", a.handleLive)
	e.GET("/live/status", a.liveStatus)

	if a.Writer == nil {
		return
	}
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/new/", a.handleAdminNew)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/post/:slug/delete/", a.handleAdminDelete)
	e.POST("/admin/bio/", a.handleAdminBio)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.POST("/admin/images/:asset/delete/", a.handleImageDelete)
}

// Close releases the store and background workers. Call it on shutdown.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

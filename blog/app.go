// Package blog is a small blog site with user registration, login, and
// comments, built with Echo, gorilla sessions, and SQLite.
//
// Users provide their own templ templates via the ViewFuncs struct; the
// package owns handler logic, middleware, and database operations.
package blog

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ViewFuncs holds user-provided templ components that the handlers call
// when rendering pages.
type ViewFuncs struct {
	Home     func(user *User, posts []BlogPost, flashes []string) templ.Component
	Post     func(user *User, post *BlogPost, comments []Comment, flashes []string, csrfToken string) templ.Component
	About    func(user *User) templ.Component
	Contact  func(user *User) templ.Component
	Login    func(user *User, flashes []string, csrfToken string) templ.Component
	Register func(user *User, flashes []string, csrfToken string) templ.Component
	MakePost func(user *User, post BlogPost, isEdit bool, flashes []string, csrfToken string) templ.Component
	Images   func(user *User, images []Image, csrfToken string) templ.Component

	Forbidden   func() templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the blog application. It wires together the store, handlers,
// middleware, and user-provided templates.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	staticDir    string
}

// New creates a blog App with the given configuration and view functions.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the store, middleware, and routes, and starts the server.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("blog: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("blog: init store: %w", err)
	}
	a.Store = store

	a.loginLimiter = NewLoginLimiter(5, loginWindow)

	a.setupMiddleware()
	a.setupRoutes()

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/post/:id", a.handleShowPost)
	e.POST("/post/:id", a.handleShowPost)
	e.GET("/about", a.handleAbout)
	e.GET("/contact", a.handleContact)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)

	// Authentication
	e.GET("/login", a.handleLogin)
	e.POST("/login", a.handleLogin)
	e.GET("/register", a.handleRegister)
	e.POST("/register", a.handleRegister)
	e.GET("/logout", a.handleLogout)

	// Admin-only content management
	e.GET("/create_post", a.handleCreatePost, a.requireAdmin)
	e.POST("/create_post", a.handleCreatePost, a.requireAdmin)
	e.GET("/edit/:id", a.handleEditPost, a.requireAdmin)
	e.POST("/edit/:id", a.handleEditPost, a.requireAdmin)
	e.GET("/delete/:id", a.handleDeletePost, a.requireAdmin)
	e.GET("/images", a.handleImageList, a.requireAdmin)
	e.POST("/images/upload", a.handleImageUpload, a.requireAdmin)
	e.POST("/images/delete/:filename", a.handleImageDelete, a.requireAdmin)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

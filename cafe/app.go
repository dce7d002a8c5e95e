// Package cafe is a cafe-directory JSON API backed by SQLite, with
// search, add, update, and delete operations.
package cafe

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds all configuration for the cafe API.
type Config struct {
	Addr         string // Listen address (default ":5000")
	DatabasePath string // SQLite path (default "data/cafes.db")
	APIKey       string // Shared secret for /report_closed (default "TopSecretAPIKey")
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/cafes.db"
	}
	if c.APIKey == "" {
		c.APIKey = "TopSecretAPIKey"
	}
}

// ViewFuncs holds the templ components the API renders. Only the landing
// page is HTML; everything else is JSON.
type ViewFuncs struct {
	Home func() templ.Component
}

// App is the cafe directory application.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Views  ViewFuncs
}

// New creates a cafe App with the given configuration and view functions.
func New(cfg Config, views ViewFuncs) *App {
	cfg.setDefaults()
	return &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
}

// Start initializes the store, middleware, and routes, and starts the server.
func (a *App) Start() error {
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("cafe: init store: %w", err)
	}
	a.Store = store

	a.setupMiddleware()
	a.setupRoutes()

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handleHome)
	e.GET("/random", a.handleRandom)
	e.GET("/all", a.handleAll)
	e.GET("/search", a.handleSearch)
	e.POST("/add", a.handleAdd)
	e.PATCH("/update-price/:id", a.handleUpdatePrice)
	e.DELETE("/report_closed/:id", a.handleReportClosed)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func render(c echo.Context, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

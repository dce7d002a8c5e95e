package blog

// Config holds all configuration for the blog site.
type Config struct {
	Name string // Site name (default "Daily Grind")
	URL  string // Canonical URL (default "http://localhost:3000")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/blog.db")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	HashIterations int // pbkdf2 iteration count (default 600000)
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Daily Grind"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.HashIterations == 0 {
		c.HashIterations = defaultHashIterations
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithStaticDir sets the directory for static assets and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

package main

import (
	"context"
	"crypto/rand"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"filippo.io/csrf/gorilla"
	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/cache"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/dashboard"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/sections"
	"github.com/Zachkp/portfolio/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := session.OpenDB(cfg.SessionDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	sessions := session.NewManager(session.New(db, cfg.SessionLifetime, cfg.IsDevelopment()))

	store, shared, err := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
	})
	if err != nil {
		slog.Warn("redis unavailable, caching in memory", "error", err)
	}
	defer func() { _ = store.Close() }()
	slog.Info("collection cache ready", "redis", shared, "ttl", cfg.CacheTTL)

	client := api.New(cfg.APIURL, sessions,
		api.WithTimeout(cfg.APITimeout),
		api.WithCache(store, cfg.CacheTTL),
	)
	notifier := notify.New(notify.Options{
		Owner:        cfg.OwnerEmail,
		From:         cfg.MailFrom,
		ResendAPIKey: cfg.ResendAPIKey,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     strconv.Itoa(cfg.SMTPPort),
		SMTPUser:     cfg.SMTPUser,
		SMTPPass:     cfg.SMTPPass,
	})

	srv, err := newServer(cfg, sessions, client, notifier, clock.New())
	if err != nil {
		return err
	}

	jobs, err := startJobs(cfg, client, srv)
	if err != nil {
		return err
	}
	defer func() { <-jobs.Stop().Done() }()

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpServer.Addr, "admin", cfg.AdminRoute(), "env", cfg.Env)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// server holds everything the HTTP handlers share.
type server struct {
	cfg       *config.Config
	sessions  *session.Manager
	client    *api.Client
	sections  *sections.Service
	desk      *contact.Desk
	auth      *auth.Service
	throttle  *auth.Throttle
	consoles  *dashboard.Registry
	templates *template.Template
	salt      []byte
}

func newServer(cfg *config.Config, sessions *session.Manager, client *api.Client, notifier contact.Notifier, clk clock.Clock) (*server, error) {
	funcs := sections.Funcs(content.AssetBase(cfg.APIURL))
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	return &server{
		cfg:       cfg,
		sessions:  sessions,
		client:    client,
		sections:  sections.NewService(client),
		desk:      contact.NewDesk(client, notifier, clk, cfg.ContactSubject),
		auth:      auth.NewService(client, sessions, cfg.AdminRoute()),
		throttle:  auth.NewThrottle(cfg.LoginRate, cfg.LoginBurst),
		consoles:  dashboard.NewRegistry(client.Admin(), clk),
		templates: tmpl,
		salt:      salt,
	}, nil
}

// handler is the full middleware stack: sessions outermost, then CSRF, then gin.
func (s *server) handler() http.Handler {
	var opts []csrf.Option
	opts = append(opts, csrf.ErrorHandler(http.HandlerFunc(csrfFailed)))
	if s.cfg.IsDevelopment() {
		host := "localhost" + s.cfg.Addr()
		opts = append(opts, csrf.TrustedOrigins([]string{host, "127.0.0.1" + s.cfg.Addr()}))
	}
	protect := csrf.Protect([]byte(s.cfg.CSRFKey), opts...)
	return s.sessions.LoadAndSave(protect(s.routes()))
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("CSRF validation failed",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())
	r.SetHTMLTemplate(s.templates)

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Home page route
	r.GET("/", func(c *gin.Context) {
		pending := make([]sections.Result, len(sections.All))
		for i, sec := range sections.All {
			pending[i] = sections.Pending(sec)
		}
		c.HTML(http.StatusOK, "index.html", gin.H{
			"headline":     Headline,
			"tagline":      Tagline,
			"aboutHeading": AboutHeading,
			"about":        AboutMe,
			"skills":       Skills,
			"nav":          NavLinks,
			"contact":      ContactHeading,
			"sections":     pending,
		})
	})

	// One public section, loaded by the page once it is shown
	r.GET("/sections/:kind", func(c *gin.Context) {
		sec, ok := sections.Lookup(c.Param("kind"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown section"})
			return
		}
		c.HTML(http.StatusOK, "section.html", s.sections.Load(c.Request.Context(), sec))
	})

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		form := s.desk.Form(s.sessions.ClientID(c.Request.Context()))
		c.HTML(http.StatusOK, "contact.html", form.View())
	})

	// Handle contact form submission with HTMX
	r.POST("/contact", func(c *gin.Context) {
		form := s.desk.Form(s.sessions.ClientID(c.Request.Context()))
		err := form.Submit(c.Request.Context(), content.ContactSubmission{
			Name:    c.PostForm("name"),
			Email:   c.PostForm("email"),
			Subject: c.PostForm("subject"),
			Message: c.PostForm("message"),
		})
		switch {
		case errors.Is(err, contact.ErrBusy):
			c.HTML(http.StatusTooManyRequests, "contact.html", form.View())
		case err != nil:
			slog.Warn("contact message rejected", "error", err)
			c.HTML(http.StatusOK, "contact-error.html", form.View())
		default:
			c.HTML(http.StatusOK, "contact-success.html", form.View())
		}
	})

	r.GET("/cv", func(c *gin.Context) {
		if _, err := os.Stat(s.cfg.CVPath); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "CV not available"})
			return
		}
		c.FileAttachment(s.cfg.CVPath, "cv.pdf")
	})

	s.setupAdminRoutes(r)
	return r
}

// admin.go - login, sign-out and the guarded admin console
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/dashboard"
)

const loginPath = "/login"

const (
	// maxFormSize bounds a console form post: one image plus the text fields.
	maxFormSize   = content.MaxUploadSize + 1<<20
	maxFormMemory = 8 << 20
)

const (
	emptyPasswordMessage = "Please enter the admin password."
	throttledMessage     = "Too many login attempts. Try again in a minute."
)

// panel is what dashboard.html and panel.html render.
type panel struct {
	dashboard.View
	Base string
}

// Hash IP address for privacy (consistent per IP for the process lifetime)
func (s *server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip))
	hash.Write(s.salt)
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// console returns the console of the requesting browser session.
func (s *server) console(c *gin.Context) (*dashboard.Console, bool) {
	return s.consoles.Get(s.sessions.ClientID(c.Request.Context()))
}

func (s *server) panel(con *dashboard.Console) panel {
	return panel{View: con.View(), Base: s.cfg.AdminRoute()}
}

// denied handles a rejected admin token: the session is cleared, the console dropped and
// the browser sent back to login. It reports whether err was such a rejection.
func (s *server) denied(c *gin.Context, err error) bool {
	if !errors.Is(err, api.ErrAuthorizationDenied) {
		return false
	}
	ctx := c.Request.Context()
	if err := s.auth.Logout(ctx); err != nil {
		slog.Error("clearing rejected session", "error", err)
	}
	s.consoles.Drop(s.sessions.ClientID(ctx))
	slog.Warn("admin token rejected, signing out", "client", s.hashIP(c.ClientIP()))
	auth.Redirect(c, auth.LoginURL(loginPath, s.cfg.AdminRoute()))
	c.Abort()
	return true
}

// consoleAction runs fn against the session's console and re-renders the panel.
func (s *server) consoleAction(fn func(ctx context.Context, c *gin.Context, con *dashboard.Console) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		con, _ := s.console(c)
		err := fn(c.Request.Context(), c, con)
		if s.denied(c, err) {
			return
		}
		if err != nil && !errors.Is(err, dashboard.ErrSuperseded) {
			slog.Warn("console action failed", "path", c.FullPath(), "error", err)
		}
		c.HTML(http.StatusOK, "panel.html", s.panel(con))
	}
}

// readUpload returns the file posted as field, or nil when the form carries none. It
// reads one byte past the limit so the console can refuse oversized files.
func readUpload(c *gin.Context, field string) (*content.Upload, error) {
	if field == "" {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, content.MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	return content.NewUpload(fh.Filename, fh.Header.Get("Content-Type"), data), nil
}

func (s *server) renderLogin(c *gin.Context, status int, next, msg string) {
	c.HTML(status, "admin-login.html", gin.H{
		"title": "Admin Login",
		"next":  next,
		"error": msg,
	})
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	base := s.cfg.AdminRoute()

	// Admin login page
	r.GET(loginPath, func(c *gin.Context) {
		next := c.Query("next")
		if _, ok := s.sessions.Get(c.Request.Context()); ok {
			c.Redirect(http.StatusFound, s.auth.Destination(next))
			return
		}
		s.renderLogin(c, http.StatusOK, next, "")
	})

	// Admin login handler
	r.POST(loginPath, func(c *gin.Context) {
		ctx := c.Request.Context()
		next := c.PostForm("next")
		ip := c.ClientIP()
		client := s.sessions.ClientID(ctx)

		var err error
		if !s.throttle.Allow(ip) {
			err = auth.ErrThrottled
		} else {
			err = s.auth.Login(ctx, client, c.PostForm("password"))
		}

		if err != nil {
			slog.Warn("failed admin login attempt", "client", s.hashIP(ip), "error", err)
			msg := api.Message(err, api.LoginFallback)
			switch {
			case errors.Is(err, auth.ErrEmptyPassword):
				msg = emptyPasswordMessage
			case errors.Is(err, auth.ErrThrottled):
				msg = throttledMessage
			}
			s.renderLogin(c, http.StatusUnauthorized, next, msg)
			return
		}

		s.consoles.Drop(client)
		slog.Info("admin login successful", "client", s.hashIP(ip))
		auth.Redirect(c, s.auth.Destination(next))
	})

	// Admin logout
	r.POST("/logout", func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := s.auth.Logout(ctx); err != nil {
			slog.Error("admin logout", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
			return
		}
		s.consoles.Drop(s.sessions.ClientID(ctx))
		slog.Info("admin logout", "client", s.hashIP(c.ClientIP()))
		auth.Redirect(c, loginPath)
	})

	// Protected admin routes group
	adminGroup := r.Group(base)
	adminGroup.Use(auth.RequireSession(s.sessions, loginPath))

	// Admin dashboard, always loaded fresh on entry
	adminGroup.GET("", func(c *gin.Context) {
		con, _ := s.console(c)
		err := con.Refresh(c.Request.Context())
		if s.denied(c, err) {
			return
		}
		if err != nil && !errors.Is(err, dashboard.ErrSuperseded) {
			slog.Warn("loading dashboard", "error", err)
		}
		c.HTML(http.StatusOK, "dashboard.html", s.panel(con))
	})

	adminGroup.POST("/refresh", s.consoleAction(func(ctx context.Context, _ *gin.Context, con *dashboard.Console) error {
		return con.Refresh(ctx)
	}))

	adminGroup.GET("/tab/:kind", func(c *gin.Context) {
		kind, err := content.ParseKind(c.Param("kind"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.consoleAction(func(ctx context.Context, _ *gin.Context, con *dashboard.Console) error {
			return con.SwitchTab(ctx, kind)
		})(c)
	})

	adminGroup.GET("/search", s.consoleAction(func(_ context.Context, c *gin.Context, con *dashboard.Console) error {
		con.SetSearch(c.Query("q"))
		return nil
	}))

	adminGroup.POST("/items", s.consoleAction(func(ctx context.Context, c *gin.Context, con *dashboard.Console) error {
		field := con.View().Schema.Upload
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormSize)
		if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				con.Reject(content.UploadTooLarge(field))
			}
			return err
		}
		values := make(map[string]string, len(c.Request.PostForm))
		for name := range c.Request.PostForm {
			values[name] = c.Request.PostForm.Get(name)
		}
		image, err := readUpload(c, field)
		if err != nil {
			return err
		}
		return con.Submit(ctx, values, image)
	}))

	adminGroup.GET("/items/:id/edit", s.consoleAction(func(_ context.Context, c *gin.Context, con *dashboard.Console) error {
		return con.Edit(c.Param("id"))
	}))

	adminGroup.POST("/edit/cancel", s.consoleAction(func(_ context.Context, _ *gin.Context, con *dashboard.Console) error {
		con.CancelEdit()
		return nil
	}))

	adminGroup.POST("/items/:id/delete", s.consoleAction(func(_ context.Context, c *gin.Context, con *dashboard.Console) error {
		kind, err := content.ParseKind(c.DefaultPostForm("kind", string(con.View().Tab)))
		if err != nil {
			return err
		}
		return con.RequestDelete(kind, c.Param("id"))
	}))

	adminGroup.POST("/delete/confirm", s.consoleAction(func(ctx context.Context, _ *gin.Context, con *dashboard.Console) error {
		return con.ConfirmDelete(ctx)
	}))

	adminGroup.POST("/delete/cancel", s.consoleAction(func(_ context.Context, _ *gin.Context, con *dashboard.Console) error {
		con.CancelDelete()
		return nil
	}))

	adminGroup.POST("/messages/:id/reply/toggle", s.consoleAction(func(_ context.Context, c *gin.Context, con *dashboard.Console) error {
		con.ToggleReply(c.Param("id"))
		return nil
	}))

	adminGroup.POST("/messages/:id/reply", s.consoleAction(func(ctx context.Context, c *gin.Context, con *dashboard.Console) error {
		return con.SendReply(ctx, c.Param("id"), c.PostForm("reply"))
	}))
}

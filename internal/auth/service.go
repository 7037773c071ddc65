// Package auth implements the admin login flow and the route guard in front of the
// admin console.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/Zachkp/portfolio/internal/session"
)

var (
	ErrEmptyPassword = errors.New("password is required")
	ErrThrottled     = errors.New("too many login attempts")
)

// Authenticator exchanges the admin password for a session token.
type Authenticator interface {
	Login(ctx context.Context, password string) (string, error)
}

// Service is the only writer of the session token besides sign-out and the 401 handler.
type Service struct {
	api        Authenticator
	store      session.Store
	adminRoute string
	group      singleflight.Group
}

func NewService(a Authenticator, store session.Store, adminRoute string) *Service {
	return &Service{api: a, store: store, adminRoute: adminRoute}
}

// AdminRoute is where a successful login lands by default.
func (s *Service) AdminRoute() string { return s.adminRoute }

// Login exchanges password for a token and stores it in the session of ctx.
//
// Submits sharing key (the browser session) while one is outstanding wait for that
// request instead of sending their own. A failed login leaves any earlier token alone.
func (s *Service) Login(ctx context.Context, key, password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}

	// Duplicates share the outcome of the first submit, whatever password they carried.
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.api.Login(context.WithoutCancel(ctx), password)
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := s.store.Set(ctx, v.(string)); err != nil {
		return fmt.Errorf("storing session token: %w", err)
	}
	return nil
}

// Logout removes the token of the session in ctx.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Destination is where to send the browser after login: next when it is a local path
// inside the admin area, the admin route otherwise.
func (s *Service) Destination(next string) string {
	if isLocalPath(next) && (next == s.adminRoute || strings.HasPrefix(next, s.adminRoute+"/") || strings.HasPrefix(next, s.adminRoute+"?")) {
		return next
	}
	return s.adminRoute
}

// LoginURL is the login page with next remembered for the post-login bounce.
func LoginURL(loginPath, next string) string {
	if !isLocalPath(next) {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(next)
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

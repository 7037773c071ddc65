package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/session"
)

// RequireSession lets a request through only while its session holds a token. The
// session is read on every request.
func RequireSession(store session.Store, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := store.Get(c.Request.Context()); ok {
			c.Next()
			return
		}
		Redirect(c, LoginURL(loginPath, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// Redirect sends the browser to location. htmx requests get an HX-Redirect header so
// the whole page navigates instead of swapping the login page into a fragment.
func Redirect(c *gin.Context, location string) {
	if IsHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusFound, location)
}

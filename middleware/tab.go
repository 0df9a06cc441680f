package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TabHeader    = "X-Tab-ID"
	TabCookie    = "tab_id"
	TabKey       = "tabID"
	tabMaxLen    = 128
	tabCookieTTL = 24 * time.Hour
)

// TabIdentity resolves the browsing tab a request belongs to, from the
// X-Tab-ID header or the tab_id cookie. A request without one starts a new
// tab. The id is echoed back in both places.
func TabIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		tab := c.GetHeader(TabHeader)
		if tab == "" {
			tab, _ = c.Cookie(TabCookie)
		}
		if tab == "" || len(tab) > tabMaxLen {
			tab = uuid.Must(uuid.NewV7()).String()
		}

		c.Set(TabKey, tab)
		c.Header(TabHeader, tab)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(TabCookie, tab, int(tabCookieTTL.Seconds()), "/", "", false, true)
		c.Next()
	}
}

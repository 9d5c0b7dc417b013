package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// wildcardOrigin matches exactly one subdomain label under suffix,
// e.g. "https://*.example.com" matches "https://app.example.com".
type wildcardOrigin struct {
	scheme string
	suffix string
}

// parseWildcardOrigin returns nil unless pattern is "<scheme>://*.<domain>.<tld>"
func parseWildcardOrigin(pattern string) *wildcardOrigin {
	schemeEnd := strings.Index(pattern, "://")
	if schemeEnd < 0 {
		return nil
	}
	scheme := pattern[:schemeEnd+3]
	host := pattern[schemeEnd+3:]

	if !strings.HasPrefix(host, "*.") || strings.Count(host, "*") != 1 {
		return nil
	}
	suffix := host[1:]
	// at least "<domain>.<tld>" after the wildcard label
	if strings.Count(suffix, ".") < 2 {
		return nil
	}
	return &wildcardOrigin{scheme: scheme, suffix: suffix}
}

func (w *wildcardOrigin) matches(origin string) bool {
	if !strings.HasPrefix(origin, w.scheme) {
		return false
	}
	host := strings.TrimPrefix(origin, w.scheme)
	if !strings.HasSuffix(host, w.suffix) {
		return false
	}
	label := strings.TrimSuffix(host, w.suffix)
	return label != "" && !strings.ContainsAny(label, "./:")
}

// CORS middleware to handle cross-origin requests from the chart UI.
// An empty origin list allows every origin. Entries may be exact origins
// or single-label wildcards such as "https://*.fitlens.app".
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0

	exact := make(map[string]bool)
	var wildcards []*wildcardOrigin
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if w := parseWildcardOrigin(origin); w != nil {
			wildcards = append(wildcards, w)
			continue
		}
		exact[origin] = true
	}

	isAllowed := func(origin string) bool {
		if exact[origin] {
			return true
		}
		for _, w := range wildcards {
			if w.matches(origin) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if isAllowed(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		} else if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

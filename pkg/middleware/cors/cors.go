package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowHeaders  = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowMethods  = "GET, POST, PUT, OPTIONS"
	exposeHeaders = "Content-Disposition, X-Request-ID"
)

type policy struct {
	origins map[string]struct{}
}

// New returns a CORS middleware for the allowed origins. An empty list allows any
// origin without credentials.
func New(allowedOrigins []string) gin.HandlerFunc {
	p := policy{}
	if len(allowedOrigins) > 0 {
		p.origins = make(map[string]struct{}, len(allowedOrigins))
		for _, origin := range allowedOrigins {
			p.origins[normalize(origin)] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if allowed := p.allowOrigin(c.GetHeader("Origin")); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
		}
		h.Set("Vary", "Origin")
		if p.origins != nil {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Expose-Headers", exposeHeaders)
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// allowOrigin returns the Access-Control-Allow-Origin value, or "" to omit it.
func (p policy) allowOrigin(origin string) string {
	if p.origins == nil {
		if origin == "" {
			return "*"
		}
		return origin
	}
	if _, ok := p.origins[normalize(origin)]; ok && origin != "" {
		return origin
	}
	return ""
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}

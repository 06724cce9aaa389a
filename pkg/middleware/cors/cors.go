package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Policy is the origin allow-list shared by the HTTP surface and the push
// channel handshake. An empty list admits every origin.
type Policy struct {
	allowAll  bool
	originSet map[string]struct{}
}

// NewPolicy builds a Policy from configured origins.
func NewPolicy(allowedOrigins []string) *Policy {
	p := &Policy{
		allowAll:  len(allowedOrigins) == 0,
		originSet: make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		p.originSet[strings.TrimRight(origin, "/")] = struct{}{}
	}
	return p
}

// Allowed reports whether the origin may talk to the API.
func (p *Policy) Allowed(origin string) bool {
	if p == nil || p.allowAll {
		return true
	}
	_, ok := p.originSet[strings.TrimRight(origin, "/")]
	return ok
}

// New returns a simple CORS middleware that honors a list of allowed origins.
func New(allowedOrigins []string) gin.HandlerFunc {
	return NewPolicy(allowedOrigins).Middleware()
}

// Middleware renders the policy as gin middleware.
func (p *Policy) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if p.Allowed(origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			}
		} else if p.allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

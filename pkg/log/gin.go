package log

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// quietPaths are probed constantly and only logged at debug.
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// GinMiddleware tags every request with an ID, stores a child logger in
// the request context and writes one access line when the handler returns.
// Handlers may set FieldSource and FieldUserID on the gin context to have
// them included in that line.
func GinMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Header(HeaderRequestID, reqID)

		child := logger.With().
			Str(FieldRequestID, reqID).
			Str(FieldMethod, c.Request.Method).
			Str(FieldPath, c.Request.URL.Path).
			Logger()

		ctx := WithRequestID(WithLogger(c.Request.Context(), child), reqID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		evt := child.WithLevel(accessLevel(c.Request.URL.Path, status)).
			Int(FieldStatus, status).
			Float64(FieldLatency, float64(time.Since(start).Microseconds())/1000).
			Str(FieldClientIP, c.ClientIP())

		for _, key := range []string{FieldSource, FieldUserID} {
			if s := c.GetString(key); s != "" {
				evt = evt.Str(key, s)
			}
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}

		evt.Msg("request completed")
	}
}

func accessLevel(path string, status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400 && status != 404:
		return zerolog.WarnLevel
	}
	if _, ok := quietPaths[path]; ok {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

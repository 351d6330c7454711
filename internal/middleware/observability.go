package middleware

import (
  "strconv"
  "time"

  "github.com/gin-gonic/gin"

  "github.com/structa/structa-backend/internal/observability"
)

// RequestMetrics records per-route request counts, latency, and in-flight
// gauge. The templated route path keeps the label cardinality bounded.
func RequestMetrics() gin.HandlerFunc {
  return func(c *gin.Context) {
    if !observability.Enabled() {
      c.Next()
      return
    }
    m := observability.Current()
    start := time.Now()
    m.ApiInflightInc()
    c.Next()
    m.ApiInflightDec()

    route := c.FullPath()
    if route == "" {
      route = "unmatched"
    }
    m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
  }
}

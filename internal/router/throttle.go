package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ThrottledMessage is the plain text body of a rejected trigger.
const ThrottledMessage = "Too many pipeline runs, try again later."

// NewTriggerLimiter allows perMinute runs per minute with a burst of the same size.
func NewTriggerLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// Throttle queues requests until the limiter admits them. A request whose
// context ends while waiting is rejected with 429.
func Throttle(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := limiter.Wait(c.Request.Context()); err != nil {
			c.Abort()
			c.String(http.StatusTooManyRequests, ThrottledMessage)
			return
		}
		c.Next()
	}
}

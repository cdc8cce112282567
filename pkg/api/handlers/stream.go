package handlers

import (
	"log"
	"net/http"
	"time"

	"deal-notifier-go/pkg/events"
	"deal-notifier-go/pkg/services"

	"github.com/gin-gonic/gin"
)

// StreamRun replays the capture as a server-sent event stream, one data
// frame per event. ?force=true marks the run as forced.
func StreamRun(service *services.ReplayService) gin.HandlerFunc {
	return func(c *gin.Context) {
		force := c.Query("force") == "true"
		evs := service.Events(force)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)
		c.Writer.Flush()

		ctx := c.Request.Context()
		for i, ev := range evs {
			if i > 0 && service.Interval() > 0 {
				select {
				case <-ctx.Done():
					log.Printf("replay: client left after %d of %d events", i, len(evs))
					return
				case <-time.After(service.Interval()):
				}
			}

			data, err := events.Encode(ev)
			if err != nil {
				log.Printf("replay: skipping event %d: %v", i, err)
				continue
			}
			c.SSEvent("message", string(data))
			c.Writer.Flush()
		}
	}
}

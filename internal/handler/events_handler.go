package handler

import (
	"io"

	"cartshare/backend/internal/auth"
	"cartshare/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

// StreamEvents streams the viewer's notifications over SSE. Best effort
// only: a dropped or missed event is recovered by re-polling the list
// endpoints, never replayed here.
func StreamEvents(c *gin.Context) {
	viewerID, _ := c.Get(auth.ContextUserIDKey)

	client := make(hub.Client, 16)
	notifier.Subscribe(viewerID.(uint), client)
	defer notifier.Unsubscribe(viewerID.(uint), client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

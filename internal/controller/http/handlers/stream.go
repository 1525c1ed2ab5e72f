package handlers

import (
	"net/http"

	"mebelmarket/internal/stream"

	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	hub *stream.Hub
}

func NewStreamHandler(hub *stream.Hub) StreamHandler {
	return StreamHandler{hub: hub}
}

// Subscribe serves the live order event stream. The connection stays open
// until the client disconnects or the hub shuts down; frames arrive already
// serialized in SSE format.
func (h *StreamHandler) Subscribe(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, response{Success: false, Error: "streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	if _, err := c.Writer.WriteString(stream.RetryPreamble); err != nil {
		return
	}
	flusher.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-sub.Frames():
			if !ok {
				return
			}
			if _, err := c.Writer.Write(frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

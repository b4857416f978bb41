package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/tuber-treats/dispatch"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type DispatchController struct {
	Hub *dispatch.Hub
}

func NewDispatchController(hub *dispatch.Hub) *DispatchController {
	return &DispatchController{Hub: hub}
}

// Connect -> endpoint WebSocket. ?screen=name labels the client in logs.
func (dc *DispatchController) Connect(c *gin.Context) {
	screen := c.DefaultQuery("screen", "dispatch")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	dc.Hub.Register(ws, screen)

	// Baca pesan sampai client disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	dc.Hub.Unregister(ws)
}

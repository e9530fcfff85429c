package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a connection to a challenge room and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, challengeID, userID string) {
	client := &Client{Hub: hub, Conn: c, ChallengeID: challengeID, UserID: userID, Send: make(chan []byte, sendBuffer)}
	if !hub.join(client) {
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		return
	}

	go client.writePump()
	client.readPump()
}

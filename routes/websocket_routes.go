package routes

import (
	hub "github.com/anjiri1684/medicamp/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func WebsocketRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/camp-events", websocket.New(func(conn *websocket.Conn) {
		client := &hub.Client{Email: conn.Query("email"), Conn: conn}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}

package websocket

import (
	"log"
	"sync"

	"github.com/anjiri1684/medicamp/database"
	"github.com/anjiri1684/medicamp/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const (
	EventRegistered = "registered"
	EventCancelled  = "cancelled"
	EventPaid       = "paid"
	EventConfirmed  = "confirmed"
)

type Client struct {
	Email string
	Conn  *websocket.Conn
}

// CampEvent is pushed to dashboard clients whenever a registration changes a
// camp's state, carrying the counter as committed by the ledger.
type CampEvent struct {
	CampID           string `json:"camp_id"`
	Type             string `json:"type"`
	ParticipantCount int    `json:"participant_count"`
}

var clients = make(map[*websocket.Conn]string)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan CampEvent, 32)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Dashboard client connected: %s", client.Email)
			clientsMu.Lock()
			clients[client.Conn] = client.Email
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Dashboard client disconnected: %s", client.Email)
			clientsMu.Lock()
			delete(clients, client.Conn)
			clientsMu.Unlock()
		case event := <-Broadcast:
			var stale []*websocket.Conn
			clientsMu.RLock()
			for conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing camp event to client: %v", err)
					conn.Close()
					stale = append(stale, conn)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, conn := range stale {
					delete(clients, conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// PublishCampEvent reads the committed counter and queues a broadcast.
// Non-blocking: a full queue drops the event, the dashboards refetch anyway.
func PublishCampEvent(campID uuid.UUID, eventType string) {
	var camp models.Camp
	if err := database.DB.First(&camp, "id = ?", campID).Error; err != nil {
		log.Printf("Error loading camp %s for event broadcast: %v", campID, err)
		return
	}

	event := CampEvent{
		CampID:           campID.String(),
		Type:             eventType,
		ParticipantCount: camp.ParticipantCount,
	}
	select {
	case Broadcast <- event:
	default:
	}
}

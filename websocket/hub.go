package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"yoga_studio_backend/models"
)

// Event is one entry on the admin live feed.
type Event struct {
	Type        string          `json:"type"` // booking.created | booking.cancelled
	StudentName string          `json:"student_name"`
	Booking     *models.Booking `json:"booking"`
}

var clients = make(map[*websocket.Conn]bool)
var clientsMu sync.RWMutex
var Register = make(chan *websocket.Conn)
var Unregister = make(chan *websocket.Conn)
var Broadcast = make(chan Event, 16)

// RunHub fans booking events out to every connected admin dashboard.
func RunHub() {
	for {
		select {
		case conn := <-Register:
			log.Println("Admin feed client connected")
			clientsMu.Lock()
			clients[conn] = true
			clientsMu.Unlock()
		case conn := <-Unregister:
			log.Println("Admin feed client disconnected")
			clientsMu.Lock()
			delete(clients, conn)
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			var dead []*websocket.Conn
			for conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error writing to admin feed client: %v", err)
					conn.Close()
					dead = append(dead, conn)
				}
			}
			clientsMu.RUnlock()
			if len(dead) > 0 {
				clientsMu.Lock()
				for _, conn := range dead {
					delete(clients, conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// BroadcastBooking pushes an event without blocking the booking flow; a full
// feed drops the event.
func BroadcastBooking(eventType string, booking *models.Booking, studentName string) {
	select {
	case Broadcast <- Event{Type: eventType, StudentName: studentName, Booking: booking}:
	default:
		log.Println("⚠️ Admin feed buffer full, dropping event")
	}
}

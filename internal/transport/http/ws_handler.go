package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"quiz-ladders/internal/board"
	"quiz-ladders/internal/ui"
)

// ClientResolver finds the store bound to a request.
type ClientResolver interface {
	Client(w http.ResponseWriter, r *http.Request) *ui.Store
}

type WSHandler struct {
	clients  ClientResolver
	upgrader websocket.Upgrader
}

func NewWSHandler(clients ClientResolver) *WSHandler {
	return &WSHandler{
		clients: clients,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type statePayload struct {
	View ui.View `json:"view"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS streams marker frames and state changes of the caller's store, and accepts the
// board geometry measured by the page.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	store := h.clients.Client(w, r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := store.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					// store swept: drop the connection so the read loop ends
					_ = conn.Close()
					return
				}
				select {
				case send <- toOutbound(ev):
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		store.Touch()
		switch inbound.Type {
		case "geometry":
			var g board.Geometry
			if err := json.Unmarshal(inbound.Payload, &g); err != nil {
				h.reply(send, writerDone, "invalid geometry payload")
				continue
			}
			store.SetGeometry(g)
		default:
			h.reply(send, writerDone, "unsupported message type")
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func (h *WSHandler) reply(send chan<- outboundMessage[any], writerDone <-chan struct{}, message string) {
	select {
	case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}:
	case <-writerDone:
	}
}

func toOutbound(ev ui.Event) outboundMessage[any] {
	if ev.Type == ui.EventFrame {
		return outboundMessage[any]{Type: string(ui.EventFrame), Payload: ev.Frame}
	}
	return outboundMessage[any]{Type: string(ui.EventState), Payload: statePayload{View: ev.View}}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/haodang/chatpdf-be/types"
)

// WebSocketService serves the ask pipeline over a persistent
// connection, for clients that want answers without polling.
type WebSocketService struct {
	qa       *QAService
	upgrader websocket.Upgrader
}

func NewWebSocketService(qa *QAService) *WebSocketService {
	return &WebSocketService{
		qa: qa,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

// HandleAsk upgrades the request and answers ask messages against the
// given session until the client disconnects.
func (s *WebSocketService) HandleAsk(w http.ResponseWriter, r *http.Request, session *Session) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, "Error processing message")
			log.Println("Unmarshal error:", err)
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			pongRes := types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				log.Println("Write error:", err)
			}

		case types.TypeWebsocketAsk:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "Error processing message")
				log.Println("Marshal error:", err)
				continue
			}
			var payload types.WebSocketAskPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, "Error processing message")
				log.Println("Unmarshal error:", err)
				continue
			}

			res, err := s.qa.Ask(ctx, session, payload.Question)
			if err != nil {
				s.writeError(conn, askErrorMessage(err))
				log.Println("Ask error:", err)
				continue
			}
			out := types.WebSocketResponse{
				Type:    types.TypeWebsocketAsk,
				Payload: res,
			}
			if err := conn.WriteJSON(out); err != nil {
				log.Println("Write error:", err)
			}

		default:
			log.Println("Invalid message type:", req.Type)
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	res := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Message: message},
	}
	if err := conn.WriteJSON(res); err != nil {
		log.Println("Write error:", err)
	}
}

// askErrorMessage maps pipeline errors to user-facing messages, shared
// with the HTTP ask handler.
func askErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoDocument):
		return "Please upload a PDF before asking questions."
	case errors.Is(err, ErrAnswerNotParseable), errors.Is(err, ErrAnswerSchema):
		return "There was an error parsing the response. Please try again."
	default:
		return "There was an error answering the question. Please try again."
	}
}
